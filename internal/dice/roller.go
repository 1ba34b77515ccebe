package dice

// Roller provides an interface for rolling dice
// This allows injecting deterministic implementations for testing
type Roller interface {
	// Roll rolls a number of dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)
}

// RollResult holds the outcome of a dice roll
type RollResult struct {
	Total    int   `json:"total"`
	Rolls    []int `json:"rolls"`
	Bonus    int   `json:"bonus"`
	Count    int   `json:"count"`
	Sides    int   `json:"sides"`
	RawTotal int   `json:"raw_total"`
}

// DropLowest returns the total minus the lowest individual die.
// Used for the 4d6-drop-lowest ability score method.
func (r *RollResult) DropLowest() int {
	if len(r.Rolls) == 0 {
		return r.Total
	}
	lowest := r.Rolls[0]
	for _, roll := range r.Rolls[1:] {
		if roll < lowest {
			lowest = roll
		}
	}
	return r.Total - lowest
}
