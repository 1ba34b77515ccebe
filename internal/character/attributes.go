package character

import "fmt"

// Ability names the six ability scores. The string values double as the
// formula token prefix, so "dexterity" backs the "dexterity_modifier"
// token.
type Ability string

const (
	AbilityStrength     Ability = "strength"
	AbilityDexterity    Ability = "dexterity"
	AbilityConstitution Ability = "constitution"
	AbilityIntelligence Ability = "intelligence"
	AbilityWisdom       Ability = "wisdom"
	AbilityCharisma     Ability = "charisma"
)

// Abilities lists the six abilities in sheet order
var Abilities = []Ability{
	AbilityStrength, AbilityDexterity, AbilityConstitution,
	AbilityIntelligence, AbilityWisdom, AbilityCharisma,
}

// AbilityScore is one raw ability score. The modifier is always derived,
// never stored, so bonus application cannot drift out of sync.
type AbilityScore struct {
	Score int `json:"score"`
}

// Modifier is (score - 10) / 2 rounded down, so 7 gives -2, not -1
func (a AbilityScore) Modifier() int {
	d := a.Score - 10
	if d < 0 {
		d--
	}
	return d / 2
}

func (a AbilityScore) String() string {
	return fmt.Sprintf("%d (%+d)", a.Score, a.Modifier())
}

// ProficiencyBonus for a total character level: 2 at level 1, +1 every
// four levels after
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}
