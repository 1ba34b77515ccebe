package dice

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/toonforge/toonforge/internal/errors"
)

// randomRoller implements Roller using math/rand
type randomRoller struct{}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, errors.InvalidArgument("invalid dice count")
	}
	if sides < 1 {
		return nil, errors.InvalidArgument("invalid dice sides")
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		roll := rand.Intn(sides) + 1
		rolls[i] = roll
		rawTotal += roll
	}

	return &RollResult{
		Total:    rawTotal + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: rawTotal,
	}, nil
}

// ParseNotation parses standard dice notation such as "2d6+3" or "1d8-1"
// into its count, sides, and bonus parts. A bare integer like "5" parses
// as a zero-dice constant.
func ParseNotation(notation string) (count, sides, bonus int, err error) {
	s := strings.ReplaceAll(notation, " ", "")
	if s == "" {
		return 0, 0, 0, errors.InvalidArgument("empty dice notation")
	}

	dicePart := s
	if idx := strings.IndexAny(s, "+-"); idx > 0 {
		dicePart = s[:idx]
		bonus, err = strconv.Atoi(s[idx:])
		if err != nil {
			return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
		}
	}

	if !strings.Contains(dicePart, "d") {
		n, convErr := strconv.Atoi(dicePart)
		if convErr != nil {
			return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
		}
		return 0, 0, n + bonus, nil
	}

	parts := strings.SplitN(dicePart, "d", 2)
	if parts[0] == "" {
		parts[0] = "1"
	}
	count, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
	}
	sides, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, errors.InvalidArgumentf("invalid dice notation %q", notation)
	}
	return count, sides, bonus, nil
}

// RollNotation rolls standard dice notation with the given roller
func RollNotation(roller Roller, notation string) (*RollResult, error) {
	count, sides, bonus, err := ParseNotation(notation)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &RollResult{Total: bonus, Bonus: bonus}, nil
	}
	return roller.Roll(count, sides, bonus)
}
