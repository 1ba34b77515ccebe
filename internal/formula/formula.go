// Package formula resolves the mechanics schema's formula expressions
// against a character attribute snapshot. Evaluation is pure: the same
// snapshot always produces the same result, and nothing is mutated.
package formula

import (
	"strconv"
	"strings"

	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// Snapshot resolves named attributes: "dexterity_modifier", "proficiency",
// "sorcerer_level", "character_level", and named aggregates like
// "half_max_hp". The second return reports whether the name is known.
type Snapshot interface {
	Attribute(name string) (int, bool)
}

// MapSnapshot is the simplest Snapshot, used by tests and one-off lookups
type MapSnapshot map[string]int

// Attribute implements Snapshot
func (m MapSnapshot) Attribute(name string) (int, bool) {
	v, ok := m[name]
	return v, ok
}

// Evaluate resolves an expression of '+'-joined terms, each a literal
// integer or a named attribute reference. An unresolvable token fails
// with an explicit error rather than defaulting to zero: a silent zero
// would corrupt derived combat math.
func Evaluate(expr string, snap Snapshot) (int, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, errors.UnknownFormulaTokenf("empty formula")
	}

	total := 0
	for _, term := range strings.Split(expr, "+") {
		term = strings.TrimSpace(term)
		if term == "" {
			return 0, errors.UnknownFormulaTokenf("malformed formula %q", expr).
				WithMeta("formula", expr)
		}

		if n, err := strconv.Atoi(term); err == nil {
			total += n
			continue
		}

		token := strings.ToLower(term)
		value, ok := snap.Attribute(token)
		if !ok {
			return 0, errors.UnknownFormulaTokenf("unknown formula token %q", term).
				WithMeta("formula", expr).
				WithMeta("token", term)
		}
		total += value
	}
	return total, nil
}

// EvaluateAmount resolves a schema Amount at the given level. The second
// return is false when the amount is a scaling table whose lowest key is
// above the level, meaning the value is not yet active.
func EvaluateAmount(a rulebook.Amount, level int, snap Snapshot) (int, bool, error) {
	switch {
	case a.IsLiteral():
		return a.Value, true, nil
	case len(a.Scaling) > 0:
		v, active := a.Scaling.ValueAt(level)
		return v, active, nil
	case a.Formula != "":
		v, err := Evaluate(a.Formula, snap)
		if err != nil {
			return 0, false, err
		}
		return v, true, nil
	default:
		return 0, false, errors.UnknownFormulaTokenf("amount has no value, formula, or scaling table")
	}
}
