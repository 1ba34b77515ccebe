package rulebook

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/toonforge/toonforge/internal/errors"
)

// MechanicType identifies what a feature's mechanics descriptor does.
// The vocabulary is closed: unknown tags fail validation rather than being
// silently ignored.
type MechanicType string

const (
	MechanicPassive                 MechanicType = "passive"
	MechanicResource                MechanicType = "resource"
	MechanicChoice                  MechanicType = "choice"
	MechanicAbilityScoreImprovement MechanicType = "ability_score_improvement"
	MechanicSubclassChoice          MechanicType = "subclass_choice"
	MechanicPassiveEnhancement      MechanicType = "passive_enhancement"
	MechanicSpellcasting            MechanicType = "spellcasting"
	MechanicAction                  MechanicType = "action"
	MechanicReaction                MechanicType = "reaction"
	MechanicResourceImprovement     MechanicType = "resource_improvement"
)

var recognizedMechanics = map[MechanicType]bool{
	MechanicPassive:                 true,
	MechanicResource:                true,
	MechanicChoice:                  true,
	MechanicAbilityScoreImprovement: true,
	MechanicSubclassChoice:          true,
	MechanicPassiveEnhancement:      true,
	MechanicSpellcasting:            true,
	MechanicAction:                  true,
	MechanicReaction:                true,
	MechanicResourceImprovement:     true,
}

// Recognized reports whether the type is in the closed vocabulary
func (m MechanicType) Recognized() bool {
	return recognizedMechanics[m]
}

// EffectKind identifies one atomic modifier an effect applies
type EffectKind string

const (
	EffectDamageBonus      EffectKind = "damage_bonus"
	EffectACBonus          EffectKind = "ac_bonus"
	EffectResistance       EffectKind = "resistance"
	EffectAdvantage        EffectKind = "advantage"
	EffectHealing          EffectKind = "healing"
	EffectMovement         EffectKind = "movement"
	EffectCondition        EffectKind = "condition"
	EffectSpellDamageBonus EffectKind = "spell_damage_bonus"
	EffectHPBonusPerLevel  EffectKind = "hp_bonus_per_level"
	EffectSavingThrowBonus EffectKind = "saving_throw_bonus"
	EffectInitiativeBonus  EffectKind = "initiative_bonus"
)

var recognizedEffects = map[EffectKind]bool{
	EffectDamageBonus:      true,
	EffectACBonus:          true,
	EffectResistance:       true,
	EffectAdvantage:        true,
	EffectHealing:          true,
	EffectMovement:         true,
	EffectCondition:        true,
	EffectSpellDamageBonus: true,
	EffectHPBonusPerLevel:  true,
	EffectSavingThrowBonus: true,
	EffectInitiativeBonus:  true,
}

// Recognized reports whether the kind is in the closed vocabulary
func (k EffectKind) Recognized() bool {
	return recognizedEffects[k]
}

// RestTier is one of the two recovery trigger categories
type RestTier string

const (
	RestShort RestTier = "short_rest"
	RestLong  RestTier = "long_rest"
	RestNone  RestTier = "none"
)

// ScalingTable maps a minimum level to a value. Lookups resolve to the
// value at the highest key less than or equal to the current level.
type ScalingTable map[int]int

// UnmarshalJSON accepts the source data's string-keyed form, e.g. {"1":1,"9":2}
func (t *ScalingTable) UnmarshalJSON(data []byte) error {
	raw := map[string]int{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ScalingTable, len(raw))
	for k, v := range raw {
		level, err := strconv.Atoi(k)
		if err != nil {
			return errors.InvalidArgumentf("scaling table key %q is not a level", k)
		}
		out[level] = v
	}
	*t = out
	return nil
}

// MarshalJSON writes the string-keyed form back out
func (t ScalingTable) MarshalJSON() ([]byte, error) {
	raw := make(map[string]int, len(t))
	for k, v := range t {
		raw[strconv.Itoa(k)] = v
	}
	return json.Marshal(raw)
}

// ValueAt resolves the table at the given level. The second return is false
// when the level is below the lowest key, meaning the entry is not yet active.
func (t ScalingTable) ValueAt(level int) (int, bool) {
	best := 0
	found := false
	for threshold := range t {
		if threshold <= level && (!found || threshold > best) {
			best = threshold
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return t[best], true
}

// Amount is a literal value, a formula, or a level-keyed scaling table.
// Exactly one of the three forms is set.
type Amount struct {
	Value   int          `json:"value,omitempty"`
	Formula string       `json:"formula,omitempty"`
	Scaling ScalingTable `json:"scaling,omitempty"`

	literal bool
}

// LiteralAmount builds an Amount holding a plain integer
func LiteralAmount(v int) Amount {
	return Amount{Value: v, literal: true}
}

// FormulaAmount builds an Amount holding a formula expression
func FormulaAmount(expr string) Amount {
	return Amount{Formula: expr}
}

// ScalingAmount builds an Amount holding a scaling table
func ScalingAmount(t ScalingTable) Amount {
	return Amount{Scaling: t}
}

// IsZero reports whether no form was provided
func (a Amount) IsZero() bool {
	return !a.literal && a.Formula == "" && len(a.Scaling) == 0
}

// IsLiteral reports whether the amount is a plain integer
func (a Amount) IsLiteral() bool {
	return a.literal
}

// UnmarshalJSON accepts a bare number, a formula string, or a scaling table object
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		// Quoted integers in the source data are still literals
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*a = LiteralAmount(n)
			return nil
		}
		*a = FormulaAmount(s)
		return nil
	case '{':
		var t ScalingTable
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		*a = ScalingAmount(t)
		return nil
	default:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*a = LiteralAmount(n)
		return nil
	}
}

// MarshalJSON writes the amount back in its source form
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.literal:
		return json.Marshal(a.Value)
	case a.Formula != "":
		return json.Marshal(a.Formula)
	case len(a.Scaling) > 0:
		return json.Marshal(a.Scaling)
	default:
		return []byte("null"), nil
	}
}

// EffectSpec is one atomic modifier granted by a feature
type EffectSpec struct {
	Kind       EffectKind `json:"kind"`
	Value      Amount     `json:"value,omitempty"`
	Condition  string     `json:"condition,omitempty"`
	DamageType string     `json:"damage_type,omitempty"`
	Target     string     `json:"target,omitempty"`
}

// CostSpec is a normalized (pool, amount) activation cost
type CostSpec struct {
	Pool   string `json:"pool"`
	Amount int    `json:"amount"`
}

// ResourceSpec declares a consumable pool granted by a resource mechanic
type ResourceSpec struct {
	Name     string   `json:"name"`
	Maximum  Amount   `json:"maximum"`
	Recovery RestTier `json:"recovery"`

	// RecoverAmount, when set, makes recovery partial: the pool regains
	// the formula result instead of refilling to maximum
	RecoverAmount string `json:"recover_amount,omitempty"`

	// RecoverOn overrides which rest tier triggers partial recovery
	RecoverOn RestTier `json:"recover_on,omitempty"`
}

// UsesSpec limits how often an action or reaction mechanic may be used
type UsesSpec struct {
	Amount   Amount   `json:"amount"`
	Recovery RestTier `json:"recovery"`
}

// ChoiceOption is one selectable option of a choice mechanic, e.g. a
// metamagic option. Costs arrive either normalized or as prose text to be
// normalized at validation time.
type ChoiceOption struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Cost        *CostSpec `json:"cost,omitempty"`
	CostText    string    `json:"cost_text,omitempty"`
}

// ConversionRate declares one explicit paired exchange between two pools
type ConversionRate struct {
	Name       string `json:"name"`
	FromPool   string `json:"from_pool"`
	FromAmount int    `json:"from_amount"`
	ToPool     string `json:"to_pool"`
	ToAmount   int    `json:"to_amount"`
}

// MechanicsDescriptor is the declarative behavior of a feature. Immutable
// once loaded; which fields are meaningful depends on Type.
type MechanicsDescriptor struct {
	Type MechanicType `json:"type"`

	Effects []EffectSpec `json:"effects,omitempty"`

	// Resource mechanics
	Resource    *ResourceSpec    `json:"resource,omitempty"`
	Conversions []ConversionRate `json:"conversions,omitempty"`

	// Action/reaction mechanics
	Uses     *UsesSpec `json:"uses,omitempty"`
	Cost     *CostSpec `json:"cost,omitempty"`
	Duration string    `json:"duration,omitempty"`

	// Choice mechanics: options plus how many are known per level
	Options     []ChoiceOption `json:"options,omitempty"`
	Progression ScalingTable   `json:"progression,omitempty"`

	// Passive enhancement: the name of the previously granted feature it modifies
	Enhances string `json:"enhances,omitempty"`

	// Spellcasting mechanics: casting ability and slot counts keyed by
	// slot level, each a scaling table over class level
	Ability    string               `json:"ability,omitempty"`
	SpellSlots map[int]ScalingTable `json:"spell_slots,omitempty"`
}

// normalizeCostText parses prose costs like "2 sorcery points" into a
// typed (pool, amount) pair. Returns nil when the prose does not follow
// the "<amount> <pool name>" shape.
func normalizeCostText(text string) *CostSpec {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) < 2 {
		return nil
	}
	amount, err := strconv.Atoi(fields[0])
	if err != nil || amount < 0 {
		return nil
	}
	pool := strings.Join(fields[1:], "_")
	if !strings.HasSuffix(pool, "s") {
		pool += "s"
	}
	return &CostSpec{Pool: pool, Amount: amount}
}
