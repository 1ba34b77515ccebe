package character

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/formula"
	"github.com/toonforge/toonforge/internal/resolver"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// CharacterState is the serializable snapshot handed to collaborators
// (export, CLI). Everything in it is derived fresh on every call; pool
// currents and hit points are the only carried-over runtime state.
type CharacterState struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Race       string `json:"race,omitempty"`
	Subrace    string `json:"subrace,omitempty"`
	Background string `json:"background,omitempty"`

	Classes          []ClassSummary           `json:"classes"`
	Level            int                      `json:"level"`
	ProficiencyBonus int                      `json:"proficiency_bonus"`
	Abilities        map[Ability]AbilityState `json:"abilities"`

	SavingThrows map[Ability]SavingThrowState `json:"saving_throws"`
	Skills       map[string]SkillState        `json:"skills,omitempty"`

	Speed            int `json:"speed"`
	ArmorClass       int `json:"armor_class"`
	InitiativeBonus  int `json:"initiative_bonus"`
	MaxHitPoints     int `json:"max_hit_points"`
	CurrentHitPoints int `json:"current_hit_points"`

	Resistances      []string      `json:"resistances,omitempty"`
	DamageBonuses    []DamageBonus `json:"damage_bonuses,omitempty"`
	SpellDamageBonus int           `json:"spell_damage_bonus,omitempty"`

	Features []FeatureState       `json:"features"`
	Pools    map[string]PoolState `json:"pools"`

	Conditions map[string]bool `json:"conditions,omitempty"`

	SkillProficiencies  []string `json:"skill_proficiencies,omitempty"`
	ToolProficiencies   []string `json:"tool_proficiencies,omitempty"`
	Languages           []string `json:"languages,omitempty"`
	ArmorProficiencies  []string `json:"armor_proficiencies,omitempty"`
	WeaponProficiencies []string `json:"weapon_proficiencies,omitempty"`

	// Problems carries data-consistency diagnostics (dangling enhancement
	// references, unresolvable effect formulas) that did not abort the
	// snapshot
	Problems []string `json:"problems,omitempty"`
}

// ClassSummary is one multiclass entry in a snapshot
type ClassSummary struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Subclass string `json:"subclass,omitempty"`
	HitDie   int    `json:"hit_die"`
}

// AbilityState is one ability score with its derived modifier
type AbilityState struct {
	Score    int `json:"score"`
	Modifier int `json:"modifier"`
}

// SavingThrowState is one save with its derived bonus
type SavingThrowState struct {
	Bonus      int  `json:"bonus"`
	Proficient bool `json:"proficient"`
}

// SkillState is one granted skill with the ability it rolls with and
// its derived bonus
type SkillState struct {
	Ability Ability `json:"ability"`
	Bonus   int     `json:"bonus"`
}

// PoolState is a resource pool's runtime numbers
type PoolState struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

// DamageBonus is one merged damage bonus with its gate
type DamageBonus struct {
	Amount     int    `json:"amount"`
	DamageType string `json:"damage_type,omitempty"`
	Condition  string `json:"condition,omitempty"`
	Source     string `json:"source"`
}

// FeatureState is one active feature with its effects resolved to numbers
type FeatureState struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Level        int           `json:"level"`
	Source       string        `json:"source,omitempty"`
	OptionsKnown int           `json:"options_known,omitempty"`
	Inactive     bool          `json:"inactive,omitempty"`
	Effects      []EffectState `json:"effects,omitempty"`
}

// EffectState is one effect with its formula resolved against the
// snapshot. Applied reports whether its condition gate is satisfied.
type EffectState struct {
	Kind       rulebook.EffectKind `json:"kind"`
	Value      int                 `json:"value,omitempty"`
	Condition  string              `json:"condition,omitempty"`
	DamageType string              `json:"damage_type,omitempty"`
	Target     string              `json:"target,omitempty"`
	Applied    bool                `json:"applied"`
}

// featureGroup keeps resolved features next to the level their formulas
// and scaling tables resolve at
type featureGroup struct {
	features []resolver.ResolvedFeature
	level    int
}

// State derives a fresh snapshot: per-entry feature resolution, condition-
// gated effect merging into cumulative totals, and the ledger's current
// pools. Nothing from a previous snapshot leaks in.
func (c *Character) State() (*CharacterState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := &CharacterState{
		ID:                  c.ID,
		Name:                c.Name,
		Level:               c.Level(),
		ProficiencyBonus:    ProficiencyBonus(c.Level()),
		Speed:               c.Speed,
		Abilities:           make(map[Ability]AbilityState),
		Pools:               make(map[string]PoolState),
		Conditions:          copyConditions(c.Conditions),
		SkillProficiencies:  append([]string(nil), c.SkillProficiencies...),
		ToolProficiencies:   append([]string(nil), c.ToolProficiencies...),
		Languages:           append([]string(nil), c.Languages...),
		ArmorProficiencies:  append([]string(nil), c.ArmorProficiencies...),
		WeaponProficiencies: append([]string(nil), c.WeaponProficiencies...),
	}
	if c.Race != nil {
		state.Race = c.Race.Name
		if subrace := c.Race.Subrace(c.SubraceKey); subrace != nil {
			state.Subrace = subrace.Name
		}
	}
	if c.Background != nil {
		state.Background = c.Background.Name
	}
	for _, ability := range Abilities {
		if score, ok := c.Attributes[ability]; ok {
			state.Abilities[ability] = AbilityState{Score: score.Score, Modifier: score.Modifier()}
		}
	}

	state.SavingThrows = make(map[Ability]SavingThrowState, len(Abilities))
	for _, ability := range Abilities {
		bonus := c.modifier(ability)
		proficient := containsName(c.SavingThrowProficiencies, string(ability))
		if proficient {
			bonus += state.ProficiencyBonus
		}
		state.SavingThrows[ability] = SavingThrowState{Bonus: bonus, Proficient: proficient}
	}

	state.Skills = make(map[string]SkillState, len(c.SkillProficiencies))
	for _, skill := range c.SkillProficiencies {
		ability, ok := SkillAbility(skill)
		if !ok {
			state.Problems = append(state.Problems,
				fmt.Sprintf("skill %q is not in the standard skill list", skill))
			continue
		}
		state.Skills[skill] = SkillState{
			Ability: ability,
			Bonus:   c.modifier(ability) + state.ProficiencyBonus,
		}
	}

	groups, problems, err := c.resolveGroups()
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		state.Problems = append(state.Problems, p.Error())
	}
	state.Classes = appendClassSummaries(nil, c.Classes)

	snap := c.formulaView()

	// Hit point bonuses resolve first so half_max_hp sees the effective
	// maximum
	hpBonus := c.mergeHPBonuses(groups, snap, state)
	state.MaxHitPoints = c.MaxHitPoints + hpBonus
	state.CurrentHitPoints = c.CurrentHitPoints + hpBonus
	if state.CurrentHitPoints > state.MaxHitPoints {
		state.CurrentHitPoints = state.MaxHitPoints
	}
	snap["half_max_hp"] = state.MaxHitPoints / 2

	c.mergeEffects(groups, snap, state)

	for _, pool := range c.Ledger.Pools() {
		state.Pools[pool.Name] = PoolState{Current: pool.Current, Maximum: pool.Maximum}
	}

	sort.Strings(state.Resistances)
	return state, nil
}

// resolveGroups resolves per multiclass entry, then racial traits, keeping
// the level each group's scaling tables resolve at. Caller holds the mutex.
func (c *Character) resolveGroups() ([]featureGroup, []*errors.Error, error) {
	var groups []featureGroup
	var problems []*errors.Error

	for _, cl := range c.Classes {
		result, err := resolver.Resolve(cl.Progression, cl.Level, cl.SubclassKey)
		if err != nil {
			return nil, nil, err
		}
		groups = append(groups, featureGroup{features: result.Features, level: cl.Level})
		problems = append(problems, result.Problems...)
	}

	if c.Race != nil {
		result := resolver.ResolveTraits(c.Race, c.SubraceKey)
		groups = append(groups, featureGroup{features: result.Features, level: c.Level()})
		problems = append(problems, result.Problems...)
	}

	return groups, problems, nil
}

// mergeHPBonuses sums hp_bonus_per_level effects scaled by the owning
// entry's level
func (c *Character) mergeHPBonuses(groups []featureGroup, snap formula.MapSnapshot, state *CharacterState) int {
	total := 0
	for _, g := range groups {
		for i := range g.features {
			feat := &g.features[i]
			if feat.Inactive {
				continue
			}
			for _, effect := range feat.Effects {
				if effect.Kind != rulebook.EffectHPBonusPerLevel || !c.conditionSatisfied(effect.Condition) {
					continue
				}
				perLevel, active, err := formula.EvaluateAmount(effect.Value, g.level, snap)
				if err != nil {
					state.Problems = append(state.Problems, err.Error())
					continue
				}
				if active {
					total += perLevel * g.level
				}
			}
		}
	}
	return total
}

// mergeEffects walks every resolved effect, resolves its value against the
// snapshot, and folds satisfied effects into the cumulative totals. An
// unresolvable formula omits that one effect and records a problem; it
// never aborts the snapshot.
func (c *Character) mergeEffects(groups []featureGroup, snap formula.MapSnapshot, state *CharacterState) {
	baseAC := 10 + c.modifier(AbilityDexterity)
	acBonus := 0

	for _, g := range groups {
		for i := range g.features {
			feat := &g.features[i]
			fs := FeatureState{
				Name:         feat.Name,
				Description:  feat.Description,
				Level:        feat.Level,
				Source:       feat.Source,
				OptionsKnown: feat.OptionsKnown,
				Inactive:     feat.Inactive,
			}

			for _, effect := range feat.Effects {
				es := EffectState{
					Kind:       effect.Kind,
					Condition:  effect.Condition,
					DamageType: effect.DamageType,
					Target:     effect.Target,
					Applied:    c.conditionSatisfied(effect.Condition),
				}

				value := 0
				if !effect.Value.IsZero() {
					v, active, err := formula.EvaluateAmount(effect.Value, g.level, snap)
					if err != nil {
						state.Problems = append(state.Problems, err.Error())
						es.Applied = false
						fs.Effects = append(fs.Effects, es)
						continue
					}
					if !active {
						es.Applied = false
						fs.Effects = append(fs.Effects, es)
						continue
					}
					value = v
				}
				es.Value = value
				fs.Effects = append(fs.Effects, es)

				if !es.Applied {
					continue
				}

				switch effect.Kind {
				case rulebook.EffectACBonus:
					if effect.Target == "base_ac" {
						if value > baseAC {
							baseAC = value
						}
					} else {
						acBonus += value
					}
				case rulebook.EffectResistance:
					state.Resistances = appendUnique(state.Resistances, effect.DamageType)
				case rulebook.EffectDamageBonus:
					state.DamageBonuses = append(state.DamageBonuses, DamageBonus{
						Amount:     value,
						DamageType: effect.DamageType,
						Condition:  effect.Condition,
						Source:     feat.Name,
					})
				case rulebook.EffectSpellDamageBonus:
					state.SpellDamageBonus += value
				case rulebook.EffectMovement:
					state.Speed += value
				case rulebook.EffectInitiativeBonus:
					state.InitiativeBonus += value
				}
			}

			state.Features = append(state.Features, fs)
		}
	}

	state.ArmorClass = baseAC + acBonus
}

// conditionSatisfied evaluates an effect's gate against the character's
// condition flags. An empty condition is always satisfied.
func (c *Character) conditionSatisfied(condition string) bool {
	if condition == "" {
		return true
	}
	return c.Conditions[condition]
}

func appendClassSummaries(dst []ClassSummary, classes []ClassLevel) []ClassSummary {
	for _, cl := range classes {
		if cl.Progression == nil {
			continue
		}
		summary := ClassSummary{
			Key:    cl.Progression.Key,
			Name:   cl.Progression.Name,
			Level:  cl.Level,
			HitDie: cl.Progression.HitDie,
		}
		if subclass := cl.Progression.Subclass(cl.SubclassKey); subclass != nil {
			summary.Subclass = subclass.Name
		}
		dst = append(dst, summary)
	}
	return dst
}

func containsName(list []string, name string) bool {
	for _, candidate := range list {
		if strings.EqualFold(candidate, name) {
			return true
		}
	}
	return false
}

func copyConditions(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
