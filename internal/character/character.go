// Package character owns runtime character state and derives the
// serializable snapshot exported to collaborators. Everything in a
// snapshot is recomputed fresh from the rulebook on every call; the only
// state that persists between derivations is resource pool currents,
// hit points, and the character's own choices.
package character

import (
	"sync"

	"github.com/toonforge/toonforge/internal/dice"
	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/formula"
	"github.com/toonforge/toonforge/internal/ledger"
	"github.com/toonforge/toonforge/internal/resolver"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// ClassLevel is one multiclass entry: a shared read-only progression plus
// the character's level and subclass choice in it.
type ClassLevel struct {
	Progression *rulebook.ClassProgression
	SubclassKey string
	Level       int
}

// Character is the unit of mutation. All operations on one character are
// serialized by its mutex; operations on different characters are fully
// independent.
type Character struct {
	ID      string
	OwnerID string
	Name    string

	Race       *rulebook.Race
	SubraceKey string
	Background *rulebook.Background
	Classes    []ClassLevel

	Attributes map[Ability]*AbilityScore
	Speed      int

	// MaxHitPoints is the rolled base, before hp_bonus_per_level effects.
	// The snapshot reports the effective total.
	MaxHitPoints     int
	CurrentHitPoints int

	SkillProficiencies       []string
	ToolProficiencies        []string
	Languages                []string
	SavingThrowProficiencies []string
	ArmorProficiencies       []string
	WeaponProficiencies      []string

	// Conditions holds effect-gating flags like "raging" or "unarmored"
	Conditions map[string]bool

	Ledger *ledger.Ledger

	mu sync.Mutex
}

// New creates an empty character shell with an empty ledger and the
// default condition flags. Race, class, background, and scores are
// applied by the caller.
func New(id, ownerID, name string) *Character {
	return &Character{
		ID:         id,
		OwnerID:    ownerID,
		Name:       name,
		Attributes: make(map[Ability]*AbilityScore),
		Conditions: map[string]bool{
			// No equipment model: a fresh character wears no armor until
			// a caller flags otherwise
			"unarmored":       true,
			"not_heavy_armor": true,
		},
		Ledger: ledger.New(),
	}
}

// Level is the total character level across all classes
func (c *Character) Level() int {
	total := 0
	for _, cl := range c.Classes {
		total += cl.Level
	}
	return total
}

// classEntry finds the multiclass entry for the given class key, or nil
func (c *Character) classEntry(classKey string) *ClassLevel {
	for i := range c.Classes {
		if c.Classes[i].Progression != nil && c.Classes[i].Progression.Key == classKey {
			return &c.Classes[i]
		}
	}
	return nil
}

// SetRace applies a race: ability score increases, speed, languages, and
// trait proficiency grants, with the subrace's bonuses and grants on top.
// Apply once, at creation; trait mechanics are not consumed here, they
// participate in every snapshot via the resolver.
func (c *Character) SetRace(race *rulebook.Race, subraceKey string) error {
	if race == nil {
		return errors.InvalidArgument("race is required")
	}
	var subrace *rulebook.Subrace
	if subraceKey != "" {
		subrace = race.Subrace(subraceKey)
		if subrace == nil {
			return errors.NotFoundf("race %q has no subrace %q", race.Key, subraceKey)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Race = race
	c.SubraceKey = subraceKey
	c.Speed = race.Speed
	c.Languages = appendUnique(c.Languages, race.Languages...)
	c.applyAbilityBonuses(race.AbilityBonuses)

	for i := range race.Traits {
		c.applyTraitGrants(race.Traits[i].Grants)
	}
	if subrace != nil {
		c.applyAbilityBonuses(subrace.AbilityBonuses)
		for i := range subrace.Traits {
			c.applyTraitGrants(subrace.Traits[i].Grants)
		}
	}
	return nil
}

// SetBackground applies a background's skill, tool, and language grants
func (c *Character) SetBackground(bg *rulebook.Background) error {
	if bg == nil {
		return errors.InvalidArgument("background is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Background = bg
	c.SkillProficiencies = appendUnique(c.SkillProficiencies, bg.SkillProficiencies...)
	c.ToolProficiencies = appendUnique(c.ToolProficiencies, bg.ToolProficiencies...)
	c.Languages = appendUnique(c.Languages, bg.Languages...)
	return nil
}

func (c *Character) applyAbilityBonuses(bonuses map[string]int) {
	for name, bonus := range bonuses {
		score, ok := c.Attributes[Ability(name)]
		if !ok {
			score = &AbilityScore{}
			c.Attributes[Ability(name)] = score
		}
		score.Score += bonus
	}
}

func (c *Character) applyTraitGrants(grants *rulebook.TraitGrants) {
	if grants == nil {
		return
	}
	c.SkillProficiencies = appendUnique(c.SkillProficiencies, grants.Skills...)
	c.ToolProficiencies = appendUnique(c.ToolProficiencies, grants.Tools...)
	c.Languages = appendUnique(c.Languages, grants.Languages...)
}

// AddClass takes the first level in a class: hit die maximum plus the
// constitution modifier for hit points, then a ledger rebuild. Errors when
// the character already has levels in the class.
func (c *Character) AddClass(class *rulebook.ClassProgression, subclassKey string) error {
	if class == nil {
		return errors.InvalidArgument("class progression is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.classEntry(class.Key) != nil {
		return errors.InvalidArgumentf("character already has levels in %q", class.Key)
	}
	if subclassKey != "" && class.Subclass(subclassKey) == nil {
		return errors.NotFoundf("class %q has no subclass %q", class.Key, subclassKey)
	}

	c.Classes = append(c.Classes, ClassLevel{Progression: class, SubclassKey: subclassKey, Level: 1})

	// Weapon and armor training come with every class; saving throws and
	// skills only with the first
	c.ArmorProficiencies = appendUnique(c.ArmorProficiencies, class.ArmorProficiencies...)
	c.WeaponProficiencies = appendUnique(c.WeaponProficiencies, class.WeaponProficiencies...)

	if len(c.Classes) == 1 {
		c.SavingThrowProficiencies = appendUnique(c.SavingThrowProficiencies, class.SavingThrowProficiencies...)
		c.SkillProficiencies = appendUnique(c.SkillProficiencies, class.SkillProficiencies...)

		hp := class.HitDie + c.modifier(AbilityConstitution)
		if hp < 1 {
			hp = 1
		}
		c.MaxHitPoints = hp
		c.CurrentHitPoints = hp
	} else {
		c.gainHitPointsAverage(class.HitDie)
	}

	return c.rebuildLedger()
}

// LevelUp adds one level in a class the character already has. Hit points
// grow by a hit die roll plus the constitution modifier (minimum 1);
// passing a nil roller takes the fixed average instead.
func (c *Character) LevelUp(classKey string, roller dice.Roller) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.classEntry(classKey)
	if entry == nil {
		return errors.NotFoundf("character has no levels in %q", classKey)
	}
	if entry.Level >= rulebook.MaxLevel {
		return errors.InvalidArgumentf("%s is already at level %d", classKey, rulebook.MaxLevel)
	}
	if c.Level() >= rulebook.MaxLevel {
		return errors.InvalidArgumentf("character is already at total level %d", rulebook.MaxLevel)
	}

	entry.Level++

	if roller != nil {
		roll, err := roller.Roll(1, entry.Progression.HitDie, 0)
		if err != nil {
			entry.Level--
			return errors.Wrap(err, "rolling hit points")
		}
		gain := roll.Total + c.modifier(AbilityConstitution)
		if gain < 1 {
			gain = 1
		}
		c.MaxHitPoints += gain
		c.CurrentHitPoints += gain
	} else {
		c.gainHitPointsAverage(entry.Progression.HitDie)
	}

	return c.rebuildLedger()
}

// SetSubclass records the subclass choice for a class the character has
func (c *Character) SetSubclass(classKey, subclassKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.classEntry(classKey)
	if entry == nil {
		return errors.NotFoundf("character has no levels in %q", classKey)
	}
	if entry.Progression.Subclass(subclassKey) == nil {
		return errors.NotFoundf("class %q has no subclass %q", classKey, subclassKey)
	}
	entry.SubclassKey = subclassKey
	return c.rebuildLedger()
}

// gainHitPointsAverage adds the fixed per-level amount: half the hit die
// rounded up, plus the constitution modifier, minimum 1
func (c *Character) gainHitPointsAverage(hitDie int) {
	gain := hitDie/2 + 1 + c.modifier(AbilityConstitution)
	if gain < 1 {
		gain = 1
	}
	c.MaxHitPoints += gain
	c.CurrentHitPoints += gain
}

// Rest applies a rest tier to the ledger; a long rest also restores hit
// points to maximum
func (c *Character) Rest(tier rulebook.RestTier) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.Ledger.Recover(tier, c.formulaView()); err != nil {
		return err
	}
	if tier == rulebook.RestLong {
		c.CurrentHitPoints = c.MaxHitPoints
	}
	return nil
}

// SpendResource decrements a resource pool, failing without mutation when
// the pool holds less than requested
func (c *Character) SpendResource(pool string, amount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Ledger.Spend(pool, amount)
}

// Convert runs one declared resource conversion atomically
func (c *Character) Convert(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Ledger.Convert(name)
}

// SetCondition flips an effect-gating flag such as "raging"
func (c *Character) SetCondition(name string, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Conditions == nil {
		c.Conditions = make(map[string]bool)
	}
	c.Conditions[name] = active
}

// Recalculate rebuilds resource pools from the current build. Used after
// loading a persisted character, where pool currents are restored on top.
func (c *Character) Recalculate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuildLedger()
}

// rebuildLedger reconciles resource pools against the freshly resolved
// feature set. Caller holds the mutex.
func (c *Character) rebuildLedger() error {
	features, _, err := c.resolveAll()
	if err != nil {
		return err
	}
	if c.Ledger == nil {
		c.Ledger = ledger.New()
	}
	return c.Ledger.Rebuild(features, c.Level(), c.formulaView())
}

// resolveAll runs the resolver per multiclass entry, class order as
// chosen, then racial traits. Caller holds the mutex.
func (c *Character) resolveAll() ([]resolver.ResolvedFeature, []*errors.Error, error) {
	var features []resolver.ResolvedFeature
	var problems []*errors.Error

	for _, cl := range c.Classes {
		result, err := resolver.Resolve(cl.Progression, cl.Level, cl.SubclassKey)
		if err != nil {
			return nil, nil, err
		}
		features = append(features, result.Features...)
		problems = append(problems, result.Problems...)
	}

	if c.Race != nil {
		result := resolver.ResolveTraits(c.Race, c.SubraceKey)
		features = append(features, result.Features...)
		problems = append(problems, result.Problems...)
	}

	return features, problems, nil
}

// modifier reads one ability modifier, zero when the score is unset.
// Caller holds the mutex.
func (c *Character) modifier(ability Ability) int {
	if score, ok := c.Attributes[ability]; ok {
		return score.Modifier()
	}
	return 0
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		seen := false
		for _, existing := range dst {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, v)
		}
	}
	return dst
}

// formulaView builds the token set formulas evaluate against. Caller
// holds the mutex.
func (c *Character) formulaView() formula.MapSnapshot {
	snap := formula.MapSnapshot{}
	for _, ability := range Abilities {
		snap[string(ability)+"_modifier"] = c.modifier(ability)
		if score, ok := c.Attributes[ability]; ok {
			snap[string(ability)+"_score"] = score.Score
		}
	}
	level := c.Level()
	snap["character_level"] = level
	snap["proficiency"] = ProficiencyBonus(level)
	snap["half_max_hp"] = c.MaxHitPoints / 2
	for _, cl := range c.Classes {
		if cl.Progression != nil {
			snap[cl.Progression.Key+"_level"] = cl.Level
		}
	}
	return snap
}
