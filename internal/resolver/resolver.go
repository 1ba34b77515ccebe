// Package resolver computes the ordered set of features active for a
// class at a given level. Resolution is pure: it never mutates the shared
// ClassProgression and never touches resource pool state, so re-running
// it at a different level is idempotent.
package resolver

import (
	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// ResolvedFeature is one active feature with its effects flattened out.
// Effects from passive_enhancement features that target it are merged in;
// the descriptor itself stays shared and untouched.
type ResolvedFeature struct {
	Name        string                        `json:"name"`
	Description string                        `json:"description,omitempty"`
	Level       int                           `json:"level"`
	Source      string                        `json:"source,omitempty"`
	SourceType  rulebook.FeatureSource        `json:"source_type,omitempty"`
	Mechanics   *rulebook.MechanicsDescriptor `json:"mechanics,omitempty"`
	Effects     []rulebook.EffectSpec         `json:"effects,omitempty"`

	// EnhancedBy names the passive_enhancement features merged into this one
	EnhancedBy []string `json:"enhanced_by,omitempty"`

	// OptionsKnown is the number of choice options known at the resolved
	// level, for choice mechanics with a progression table
	OptionsKnown int `json:"options_known,omitempty"`

	// ResolvedLevel is the class level the resolve call ran at. Scaling
	// tables on this feature resolve against it, which keeps a multiclass
	// entry's resources scaled to its own class level rather than the
	// character's total. Zero for racial traits.
	ResolvedLevel int `json:"resolved_level,omitempty"`

	// Inactive features were flagged by validation and contribute no effects
	Inactive bool `json:"inactive,omitempty"`
}

// Result is the outcome of one resolve call. Problems collects
// data-consistency errors (dangling enhancement references) that are
// reported without aborting the rest of the resolution.
type Result struct {
	Features []ResolvedFeature
	Problems []*errors.Error
}

// Find returns the resolved feature with the given name, or nil
func (r *Result) Find(name string) *ResolvedFeature {
	for i := range r.Features {
		if r.Features[i].Name == name {
			return &r.Features[i]
		}
	}
	return nil
}

// Resolve computes every feature active for the class at the given level:
// class features from levels 1..level plus, when a subclass is chosen and
// level >= subclass_level, subclass features from subclass_level..level.
// Within a level, class features precede subclass features.
func Resolve(class *rulebook.ClassProgression, level int, subclassKey string) (*Result, error) {
	if class == nil {
		return nil, errors.InvalidArgument("class progression is required")
	}
	if level < 1 || level > rulebook.MaxLevel {
		return nil, errors.InvalidArgumentf("level %d out of range", level)
	}

	var subclass *rulebook.Subclass
	if subclassKey != "" {
		subclass = class.Subclass(subclassKey)
		if subclass == nil {
			return nil, errors.NotFoundf("class %q has no subclass %q", class.Key, subclassKey)
		}
	}

	result := &Result{}
	for lvl := 1; lvl <= level; lvl++ {
		for i := range class.Features[lvl] {
			appendFeature(result, &class.Features[lvl][i], lvl, class.Name, rulebook.SourceClass, level)
		}
		if subclass != nil && lvl >= class.SubclassLevel {
			for i := range subclass.Features[lvl] {
				appendFeature(result, &subclass.Features[lvl][i], lvl, subclass.Name, rulebook.SourceSubclass, level)
			}
		}
	}

	return result, nil
}

// ResolveTraits folds racial traits into resolved features so their
// mechanics participate in snapshot derivation alongside class features
func ResolveTraits(race *rulebook.Race, subraceKey string) *Result {
	result := &Result{}
	if race == nil {
		return result
	}

	for i := range race.Traits {
		appendTrait(result, &race.Traits[i], race.Name)
	}
	if subrace := race.Subrace(subraceKey); subrace != nil {
		for i := range subrace.Traits {
			appendTrait(result, &subrace.Traits[i], subrace.Name)
		}
	}
	return result
}

func appendTrait(result *Result, trait *rulebook.Trait, source string) {
	resolved := ResolvedFeature{
		Name:        trait.Name,
		Description: trait.Description,
		Source:      source,
		SourceType:  rulebook.SourceRace,
		Mechanics:   trait.Mechanics,
	}
	if trait.Mechanics != nil {
		resolved.Effects = copyEffects(trait.Mechanics.Effects)
	}
	result.Features = append(result.Features, resolved)
}

func appendFeature(result *Result, feat *rulebook.Feature, grantedAt int, source string, sourceType rulebook.FeatureSource, level int) {
	resolved := ResolvedFeature{
		Name:          feat.Name,
		Description:   feat.Description,
		Level:         grantedAt,
		Source:        source,
		SourceType:    sourceType,
		Mechanics:     feat.Mechanics,
		Inactive:      feat.Inactive,
		ResolvedLevel: level,
	}

	if feat.Inactive || feat.Mechanics == nil {
		result.Features = append(result.Features, resolved)
		return
	}

	m := feat.Mechanics

	if m.Type == rulebook.MechanicPassiveEnhancement {
		// Locate the named target in the already-accumulated sequence.
		// A missing target is a data-consistency problem for this one
		// feature; the rest of the character keeps resolving.
		target := result.Find(m.Enhances)
		if target == nil {
			result.Problems = append(result.Problems, errors.DanglingEnhancementf(
				"feature %q enhances unknown feature %q", feat.Name, m.Enhances).
				WithMeta("feature", feat.Name).
				WithMeta("enhances", m.Enhances))
			resolved.Inactive = true
			result.Features = append(result.Features, resolved)
			return
		}
		target.Effects = append(target.Effects, copyEffects(m.Effects)...)
		target.EnhancedBy = append(target.EnhancedBy, feat.Name)
		result.Features = append(result.Features, resolved)
		return
	}

	resolved.Effects = copyEffects(m.Effects)

	if m.Type == rulebook.MechanicChoice && len(m.Progression) > 0 {
		if known, active := m.Progression.ValueAt(level); active {
			resolved.OptionsKnown = known
		}
	}

	result.Features = append(result.Features, resolved)
}

func copyEffects(effects []rulebook.EffectSpec) []rulebook.EffectSpec {
	if len(effects) == 0 {
		return nil
	}
	out := make([]rulebook.EffectSpec, len(effects))
	copy(out, effects)
	return out
}
