package rulebook

import (
	"fmt"

	"github.com/toonforge/toonforge/internal/errors"
)

// ValidateClass checks a class document against the recognized mechanics
// vocabulary. Every problem in the document is collected into the returned
// batch; offending features are flagged inactive so the rest of the
// document remains usable. Runs once at data-load time.
func ValidateClass(c *ClassProgression) *errors.ValidationBatch {
	batch := errors.NewValidationBatch("class " + c.Key)

	if c.Key == "" {
		batch.Addf(errors.CodeValidation, "class is missing a key")
	}
	if c.HitDie <= 0 {
		batch.Addf(errors.CodeValidation, "class %q has no hit die", c.Key)
	}

	for level, feats := range c.Features {
		if level < 1 || level > MaxLevel {
			batch.Addf(errors.CodeValidation, "class %q grants features at invalid level %d", c.Key, level)
		}
		for i := range feats {
			validateFeature(&feats[i], batch)
		}
	}

	if len(c.Subclasses) > 0 && c.SubclassLevel < 1 {
		batch.Addf(errors.CodeValidation, "class %q declares subclasses without a subclass_level", c.Key)
	}

	for si := range c.Subclasses {
		sub := &c.Subclasses[si]
		for level, feats := range sub.Features {
			if level < c.SubclassLevel {
				batch.Addf(errors.CodeValidation,
					"subclass %q grants features at level %d, before subclass_level %d",
					sub.Key, level, c.SubclassLevel)
			} else if level > MaxLevel {
				batch.Addf(errors.CodeValidation,
					"subclass %q grants features at invalid level %d", sub.Key, level)
			}
			for i := range feats {
				validateFeature(&feats[i], batch)
			}
		}
	}

	return batch
}

// ValidateRace checks a race document's traits
func ValidateRace(r *Race) *errors.ValidationBatch {
	batch := errors.NewValidationBatch("race " + r.Key)

	if r.Key == "" {
		batch.Addf(errors.CodeValidation, "race is missing a key")
	}

	for i := range r.Traits {
		validateTrait(&r.Traits[i], batch)
	}
	for si := range r.Subraces {
		for i := range r.Subraces[si].Traits {
			validateTrait(&r.Subraces[si].Traits[i], batch)
		}
	}

	return batch
}

// ValidateBackground checks a background document
func ValidateBackground(b *Background) *errors.ValidationBatch {
	batch := errors.NewValidationBatch("background " + b.Key)

	if b.Key == "" {
		batch.Addf(errors.CodeValidation, "background is missing a key")
	}
	if b.Feature != nil && b.Feature.Mechanics != nil {
		feat := b.Feature
		if !validateMechanics(feat.Name, feat.Mechanics, batch) {
			feat.Inactive = true
		}
	}

	return batch
}

func validateFeature(f *Feature, batch *errors.ValidationBatch) {
	if f.Name == "" {
		batch.Addf(errors.CodeValidation, "feature at level %d is missing a name", f.Level)
	}
	if f.Mechanics == nil {
		return
	}
	if !validateMechanics(f.Name, f.Mechanics, batch) {
		f.Inactive = true
	}
}

func validateTrait(t *Trait, batch *errors.ValidationBatch) {
	if t.Name == "" {
		batch.Addf(errors.CodeValidation, "trait is missing a name")
	}
	if t.Mechanics == nil {
		return
	}
	if !validateMechanics(t.Name, t.Mechanics, batch) {
		t.Mechanics = nil
	}
}

// validateMechanics checks one descriptor, appending every problem to the
// batch. Also normalizes prose option costs into typed (pool, amount)
// pairs. Returns false when the feature should be flagged inactive.
func validateMechanics(name string, m *MechanicsDescriptor, batch *errors.ValidationBatch) bool {
	ok := true

	if !m.Type.Recognized() {
		batch.Add(errors.UnsupportedMechanicf(
			"feature %q: unknown mechanics type %q", name, m.Type).
			WithMeta("feature", name))
		return false
	}

	for _, effect := range m.Effects {
		if !effect.Kind.Recognized() {
			batch.Add(errors.UnsupportedMechanicf(
				"feature %q: unknown effect kind %q", name, effect.Kind).
				WithMeta("feature", name))
			ok = false
		}
	}

	switch m.Type {
	case MechanicResource:
		if m.Resource == nil || m.Resource.Name == "" {
			batch.Addf(errors.CodeValidation, "feature %q: resource mechanic without a pool declaration", name)
			ok = false
		} else if m.Resource.Maximum.IsZero() {
			batch.Addf(errors.CodeValidation, "feature %q: pool %q has no maximum", name, m.Resource.Name)
			ok = false
		}
		for _, conv := range m.Conversions {
			if conv.FromPool == "" || conv.ToPool == "" || conv.FromAmount <= 0 || conv.ToAmount <= 0 {
				batch.Addf(errors.CodeValidation, "feature %q: malformed conversion %q", name, conv.Name)
				ok = false
			}
		}
	case MechanicPassiveEnhancement:
		if m.Enhances == "" {
			batch.Addf(errors.CodeValidation, "feature %q: passive_enhancement without a target", name)
			ok = false
		}
	case MechanicSpellcasting:
		if m.Ability == "" {
			batch.Addf(errors.CodeValidation, "feature %q: spellcasting without an ability", name)
			ok = false
		}
	case MechanicResourceImprovement:
		if m.Resource == nil || m.Resource.Name == "" {
			batch.Addf(errors.CodeValidation, "feature %q: resource_improvement without a target pool", name)
			ok = false
		}
	}

	// Normalize per-option prose costs; a cost that cannot be normalized
	// is an unsupported mechanic, never a guess
	for i := range m.Options {
		opt := &m.Options[i]
		if opt.Cost != nil || opt.CostText == "" {
			continue
		}
		cost := normalizeCostText(opt.CostText)
		if cost == nil {
			batch.Add(errors.UnsupportedMechanicf(
				"feature %q: option %q cost %q cannot be normalized", name, opt.Name, opt.CostText).
				WithMeta("feature", name))
			ok = false
			continue
		}
		opt.Cost = cost
	}

	return ok
}

// String implements fmt.Stringer for diagnostics
func (c CostSpec) String() string {
	return fmt.Sprintf("%d %s", c.Amount, c.Pool)
}
