package rulebook_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

func validSorcererClass() *rulebook.ClassProgression {
	return &rulebook.ClassProgression{
		Key:    "sorcerer",
		Name:   "Sorcerer",
		HitDie: 6,
		Features: map[int][]rulebook.Feature{
			1: {
				{
					Name: "Spellcasting",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type:    rulebook.MechanicSpellcasting,
						Ability: "charisma",
						SpellSlots: map[int]rulebook.ScalingTable{
							1: {1: 2, 2: 3, 3: 4},
						},
					},
				},
			},
			2: {
				{
					Name: "Font of Magic",
					Mechanics: &rulebook.MechanicsDescriptor{
						Type: rulebook.MechanicResource,
						Resource: &rulebook.ResourceSpec{
							Name:     "sorcery_points",
							Maximum:  rulebook.FormulaAmount("sorcerer_level"),
							Recovery: rulebook.RestLong,
						},
					},
				},
			},
		},
		SubclassLevel: 1,
		Subclasses: []rulebook.Subclass{
			{
				Key:      "draconic",
				Name:     "Draconic Bloodline",
				Features: map[int][]rulebook.Feature{},
			},
		},
	}
}

func TestValidateClass_Valid(t *testing.T) {
	batch := rulebook.ValidateClass(validSorcererClass())
	assert.True(t, batch.Empty(), "unexpected errors: %v", batch.Err())
}

func TestValidateClass_UnknownMechanicFailsClosed(t *testing.T) {
	class := validSorcererClass()
	class.Features[3] = []rulebook.Feature{
		{
			Name:      "Mind Blast",
			Mechanics: &rulebook.MechanicsDescriptor{Type: "psionics"},
		},
	}

	batch := rulebook.ValidateClass(class)
	require.False(t, batch.Empty())
	assert.True(t, apperrors.IsUnsupportedMechanic(batch.Errors[0]))

	// The offending feature is flagged inactive, not dropped
	assert.True(t, class.Features[3][0].Inactive)
	// All other features remain usable
	assert.False(t, class.Features[1][0].Inactive)
}

func TestValidateClass_UnknownEffectKind(t *testing.T) {
	class := validSorcererClass()
	class.Features[3] = []rulebook.Feature{
		{
			Name: "Blink",
			Mechanics: &rulebook.MechanicsDescriptor{
				Type:    rulebook.MechanicPassive,
				Effects: []rulebook.EffectSpec{{Kind: "teleport"}},
			},
		},
	}

	batch := rulebook.ValidateClass(class)
	require.False(t, batch.Empty())
	assert.True(t, apperrors.IsUnsupportedMechanic(batch.Errors[0]))
	assert.True(t, class.Features[3][0].Inactive)
}

func TestValidateClass_CollectsEveryProblem(t *testing.T) {
	class := validSorcererClass()
	class.Features[3] = []rulebook.Feature{
		{Name: "A", Mechanics: &rulebook.MechanicsDescriptor{Type: "bogus"}},
		{Name: "B", Mechanics: &rulebook.MechanicsDescriptor{Type: "also_bogus"}},
	}

	batch := rulebook.ValidateClass(class)
	assert.Len(t, batch.Errors, 2)
}

func TestValidateClass_ResourceWithoutPool(t *testing.T) {
	class := validSorcererClass()
	class.Features[3] = []rulebook.Feature{
		{
			Name:      "Broken Pool",
			Mechanics: &rulebook.MechanicsDescriptor{Type: rulebook.MechanicResource},
		},
	}

	batch := rulebook.ValidateClass(class)
	require.False(t, batch.Empty())
	assert.True(t, class.Features[3][0].Inactive)
}

func TestValidateClass_EnhancementWithoutTarget(t *testing.T) {
	class := validSorcererClass()
	class.Features[6] = []rulebook.Feature{
		{
			Name:      "Empty Enhancement",
			Mechanics: &rulebook.MechanicsDescriptor{Type: rulebook.MechanicPassiveEnhancement},
		},
	}

	batch := rulebook.ValidateClass(class)
	assert.False(t, batch.Empty())
}

func TestValidateClass_SubclassFeatureLevels(t *testing.T) {
	class := validSorcererClass()
	class.SubclassLevel = 3
	class.Subclasses[0].Features = map[int][]rulebook.Feature{
		1:  {{Name: "Too Early"}},
		25: {{Name: "Too High"}},
	}

	batch := rulebook.ValidateClass(class)
	require.Len(t, batch.Errors, 2)

	messages := []string{batch.Errors[0].Error(), batch.Errors[1].Error()}
	assert.Contains(t, strings.Join(messages, "\n"), "before subclass_level 3")
	assert.Contains(t, strings.Join(messages, "\n"), "invalid level 25")
}

func TestValidateClass_CostNormalization(t *testing.T) {
	class := validSorcererClass()
	class.Features[3] = []rulebook.Feature{
		{
			Name: "Metamagic",
			Mechanics: &rulebook.MechanicsDescriptor{
				Type:        rulebook.MechanicChoice,
				Progression: rulebook.ScalingTable{3: 2, 10: 3, 17: 4},
				Options: []rulebook.ChoiceOption{
					{Name: "Quickened Spell", CostText: "2 sorcery points"},
					{Name: "Subtle Spell", CostText: "1 sorcery point"},
				},
			},
		},
	}

	batch := rulebook.ValidateClass(class)
	require.True(t, batch.Empty(), "unexpected errors: %v", batch.Err())

	options := class.Features[3][0].Mechanics.Options
	require.NotNil(t, options[0].Cost)
	assert.Equal(t, "sorcery_points", options[0].Cost.Pool)
	assert.Equal(t, 2, options[0].Cost.Amount)

	// Singular prose normalizes to the same pool name
	require.NotNil(t, options[1].Cost)
	assert.Equal(t, "sorcery_points", options[1].Cost.Pool)
	assert.Equal(t, 1, options[1].Cost.Amount)
}

func TestValidateClass_UnnormalizableCostFailsClosed(t *testing.T) {
	class := validSorcererClass()
	class.Features[3] = []rulebook.Feature{
		{
			Name: "Metamagic",
			Mechanics: &rulebook.MechanicsDescriptor{
				Type: rulebook.MechanicChoice,
				Options: []rulebook.ChoiceOption{
					{Name: "Weird Option", CostText: "a number of points equal to your level"},
				},
			},
		},
	}

	batch := rulebook.ValidateClass(class)
	require.False(t, batch.Empty())
	assert.True(t, apperrors.IsUnsupportedMechanic(batch.Errors[0]))
	assert.True(t, class.Features[3][0].Inactive)
}

func TestSubclassLookup(t *testing.T) {
	class := validSorcererClass()
	assert.NotNil(t, class.Subclass("draconic"))
	assert.Nil(t, class.Subclass("wild_magic"))
}
