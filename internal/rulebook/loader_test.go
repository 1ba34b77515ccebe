package rulebook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// The shipped corpus under data/ doubles as the loader's test corpus.
const shippedDataDir = "../../data"

func TestLoad_ShippedCorpus(t *testing.T) {
	lib, err := rulebook.Load(context.Background(), shippedDataDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"barbarian", "sorcerer"}, lib.ClassKeys())

	sorcerer, err := lib.Class("sorcerer")
	require.NoError(t, err)
	assert.Equal(t, "Sorcerer", sorcerer.Name)
	assert.Equal(t, 6, sorcerer.HitDie)
	require.NotNil(t, sorcerer.Subclass("draconic"))
	assert.Equal(t, "Draconic Bloodline", sorcerer.Subclass("draconic").Name)

	race, err := lib.Race("half-elf")
	require.NoError(t, err)
	assert.Equal(t, 2, race.AbilityBonuses["charisma"])
	assert.Equal(t, 30, race.Speed)

	bg, err := lib.Background("sage")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"arcana", "history"}, bg.SkillProficiencies)
}

func TestLoad_ScalingTablesDecodeFromStringKeys(t *testing.T) {
	lib, err := rulebook.Load(context.Background(), shippedDataDir)
	require.NoError(t, err)

	barbarian, err := lib.Class("barbarian")
	require.NoError(t, err)

	var rage *rulebook.Feature
	for i := range barbarian.Features[1] {
		if barbarian.Features[1][i].Name == "Rage" {
			rage = &barbarian.Features[1][i]
		}
	}
	require.NotNil(t, rage)
	require.NotNil(t, rage.Mechanics.Resource)

	maximum := rage.Mechanics.Resource.Maximum
	require.False(t, maximum.IsZero())
	got, ok := maximum.Scaling.ValueAt(12)
	require.True(t, ok)
	assert.Equal(t, 5, got)
}

func TestLoad_MetamagicCostsNormalized(t *testing.T) {
	lib, err := rulebook.Load(context.Background(), shippedDataDir)
	require.NoError(t, err)

	sorcerer, err := lib.Class("sorcerer")
	require.NoError(t, err)

	var metamagic *rulebook.Feature
	for i := range sorcerer.Features[3] {
		if sorcerer.Features[3][i].Name == "Metamagic" {
			metamagic = &sorcerer.Features[3][i]
		}
	}
	require.NotNil(t, metamagic)
	require.NotEmpty(t, metamagic.Mechanics.Options)

	for _, opt := range metamagic.Mechanics.Options {
		require.NotNil(t, opt.Cost, "option %s should have a normalized cost", opt.Name)
		assert.Equal(t, "sorcery_points", opt.Cost.Pool)
		assert.Greater(t, opt.Cost.Amount, 0)
	}
}

func TestLoad_MissingDirIsEmptyLibrary(t *testing.T) {
	lib, err := rulebook.Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, lib.ClassKeys())

	_, err = lib.Class("sorcerer")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLoad_UnknownMechanicFlagsFeatureInactive(t *testing.T) {
	doc := []byte(`{
		"key": "mystic",
		"name": "Mystic",
		"hit_die": 8,
		"features": {
			"1": [
				{"name": "Psionics", "mechanics": {"type": "psionic_discipline"}}
			]
		}
	}`)

	class, err := rulebook.DecodeClass(doc)
	require.Error(t, err)
	require.NotNil(t, class)
	require.Len(t, class.Features[1], 1)
	assert.True(t, class.Features[1][0].Inactive)
}
