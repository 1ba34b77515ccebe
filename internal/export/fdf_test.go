package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toonforge/toonforge/internal/character"
)

func TestSheetFields(t *testing.T) {
	state := &character.CharacterState{
		Name:             "Mira Vex",
		Race:             "Half-Elf",
		Background:       "Sage",
		Level:            2,
		ProficiencyBonus: 2,
		Classes: []character.ClassSummary{
			{Key: "sorcerer", Name: "Sorcerer", Level: 2},
		},
		Abilities: map[character.Ability]character.AbilityState{
			character.AbilityStrength: {Score: 8, Modifier: -1},
			character.AbilityCharisma: {Score: 16, Modifier: 3},
		},
		SavingThrows: map[character.Ability]character.SavingThrowState{
			character.AbilityStrength: {Bonus: -1},
			character.AbilityCharisma: {Bonus: 5, Proficient: true},
		},
		ArmorClass:       13,
		MaxHitPoints:     13,
		CurrentHitPoints: 13,
		Pools: map[string]character.PoolState{
			"spell_slots_1":  {Current: 2, Maximum: 3},
			"sorcery_points": {Current: 2, Maximum: 2},
		},
		Features: []character.FeatureState{
			{Name: "Font of Magic"},
			{Name: "Unarmored Defense", Inactive: true},
		},
	}

	fields := sheetFields(state)

	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}

	assert.Equal(t, "Mira Vex", byName["CharacterName"])
	assert.Equal(t, "Sorcerer 2", byName["ClassLevel"])
	assert.Equal(t, "Half-Elf", byName["Race "])
	assert.Equal(t, "+2", byName["ProfBonus"])
	assert.Equal(t, "8", byName["STR"])
	assert.Equal(t, "-1", byName["STRmod"])
	assert.Equal(t, "+3", byName["CHamod"])
	assert.Equal(t, "-1", byName["ST Strength"])
	assert.Equal(t, "+5", byName["ST Charisma"])
	_, hasWisSave := byName["ST Wisdom"]
	assert.False(t, hasWisSave, "abilities absent from the snapshot are left blank")
	assert.Equal(t, "13", byName["HPMax"])
	// Spell level 1 totals land in field 19 on the standard sheet.
	assert.Equal(t, "3", byName["SlotsTotal 19"])
	_, hasPoints := byName["SlotsTotal 20"]
	assert.False(t, hasPoints)
	assert.Equal(t, "Font of Magic", byName["Features and Traits"])
}

func TestRenderFDF(t *testing.T) {
	doc := renderFDF([]fdfField{
		{"CharacterName", "Mira Vex"},
		{"Background", "Sage (retired)"},
	})

	require.True(t, len(doc) > 0)
	assert.Contains(t, doc, "%FDF-1.2\n")
	assert.Contains(t, doc, "/T (CharacterName)\n/V (Mira Vex)\n")
	assert.Contains(t, doc, `/V (Sage \(retired\))`)
	assert.Contains(t, doc, "/Root 1 0 R")
	assert.Contains(t, doc, "%%EOF")
}

func TestEscapeFDF(t *testing.T) {
	assert.Equal(t, `a\(b\)c`, escapeFDF("a(b)c"))
	assert.Equal(t, `back\\slash`, escapeFDF(`back\slash`))
	assert.Equal(t, `line\nbreak`, escapeFDF("line\nbreak"))
}
