package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/resolver"
	"github.com/toonforge/toonforge/internal/rulebook"
	"github.com/toonforge/toonforge/internal/testutils"
)

func featureNames(result *resolver.Result) []string {
	names := make([]string, 0, len(result.Features))
	for _, f := range result.Features {
		names = append(names, f.Name)
	}
	return names
}

func TestResolve_SubclassAccumulation(t *testing.T) {
	class := testutils.SorcererClass()

	// Level 1 draconic sorcerer has Draconic Resilience active
	result, err := resolver.Resolve(class, 1, "draconic")
	require.NoError(t, err)
	assert.Equal(t, []string{"Spellcasting", "Draconic Resilience"}, featureNames(result))

	// At level 6 Elemental Affinity joins; Draconic Resilience remains
	result, err = resolver.Resolve(class, 6, "draconic")
	require.NoError(t, err)
	names := featureNames(result)
	assert.Contains(t, names, "Draconic Resilience")
	assert.Contains(t, names, "Elemental Affinity")
}

func TestResolve_ClassPrecedesSubclassWithinLevel(t *testing.T) {
	class := testutils.SorcererClass()

	result, err := resolver.Resolve(class, 1, "draconic")
	require.NoError(t, err)

	// Spellcasting (class, level 1) comes before Draconic Resilience (subclass, level 1)
	assert.Equal(t, "Spellcasting", result.Features[0].Name)
	assert.Equal(t, rulebook.SourceClass, result.Features[0].SourceType)
	assert.Equal(t, "Draconic Resilience", result.Features[1].Name)
	assert.Equal(t, rulebook.SourceSubclass, result.Features[1].SourceType)
}

func TestResolve_MonotonicAccumulation(t *testing.T) {
	class := testutils.SorcererClass()

	previous, err := resolver.Resolve(class, 1, "draconic")
	require.NoError(t, err)

	for level := 2; level <= 20; level++ {
		current, err := resolver.Resolve(class, level, "draconic")
		require.NoError(t, err)

		prevNames := featureNames(previous)
		currNames := featureNames(current)
		require.GreaterOrEqual(t, len(currNames), len(prevNames))
		assert.Equal(t, prevNames, currNames[:len(prevNames)],
			"level %d must include everything from level %d in order", level, level-1)

		previous = current
	}
}

func TestResolve_Idempotent(t *testing.T) {
	class := testutils.BarbarianClass()

	first, err := resolver.Resolve(class, 15, "")
	require.NoError(t, err)
	second, err := resolver.Resolve(class, 15, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_ChoiceProgressionReplacesNotAdds(t *testing.T) {
	class := testutils.SorcererClass()

	result, err := resolver.Resolve(class, 3, "")
	require.NoError(t, err)
	metamagic := result.Find("Metamagic")
	require.NotNil(t, metamagic)
	assert.Equal(t, 2, metamagic.OptionsKnown)

	// progression.10 = 3 means 3 total known, not 2+3
	result, err = resolver.Resolve(class, 10, "")
	require.NoError(t, err)
	metamagic = result.Find("Metamagic")
	require.NotNil(t, metamagic)
	assert.Equal(t, 3, metamagic.OptionsKnown)
}

func TestResolve_PassiveEnhancementMergesIntoTarget(t *testing.T) {
	class := testutils.BarbarianClass()

	result, err := resolver.Resolve(class, 15, "")
	require.NoError(t, err)
	require.Empty(t, result.Problems)

	rage := result.Find("Rage")
	require.NotNil(t, rage)
	assert.Equal(t, []string{"Persistent Rage"}, rage.EnhancedBy)
	// Rage's own 4 effects plus the merged persistence effect
	assert.Len(t, rage.Effects, 5)

	// The shared descriptor is never mutated: resolving again at a lower
	// level shows the base effects only
	result, err = resolver.Resolve(class, 14, "")
	require.NoError(t, err)
	rage = result.Find("Rage")
	require.NotNil(t, rage)
	assert.Empty(t, rage.EnhancedBy)
	assert.Len(t, rage.Effects, 4)
	assert.Len(t, class.Features[1][0].Mechanics.Effects, 4)
}

func TestResolve_DanglingEnhancementReportedNotFatal(t *testing.T) {
	class := testutils.BarbarianClass()
	class.Features[15] = []rulebook.Feature{
		{
			Name: "Persistent Rage",
			Mechanics: &rulebook.MechanicsDescriptor{
				Type:     rulebook.MechanicPassiveEnhancement,
				Enhances: "Rge", // typo in the data
			},
		},
	}

	result, err := resolver.Resolve(class, 15, "")
	require.NoError(t, err)

	require.Len(t, result.Problems, 1)
	assert.True(t, apperrors.IsDanglingEnhancement(result.Problems[0]))

	// The base feature stands as granted; the rest resolved fine
	rage := result.Find("Rage")
	require.NotNil(t, rage)
	assert.Empty(t, rage.EnhancedBy)
	assert.Contains(t, featureNames(result), "Fast Movement")

	// The enhancement itself is present but inert
	enhancement := result.Find("Persistent Rage")
	require.NotNil(t, enhancement)
	assert.True(t, enhancement.Inactive)
}

func TestResolve_InactiveFeatureContributesNothing(t *testing.T) {
	class := testutils.BarbarianClass()
	class.Features[2] = []rulebook.Feature{
		{
			Name:     "Future Mechanic",
			Inactive: true,
			Mechanics: &rulebook.MechanicsDescriptor{
				Type:    rulebook.MechanicPassive,
				Effects: []rulebook.EffectSpec{{Kind: rulebook.EffectACBonus, Value: rulebook.LiteralAmount(5)}},
			},
		},
	}

	result, err := resolver.Resolve(class, 2, "")
	require.NoError(t, err)

	feat := result.Find("Future Mechanic")
	require.NotNil(t, feat)
	assert.True(t, feat.Inactive)
	assert.Empty(t, feat.Effects)
}

func TestResolve_Errors(t *testing.T) {
	class := testutils.SorcererClass()

	_, err := resolver.Resolve(nil, 1, "")
	assert.Error(t, err)

	_, err = resolver.Resolve(class, 0, "")
	assert.Error(t, err)

	_, err = resolver.Resolve(class, 21, "")
	assert.Error(t, err)

	_, err = resolver.Resolve(class, 1, "wild_magic")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestResolveTraits(t *testing.T) {
	race := testutils.HalfElfRace()

	result := resolver.ResolveTraits(race, "")
	names := featureNames(result)
	assert.Equal(t, []string{"Fey Ancestry", "Skill Versatility"}, names)

	fey := result.Find("Fey Ancestry")
	require.NotNil(t, fey)
	assert.Equal(t, rulebook.SourceRace, fey.SourceType)
	assert.Len(t, fey.Effects, 1)
}
