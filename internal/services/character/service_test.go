package character_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/toonforge/toonforge/internal/character"
	mockdice "github.com/toonforge/toonforge/internal/dice/mock"
	apperrors "github.com/toonforge/toonforge/internal/errors"
	mockcharacters "github.com/toonforge/toonforge/internal/repositories/characters/mock"
	"github.com/toonforge/toonforge/internal/rulebook"
	charsvc "github.com/toonforge/toonforge/internal/services/character"
	"github.com/toonforge/toonforge/internal/testutils"
	"github.com/toonforge/toonforge/internal/uuid"
)

type serviceFixture struct {
	ctrl    *gomock.Controller
	repo    *mockcharacters.MockRepository
	roller  *mockdice.ManualMockRoller
	service charsvc.Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mockcharacters.NewMockRepository(ctrl)
	roller := mockdice.NewManualMockRoller()
	svc := charsvc.NewService(&charsvc.ServiceConfig{
		Repository:    repo,
		Library:       testutils.Library(),
		Roller:        roller,
		UUIDGenerator: &uuid.FixedGenerator{IDs: []string{"char-1"}},
	})
	return &serviceFixture{ctrl: ctrl, repo: repo, roller: roller, service: svc}
}

func standardScores() map[character.Ability]int {
	return map[character.Ability]int{
		character.AbilityStrength:     10,
		character.AbilityDexterity:    14,
		character.AbilityConstitution: 14,
		character.AbilityIntelligence: 10,
		character.AbilityWisdom:       10,
		character.AbilityCharisma:     16,
	}
}

func TestCreate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	char, err := f.service.Create(ctx, &charsvc.CreateInput{
		OwnerID:       "owner-1",
		Name:          "Zalia",
		RaceKey:       "half-elf",
		ClassKey:      "sorcerer",
		SubclassKey:   "draconic",
		BackgroundKey: "sage",
		AbilityScores: standardScores(),
	})
	require.NoError(t, err)

	assert.Equal(t, "char-1", char.ID)
	assert.Equal(t, "owner-1", char.OwnerID)
	assert.Equal(t, 18, char.Attributes[character.AbilityCharisma].Score, "racial bonus applied")
	assert.Equal(t, 8, char.MaxHitPoints, "d6 maximum plus con modifier")

	state, err := char.State()
	require.NoError(t, err)
	assert.Contains(t, state.Pools, "spell_slots_1")
	assert.Equal(t, "Sage", state.Background)
}

func TestCreate_RollsScoresWhenNoneGiven(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	// 4d6-drop-lowest per ability: each group of four totals 15 after the
	// 3 is dropped
	rolls := make([]int, 0, 24)
	for i := 0; i < 6; i++ {
		rolls = append(rolls, 6, 5, 4, 3)
	}
	f.roller.SetRolls(rolls)

	f.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	char, err := f.service.Create(ctx, &charsvc.CreateInput{
		OwnerID:  "owner-1",
		Name:     "Grog",
		ClassKey: "barbarian",
	})
	require.NoError(t, err)

	for _, ability := range character.Abilities {
		require.NotNil(t, char.Attributes[ability])
		assert.Equal(t, 15, char.Attributes[ability].Score, "ability %s", ability)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *charsvc.CreateInput
	}{
		{name: "nil input", input: nil},
		{name: "missing owner", input: &charsvc.CreateInput{Name: "Zalia", ClassKey: "sorcerer"}},
		{name: "missing name", input: &charsvc.CreateInput{OwnerID: "owner-1", ClassKey: "sorcerer"}},
		{name: "missing class", input: &charsvc.CreateInput{OwnerID: "owner-1", Name: "Zalia"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestCreate_UnknownClass(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Create(context.Background(), &charsvc.CreateInput{
		OwnerID:  "owner-1",
		Name:     "Zalia",
		ClassKey: "warlock",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

// storedSorcerer builds the character the repo mock hands back
func storedSorcerer(t *testing.T) *character.Character {
	t.Helper()
	char := character.New("char-1", "owner-1", "Zalia")
	for ability, score := range standardScores() {
		char.Attributes[ability] = &character.AbilityScore{Score: score}
	}
	require.NoError(t, char.SetRace(testutils.HalfElfRace(), ""))
	require.NoError(t, char.AddClass(testutils.SorcererClass(), "draconic"))
	require.NoError(t, char.LevelUp("sorcerer", nil))
	return char
}

func TestLevelUp(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)

	f.roller.SetRolls([]int{4})
	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)
	f.repo.EXPECT().Update(ctx, char).Return(nil)

	state, err := f.service.LevelUp(ctx, "char-1", "sorcerer")
	require.NoError(t, err)

	assert.Equal(t, 3, state.Level)
	assert.Equal(t, character.PoolState{Current: 2, Maximum: 3}, state.Pools["sorcery_points"])
}

func TestLevelUp_FailedOperationIsNotPersisted(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)

	_, err := f.service.LevelUp(ctx, "char-1", "wizard")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRest(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)
	require.NoError(t, char.SpendResource("sorcery_points", 2))

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)
	f.repo.EXPECT().Update(ctx, char).Return(nil)

	state, err := f.service.Rest(ctx, "char-1", rulebook.RestLong)
	require.NoError(t, err)
	assert.Equal(t, character.PoolState{Current: 2, Maximum: 2}, state.Pools["sorcery_points"])
}

func TestRest_UnknownTier(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Rest(context.Background(), "char-1", "nap")
	assert.Error(t, err)
}

func TestSpendResource(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)
	f.repo.EXPECT().Update(ctx, char).Return(nil)

	state, err := f.service.SpendResource(ctx, "char-1", "sorcery_points", 1)
	require.NoError(t, err)
	assert.Equal(t, character.PoolState{Current: 1, Maximum: 2}, state.Pools["sorcery_points"])
}

func TestSpendResource_InsufficientIsNotPersisted(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)

	_, err := f.service.SpendResource(ctx, "char-1", "sorcery_points", 5)
	assert.True(t, apperrors.IsInsufficientResource(err))
}

func TestConvert(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)
	require.NoError(t, char.SpendResource("spell_slots_1", 1))

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)
	f.repo.EXPECT().Update(ctx, char).Return(nil)

	state, err := f.service.Convert(ctx, "char-1", "create_slot_1")
	require.NoError(t, err)
	assert.Equal(t, character.PoolState{Current: 0, Maximum: 2}, state.Pools["sorcery_points"])
	assert.Equal(t, character.PoolState{Current: 3, Maximum: 3}, state.Pools["spell_slots_1"])
}

func TestSetCondition(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	char := character.New("char-1", "owner-1", "Grog")
	for ability, score := range standardScores() {
		char.Attributes[ability] = &character.AbilityScore{Score: score}
	}
	require.NoError(t, char.AddClass(testutils.BarbarianClass(), ""))

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)
	f.repo.EXPECT().Update(ctx, char).Return(nil)

	state, err := f.service.SetCondition(ctx, "char-1", "raging", true)
	require.NoError(t, err)
	assert.True(t, state.Conditions["raging"])
	assert.NotEmpty(t, state.Resistances)
}

func TestSnapshot(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	char := storedSorcerer(t)

	f.repo.EXPECT().Get(ctx, "char-1").Return(char, nil)

	state, err := f.service.Snapshot(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Zalia", state.Name)
	assert.Equal(t, 2, state.Level)
}

func TestSnapshot_NotFound(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.repo.EXPECT().Get(ctx, "missing").Return(nil, apperrors.NotFoundf("character %q not found", "missing"))

	_, err := f.service.Snapshot(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}
