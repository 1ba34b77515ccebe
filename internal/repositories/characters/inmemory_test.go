package characters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toonforge/toonforge/internal/character"
	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/testutils"
)

func newInMemoryCharacter(t *testing.T, id string) *character.Character {
	t.Helper()
	char := character.New(id, "owner-1", "Zalia")
	char.Attributes[character.AbilityDexterity] = &character.AbilityScore{Score: 14}
	char.Attributes[character.AbilityConstitution] = &character.AbilityScore{Score: 14}
	char.Attributes[character.AbilityCharisma] = &character.AbilityScore{Score: 16}
	require.NoError(t, char.SetRace(testutils.HalfElfRace(), ""))
	require.NoError(t, char.AddClass(testutils.SorcererClass(), "draconic"))
	return char
}

func TestInMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(testutils.Library())
	char := newInMemoryCharacter(t, "char-1")

	require.NoError(t, repo.Create(ctx, char))

	err := repo.Create(ctx, char)
	assert.Error(t, err, "duplicate IDs are rejected")

	loaded, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Zalia", loaded.Name)
	require.Len(t, loaded.Classes, 1)
	assert.Equal(t, "sorcerer", loaded.Classes[0].Progression.Key)
	assert.Equal(t, char.SavingThrowProficiencies, loaded.SavingThrowProficiencies)
	assert.Equal(t, char.WeaponProficiencies, loaded.WeaponProficiencies)
	assert.Equal(t, char.SkillProficiencies, loaded.SkillProficiencies)

	loaded.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, loaded))
	reloaded, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)

	require.NoError(t, repo.Delete(ctx, "char-1"))
	_, err = repo.Get(ctx, "char-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInMemory_GetByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(testutils.Library())

	require.NoError(t, repo.Create(ctx, newInMemoryCharacter(t, "char-1")))

	other := newInMemoryCharacter(t, "char-2")
	other.OwnerID = "owner-2"
	require.NoError(t, repo.Create(ctx, other))

	chars, err := repo.GetByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, "char-1", chars[0].ID)
}

func TestInMemory_PoolCurrentsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(testutils.Library())
	char := newInMemoryCharacter(t, "char-1")

	require.NoError(t, char.SpendResource("spell_slots_1", 1))
	require.NoError(t, repo.Create(ctx, char))

	loaded, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)

	pool, err := loaded.Ledger.Pool("spell_slots_1")
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Current)
	assert.Equal(t, 2, pool.Maximum)
}

func TestInMemory_StoreIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(testutils.Library())
	char := newInMemoryCharacter(t, "char-1")
	require.NoError(t, repo.Create(ctx, char))

	// Mutating the live character must not reach the store without Update
	char.SetCondition("raging", true)
	require.NoError(t, char.SpendResource("spell_slots_1", 2))

	loaded, err := repo.Get(ctx, "char-1")
	require.NoError(t, err)
	assert.False(t, loaded.Conditions["raging"])

	pool, err := loaded.Ledger.Pool("spell_slots_1")
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Current)
}

func TestInMemory_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(testutils.Library())

	err := repo.Update(ctx, newInMemoryCharacter(t, "ghost"))
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.Delete(ctx, "ghost")
	assert.True(t, apperrors.IsNotFound(err))
}
