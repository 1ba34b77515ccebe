package characters

import (
	"context"
	"sync"
	"time"

	"github.com/toonforge/toonforge/internal/character"
	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// inMemoryRepo implements Repository in process memory, for tests and for
// running the CLI without Redis. Characters are stored in serialized form
// so callers never share mutable state with the store.
type inMemoryRepo struct {
	mu      sync.RWMutex
	data    map[string]*CharacterData
	library *rulebook.Library
}

// NewInMemoryRepository creates an in-memory character repository
func NewInMemoryRepository(library *rulebook.Library) Repository {
	if library == nil {
		panic("rulebook library cannot be nil")
	}
	return &inMemoryRepo{
		data:    make(map[string]*CharacterData),
		library: library,
	}
}

func (r *inMemoryRepo) Create(_ context.Context, char *character.Character) error {
	if char == nil {
		return apperrors.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return apperrors.InvalidArgument("character ID is required")
	}
	if char.OwnerID == "" {
		return apperrors.InvalidArgument("character owner ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[char.ID]; exists {
		return apperrors.InvalidArgumentf("character with ID %q already exists", char.ID)
	}

	data := toCharacterData(char)
	data.CreatedAt = time.Now().UTC()
	data.UpdatedAt = data.CreatedAt
	r.data[char.ID] = data
	return nil
}

func (r *inMemoryRepo) Get(_ context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	data, ok := r.data[id]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFoundf("character %q not found", id)
	}
	return fromCharacterData(data, r.library)
}

func (r *inMemoryRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidArgument("owner ID is required")
	}

	r.mu.RLock()
	var matches []*CharacterData
	for _, data := range r.data {
		if data.OwnerID == ownerID {
			matches = append(matches, data)
		}
	}
	r.mu.RUnlock()

	chars := make([]*character.Character, 0, len(matches))
	for _, data := range matches {
		char, err := fromCharacterData(data, r.library)
		if err != nil {
			return nil, err
		}
		chars = append(chars, char)
	}
	return chars, nil
}

func (r *inMemoryRepo) Update(_ context.Context, char *character.Character) error {
	if char == nil {
		return apperrors.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return apperrors.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[char.ID]
	if !ok {
		return apperrors.NotFoundf("character %q not found", char.ID)
	}

	data := toCharacterData(char)
	data.CreatedAt = existing.CreatedAt
	data.UpdatedAt = time.Now().UTC()
	r.data[char.ID] = data
	return nil
}

func (r *inMemoryRepo) Delete(_ context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return apperrors.NotFoundf("character %q not found", id)
	}
	delete(r.data, id)
	return nil
}
