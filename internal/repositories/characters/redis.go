package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/toonforge/toonforge/internal/character"
	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// redisRepo implements Repository on Redis: one JSON blob per character
// plus a set per owner indexing their character IDs
type redisRepo struct {
	client  redis.UniversalClient
	library *rulebook.Library
}

// RedisRepoConfig configures a Redis-backed character repository
type RedisRepoConfig struct {
	Client  redis.UniversalClient
	Library *rulebook.Library
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.Library == nil {
		panic("rulebook library cannot be nil")
	}
	return &redisRepo{
		client:  cfg.Client,
		library: cfg.Library,
	}
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// ownerCharactersKey generates the Redis key for an owner's character set
func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if char == nil {
		return apperrors.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return apperrors.InvalidArgument("character ID is required")
	}
	if char.OwnerID == "" {
		return apperrors.InvalidArgument("character owner ID is required")
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return apperrors.InvalidArgumentf("character with ID %q already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	data := toCharacterData(char)
	data.CreatedAt = time.Now().UTC()
	data.UpdatedAt = data.CreatedAt

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(jsonData), 0)
	pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFoundf("character %q not found", id).
				WithMeta("character_id", id)
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data CharacterData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	return fromCharacterData(&data, r.library)
}

// GetByOwner retrieves all characters for a specific owner. Member
// characters are fetched concurrently.
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerCharactersKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters for owner %s: %w", ownerID, err)
	}

	chars := make([]*character.Character, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			char, err := r.Get(gctx, id)
			if err != nil {
				return err
			}
			chars[i] = char
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chars, nil
}

// Update updates an existing character
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if char == nil {
		return apperrors.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return apperrors.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(char.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return apperrors.NotFoundf("character %q not found", char.ID).
				WithMeta("character_id", char.ID)
		}
		return fmt.Errorf("failed to get character for update: %w", err)
	}

	var existing CharacterData
	if err := json.Unmarshal([]byte(jsonData), &existing); err != nil {
		return fmt.Errorf("failed to unmarshal existing character: %w", err)
	}

	data := toCharacterData(char)
	data.CreatedAt = existing.CreatedAt
	data.UpdatedAt = time.Now().UTC()

	updated, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(updated), 0)
	pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return nil
}

// Delete removes a character and its owner index entry
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return apperrors.NotFoundf("character %q not found", id).
				WithMeta("character_id", id)
		}
		return fmt.Errorf("failed to get character for delete: %w", err)
	}

	var data CharacterData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return fmt.Errorf("failed to unmarshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.ownerCharactersKey(data.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}
