// Package character orchestrates character lifecycle operations over the
// repository: creation, level-up, rests, resource spends, conversions, and
// snapshot derivation.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=mockcharsvc -source=service.go

import (
	"context"
	"strings"

	"github.com/toonforge/toonforge/internal/character"
	"github.com/toonforge/toonforge/internal/dice"
	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/repositories/characters"
	"github.com/toonforge/toonforge/internal/rulebook"
	"github.com/toonforge/toonforge/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Service defines the character service interface
type Service interface {
	// Create assembles and stores a new character
	Create(ctx context.Context, input *CreateInput) (*character.Character, error)

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// List retrieves all characters for an owner
	List(ctx context.Context, ownerID string) ([]*character.Character, error)

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// LevelUp adds one level in a class the character already has
	LevelUp(ctx context.Context, id, classKey string) (*character.CharacterState, error)

	// Rest applies a short or long rest
	Rest(ctx context.Context, id string, tier rulebook.RestTier) (*character.CharacterState, error)

	// SpendResource decrements a resource pool
	SpendResource(ctx context.Context, id, pool string, amount int) (*character.CharacterState, error)

	// Convert runs one declared resource conversion
	Convert(ctx context.Context, id, conversion string) (*character.CharacterState, error)

	// SetCondition flips an effect-gating flag such as "raging"
	SetCondition(ctx context.Context, id, condition string, active bool) (*character.CharacterState, error)

	// Snapshot derives the character's current state
	Snapshot(ctx context.Context, id string) (*character.CharacterState, error)
}

// CreateInput contains data for assembling a character
type CreateInput struct {
	OwnerID       string
	Name          string
	RaceKey       string
	SubraceKey    string
	ClassKey      string
	SubclassKey   string
	BackgroundKey string

	// AbilityScores are the base scores before racial bonuses. Empty means
	// roll 4d6-drop-lowest per ability.
	AbilityScores map[character.Ability]int
}

// service implements the Service interface
type service struct {
	repository    Repository
	library       *rulebook.Library
	roller        dice.Roller
	uuidGenerator uuid.Generator
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository        // Required
	Library       *rulebook.Library // Required
	Roller        dice.Roller       // Optional, will use default if nil
	UUIDGenerator uuid.Generator    // Optional, will use default if nil
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Library == nil {
		panic("rulebook library is required")
	}

	svc := &service{
		repository: cfg.Repository,
		library:    cfg.Library,
	}

	if cfg.Roller != nil {
		svc.roller = cfg.Roller
	} else {
		svc.roller = dice.NewRandomRoller()
	}
	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// Create assembles a new character: scores, race, background, first class
// level, then persists it
func (s *service) Create(ctx context.Context, input *CreateInput) (*character.Character, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, apperrors.InvalidArgument("owner ID is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidArgument("character name is required")
	}
	if strings.TrimSpace(input.ClassKey) == "" {
		return nil, apperrors.InvalidArgument("class is required")
	}

	class, err := s.library.Class(input.ClassKey)
	if err != nil {
		return nil, err
	}

	char := character.New(s.uuidGenerator.New(), input.OwnerID, input.Name)

	scores := input.AbilityScores
	if len(scores) == 0 {
		scores, err = s.rollAbilityScores()
		if err != nil {
			return nil, err
		}
	}
	for ability, score := range scores {
		char.Attributes[ability] = &character.AbilityScore{Score: score}
	}

	if input.RaceKey != "" {
		race, err := s.library.Race(input.RaceKey)
		if err != nil {
			return nil, err
		}
		if err := char.SetRace(race, input.SubraceKey); err != nil {
			return nil, err
		}
	}
	if input.BackgroundKey != "" {
		bg, err := s.library.Background(input.BackgroundKey)
		if err != nil {
			return nil, err
		}
		if err := char.SetBackground(bg); err != nil {
			return nil, err
		}
	}

	if err := char.AddClass(class, input.SubclassKey); err != nil {
		return nil, err
	}

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}

// rollAbilityScores rolls 4d6-drop-lowest for each ability
func (s *service) rollAbilityScores() (map[character.Ability]int, error) {
	scores := make(map[character.Ability]int, len(character.Abilities))
	for _, ability := range character.Abilities {
		roll, err := s.roller.Roll(4, 6, 0)
		if err != nil {
			return nil, apperrors.Wrap(err, "rolling ability scores")
		}
		scores[ability] = roll.DropLowest()
	}
	return scores, nil
}

func (s *service) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, apperrors.InvalidArgument("character ID is required")
	}
	return s.repository.Get(ctx, id)
}

func (s *service) List(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidArgument("owner ID is required")
	}
	return s.repository.GetByOwner(ctx, ownerID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidArgument("character ID is required")
	}
	return s.repository.Delete(ctx, id)
}

// LevelUp loads, levels, persists, and returns the fresh snapshot
func (s *service) LevelUp(ctx context.Context, id, classKey string) (*character.CharacterState, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.LevelUp(classKey, s.roller)
	})
}

func (s *service) Rest(ctx context.Context, id string, tier rulebook.RestTier) (*character.CharacterState, error) {
	if tier != rulebook.RestShort && tier != rulebook.RestLong {
		return nil, apperrors.InvalidArgumentf("unknown rest tier %q", tier)
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.Rest(tier)
	})
}

func (s *service) SpendResource(ctx context.Context, id, pool string, amount int) (*character.CharacterState, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidArgument("amount must be positive")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.SpendResource(pool, amount)
	})
}

func (s *service) Convert(ctx context.Context, id, conversion string) (*character.CharacterState, error) {
	return s.mutate(ctx, id, func(char *character.Character) error {
		return char.Convert(conversion)
	})
}

func (s *service) SetCondition(ctx context.Context, id, condition string, active bool) (*character.CharacterState, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, apperrors.InvalidArgument("condition name is required")
	}
	return s.mutate(ctx, id, func(char *character.Character) error {
		char.SetCondition(condition, active)
		return nil
	})
}

func (s *service) Snapshot(ctx context.Context, id string) (*character.CharacterState, error) {
	char, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return char.State()
}

// mutate loads a character, applies one operation, persists the result,
// and returns the fresh snapshot. A failed operation is not persisted.
func (s *service) mutate(ctx context.Context, id string, op func(*character.Character) error) (*character.CharacterState, error) {
	char, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(char); err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, char); err != nil {
		return nil, err
	}
	return char.State()
}
