package characters

import (
	"time"

	"github.com/toonforge/toonforge/internal/character"
	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// CharacterData is the serialized form of a character. Rulebook documents
// are stored by key and rehydrated against the loaded library, so a data
// fix to a class document reaches existing characters on their next load.
// Pool maximums are re-derived; only currents are stored.
type CharacterData struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`

	RaceKey       string `json:"race_key,omitempty"`
	SubraceKey    string `json:"subrace_key,omitempty"`
	BackgroundKey string `json:"background_key,omitempty"`

	Classes []ClassLevelData `json:"classes"`

	Attributes map[character.Ability]int `json:"attributes"`

	Speed            int `json:"speed"`
	MaxHitPoints     int `json:"max_hit_points"`
	CurrentHitPoints int `json:"current_hit_points"`

	SavingThrowProficiencies []string `json:"saving_throw_proficiencies,omitempty"`
	ArmorProficiencies       []string `json:"armor_proficiencies,omitempty"`
	WeaponProficiencies      []string `json:"weapon_proficiencies,omitempty"`
	SkillProficiencies       []string `json:"skill_proficiencies,omitempty"`
	ToolProficiencies        []string `json:"tool_proficiencies,omitempty"`
	Languages                []string `json:"languages,omitempty"`

	Conditions map[string]bool `json:"conditions,omitempty"`

	Pools []PoolData `json:"pools,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassLevelData is one serialized multiclass entry
type ClassLevelData struct {
	ClassKey    string `json:"class_key"`
	SubclassKey string `json:"subclass_key,omitempty"`
	Level       int    `json:"level"`
}

// PoolData is a resource pool's persisted runtime state
type PoolData struct {
	Name    string `json:"name"`
	Current int    `json:"current"`
}

// toCharacterData converts a character to its serialized form
func toCharacterData(char *character.Character) *CharacterData {
	data := &CharacterData{
		ID:                       char.ID,
		OwnerID:                  char.OwnerID,
		Name:                     char.Name,
		SubraceKey:               char.SubraceKey,
		Speed:                    char.Speed,
		MaxHitPoints:             char.MaxHitPoints,
		CurrentHitPoints:         char.CurrentHitPoints,
		SavingThrowProficiencies: copyStrings(char.SavingThrowProficiencies),
		ArmorProficiencies:       copyStrings(char.ArmorProficiencies),
		WeaponProficiencies:      copyStrings(char.WeaponProficiencies),
		SkillProficiencies:       copyStrings(char.SkillProficiencies),
		ToolProficiencies:        copyStrings(char.ToolProficiencies),
		Languages:                copyStrings(char.Languages),
		Conditions:               copyFlags(char.Conditions),
		Attributes:               make(map[character.Ability]int, len(char.Attributes)),
	}
	if char.Race != nil {
		data.RaceKey = char.Race.Key
	}
	if char.Background != nil {
		data.BackgroundKey = char.Background.Key
	}
	for ability, score := range char.Attributes {
		data.Attributes[ability] = score.Score
	}
	for _, cl := range char.Classes {
		entry := ClassLevelData{SubclassKey: cl.SubclassKey, Level: cl.Level}
		if cl.Progression != nil {
			entry.ClassKey = cl.Progression.Key
		}
		data.Classes = append(data.Classes, entry)
	}
	for _, pool := range char.Ledger.Pools() {
		data.Pools = append(data.Pools, PoolData{Name: pool.Name, Current: pool.Current})
	}
	return data
}

// fromCharacterData rehydrates a character against the rulebook library.
// Race and ability bonuses were applied at creation and are already baked
// into the stored scores, so no grants re-run here.
func fromCharacterData(data *CharacterData, library *rulebook.Library) (*character.Character, error) {
	char := character.New(data.ID, data.OwnerID, data.Name)
	char.SubraceKey = data.SubraceKey
	char.Speed = data.Speed
	char.MaxHitPoints = data.MaxHitPoints
	char.CurrentHitPoints = data.CurrentHitPoints
	char.SavingThrowProficiencies = copyStrings(data.SavingThrowProficiencies)
	char.ArmorProficiencies = copyStrings(data.ArmorProficiencies)
	char.WeaponProficiencies = copyStrings(data.WeaponProficiencies)
	char.SkillProficiencies = copyStrings(data.SkillProficiencies)
	char.ToolProficiencies = copyStrings(data.ToolProficiencies)
	char.Languages = copyStrings(data.Languages)
	if data.Conditions != nil {
		char.Conditions = copyFlags(data.Conditions)
	}

	for ability, score := range data.Attributes {
		char.Attributes[ability] = &character.AbilityScore{Score: score}
	}

	if data.RaceKey != "" {
		race, err := library.Race(data.RaceKey)
		if err != nil {
			return nil, errors.Wrapf(err, "character %s references race %q", data.ID, data.RaceKey)
		}
		char.Race = race
	}
	if data.BackgroundKey != "" {
		bg, err := library.Background(data.BackgroundKey)
		if err != nil {
			return nil, errors.Wrapf(err, "character %s references background %q", data.ID, data.BackgroundKey)
		}
		char.Background = bg
	}
	for _, entry := range data.Classes {
		class, err := library.Class(entry.ClassKey)
		if err != nil {
			return nil, errors.Wrapf(err, "character %s references class %q", data.ID, entry.ClassKey)
		}
		char.Classes = append(char.Classes, character.ClassLevel{
			Progression: class,
			SubclassKey: entry.SubclassKey,
			Level:       entry.Level,
		})
	}

	// Rebuild pools at their derived maximums, then lay the persisted
	// currents back on top
	if err := char.Recalculate(); err != nil {
		return nil, errors.Wrapf(err, "rebuilding pools for character %s", data.ID)
	}
	for _, pool := range data.Pools {
		char.Ledger.SetCurrent(pool.Name, pool.Current)
	}

	return char, nil
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func copyFlags(src map[string]bool) map[string]bool {
	if src == nil {
		return nil
	}
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
