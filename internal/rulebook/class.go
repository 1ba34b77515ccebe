package rulebook

// FeatureSource identifies where a feature was granted from
type FeatureSource string

const (
	SourceClass      FeatureSource = "class"
	SourceSubclass   FeatureSource = "subclass"
	SourceRace       FeatureSource = "race"
	SourceBackground FeatureSource = "background"
)

// Feature is a named capability granted at a specific level. Features at
// the same level form an ordered sequence; order matters only to display
// and to passive_enhancement lookups against earlier entries.
type Feature struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Level       int                  `json:"level,omitempty"`
	Source      string               `json:"source,omitempty"`
	SourceType  FeatureSource        `json:"source_type,omitempty"`
	Mechanics   *MechanicsDescriptor `json:"mechanics,omitempty"`

	// Inactive is set by validation when the feature's mechanics are not
	// in the recognized vocabulary; the feature is kept for display but
	// contributes nothing to derived state
	Inactive bool `json:"inactive,omitempty"`
}

// ClassProgression is the full leveled progression of one class. Loaded
// once from data and shared read-only across characters.
type ClassProgression struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	HitDie         int    `json:"hit_die"`
	PrimaryAbility string `json:"primary_ability"`

	SavingThrowProficiencies []string `json:"saving_throw_proficiencies,omitempty"`
	ArmorProficiencies       []string `json:"armor_proficiencies,omitempty"`
	WeaponProficiencies      []string `json:"weapon_proficiencies,omitempty"`
	SkillProficiencies       []string `json:"skill_proficiencies,omitempty"`

	Features map[int][]Feature `json:"features"`

	SubclassLevel int        `json:"subclass_level,omitempty"`
	Subclasses    []Subclass `json:"subclasses,omitempty"`
}

// Subclass is a branch of one class's progression, chosen at SubclassLevel
type Subclass struct {
	Key      string            `json:"key"`
	Name     string            `json:"name"`
	Features map[int][]Feature `json:"features"`
}

// Subclass returns the subclass with the given key, or nil
func (c *ClassProgression) Subclass(key string) *Subclass {
	for i := range c.Subclasses {
		if c.Subclasses[i].Key == key {
			return &c.Subclasses[i]
		}
	}
	return nil
}

// MaxLevel is the level cap a progression is defined up to
const MaxLevel = 20
