package rulebook

// Trait is a racial capability. Traits with mechanics participate in
// snapshot derivation just like class features; grant-only traits add
// proficiencies at creation time.
type Trait struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Grants      *TraitGrants         `json:"grants,omitempty"`
	Mechanics   *MechanicsDescriptor `json:"mechanics,omitempty"`
}

// TraitGrants lists proficiencies a trait hands out unconditionally
type TraitGrants struct {
	Skills    []string `json:"skill_proficiencies,omitempty"`
	Weapons   []string `json:"weapon_proficiencies,omitempty"`
	Armor     []string `json:"armor_proficiencies,omitempty"`
	Tools     []string `json:"tool_proficiencies,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// Subrace refines a race with extra ability bonuses and traits
type Subrace struct {
	Key            string         `json:"key"`
	Name           string         `json:"name"`
	AbilityBonuses map[string]int `json:"ability_scores,omitempty"`
	Traits         []Trait        `json:"traits,omitempty"`
}

// Race is a loaded race document
type Race struct {
	Key            string         `json:"key"`
	Name           string         `json:"name"`
	Speed          int            `json:"speed"`
	AbilityBonuses map[string]int `json:"ability_scores,omitempty"`
	Languages      []string       `json:"languages,omitempty"`
	Traits         []Trait        `json:"traits,omitempty"`
	Subraces       []Subrace      `json:"subraces,omitempty"`
}

// Subrace returns the subrace with the given key, or nil
func (r *Race) Subrace(key string) *Subrace {
	for i := range r.Subraces {
		if r.Subraces[i].Key == key {
			return &r.Subraces[i]
		}
	}
	return nil
}

// Background is a loaded background document
type Background struct {
	Key                string   `json:"key"`
	Name               string   `json:"name"`
	SkillProficiencies []string `json:"skill_proficiencies,omitempty"`
	ToolProficiencies  []string `json:"tool_proficiencies,omitempty"`
	Languages          []string `json:"languages,omitempty"`
	Feature            *Feature `json:"feature,omitempty"`
}
