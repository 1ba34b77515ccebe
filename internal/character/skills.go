package character

import "strings"

// skillAbilities maps each standard skill onto the ability its checks
// roll with.
var skillAbilities = map[string]Ability{
	"athletics": AbilityStrength,

	"acrobatics":      AbilityDexterity,
	"sleight_of_hand": AbilityDexterity,
	"stealth":         AbilityDexterity,

	"arcana":        AbilityIntelligence,
	"history":       AbilityIntelligence,
	"investigation": AbilityIntelligence,
	"nature":        AbilityIntelligence,
	"religion":      AbilityIntelligence,

	"animal_handling": AbilityWisdom,
	"insight":         AbilityWisdom,
	"medicine":        AbilityWisdom,
	"perception":      AbilityWisdom,
	"survival":        AbilityWisdom,

	"deception":    AbilityCharisma,
	"intimidation": AbilityCharisma,
	"performance":  AbilityCharisma,
	"persuasion":   AbilityCharisma,
}

// SkillAbility returns the ability a skill's checks use. Names are
// matched case-insensitively with spaces treated as underscores; the
// second return is false for names outside the standard skill list.
func SkillAbility(skill string) (Ability, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(skill)), " ", "_")
	ability, ok := skillAbilities[key]
	return ability, ok
}
