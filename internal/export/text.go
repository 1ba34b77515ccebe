package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toonforge/toonforge/internal/character"
)

// Text renders a plain-text character sheet.
func Text(state *character.CharacterState) string {
	var sheet []string

	sheet = append(sheet, fmt.Sprintf("=== %s ===", state.Name))
	if state.Race != "" {
		race := state.Race
		if state.Subrace != "" {
			race += " (" + state.Subrace + ")"
		}
		sheet = append(sheet, "Race: "+race)
	}
	if state.Background != "" {
		sheet = append(sheet, "Background: "+state.Background)
	}
	sheet = append(sheet, fmt.Sprintf("Level: %d", state.Level))
	sheet = append(sheet, "Classes: "+classLevels(state))
	sheet = append(sheet, fmt.Sprintf("Proficiency Bonus: +%d", state.ProficiencyBonus))

	sheet = append(sheet, "", "Ability Scores:")
	for _, ability := range character.Abilities {
		a, ok := state.Abilities[ability]
		if !ok {
			continue
		}
		sheet = append(sheet, fmt.Sprintf("  %s: %d (%+d)", title(string(ability)), a.Score, a.Modifier))
	}

	if len(state.SavingThrows) > 0 {
		sheet = append(sheet, "", "Saving Throws:")
		for _, ability := range character.Abilities {
			save, ok := state.SavingThrows[ability]
			if !ok {
				continue
			}
			line := fmt.Sprintf("  %s: %+d", title(string(ability)), save.Bonus)
			if save.Proficient {
				line += " (proficient)"
			}
			sheet = append(sheet, line)
		}
	}

	sheet = append(sheet, "", "Combat:")
	sheet = append(sheet, fmt.Sprintf("  Armor Class: %d", state.ArmorClass))
	sheet = append(sheet, fmt.Sprintf("  Hit Points: %d/%d", state.CurrentHitPoints, state.MaxHitPoints))
	sheet = append(sheet, fmt.Sprintf("  Speed: %d ft", state.Speed))
	sheet = append(sheet, fmt.Sprintf("  Initiative: %+d", state.InitiativeBonus))
	if len(state.Resistances) > 0 {
		sheet = append(sheet, "  Resistances: "+strings.Join(state.Resistances, ", "))
	}

	if len(state.Pools) > 0 {
		sheet = append(sheet, "", "Resources:")
		names := make([]string, 0, len(state.Pools))
		for name := range state.Pools {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pool := state.Pools[name]
			sheet = append(sheet, fmt.Sprintf("  %s: %d/%d", name, pool.Current, pool.Maximum))
		}
	}

	if len(state.Features) > 0 {
		sheet = append(sheet, "", "Features:")
		for _, feat := range state.Features {
			line := "  " + feat.Name
			if feat.Source != "" {
				line += " (" + feat.Source + ")"
			}
			if feat.OptionsKnown > 0 {
				line += fmt.Sprintf(" [%d options known]", feat.OptionsKnown)
			}
			if feat.Inactive {
				line += " [inactive]"
			}
			sheet = append(sheet, line)
		}
	}

	if len(state.SkillProficiencies) > 0 {
		parts := make([]string, 0, len(state.SkillProficiencies))
		for _, skill := range state.SkillProficiencies {
			if s, ok := state.Skills[skill]; ok {
				parts = append(parts, fmt.Sprintf("%s %+d", skill, s.Bonus))
				continue
			}
			parts = append(parts, skill)
		}
		sheet = append(sheet, "", "Skills: "+strings.Join(parts, ", "))
	}
	if len(state.Languages) > 0 {
		sheet = append(sheet, "Languages: "+strings.Join(state.Languages, ", "))
	}

	if len(state.Problems) > 0 {
		sheet = append(sheet, "", "Problems:")
		for _, p := range state.Problems {
			sheet = append(sheet, "  "+p)
		}
	}

	return strings.Join(sheet, "\n")
}

// classLevels formats the multiclass list the way it reads on a sheet,
// e.g. "Sorcerer 2, Barbarian 1".
func classLevels(state *character.CharacterState) string {
	parts := make([]string, 0, len(state.Classes))
	for _, class := range state.Classes {
		name := class.Name
		if class.Subclass != "" {
			name += " (" + class.Subclass + ")"
		}
		parts = append(parts, fmt.Sprintf("%s %d", name, class.Level))
	}
	return strings.Join(parts, ", ")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
