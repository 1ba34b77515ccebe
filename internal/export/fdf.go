package export

import (
	"fmt"
	"strings"

	"github.com/toonforge/toonforge/internal/character"
)

// fdfField is one form field assignment in the generated FDF document.
// Order matters only for reproducible output.
type fdfField struct {
	Name  string
	Value string
}

// pdfAbilityFields maps abilities onto the form field names of the
// standard fillable 5E sheet.
var pdfAbilityFields = map[character.Ability][2]string{
	character.AbilityStrength:     {"STR", "STRmod"},
	character.AbilityDexterity:    {"DEX", "DEXmod"},
	character.AbilityConstitution: {"CON", "CONmod"},
	character.AbilityIntelligence: {"INT", "INTmod"},
	character.AbilityWisdom:       {"WIS", "WISmod"},
	character.AbilityCharisma:     {"CHA", "CHamod"},
}

// pdfSaveFields maps abilities onto the sheet's saving-throw fields.
var pdfSaveFields = map[character.Ability]string{
	character.AbilityStrength:     "ST Strength",
	character.AbilityDexterity:    "ST Dexterity",
	character.AbilityConstitution: "ST Constitution",
	character.AbilityIntelligence: "ST Intelligence",
	character.AbilityWisdom:       "ST Wisdom",
	character.AbilityCharisma:     "ST Charisma",
}

// sheetFields flattens a snapshot into the form field assignments the
// fillable sheet expects.
func sheetFields(state *character.CharacterState) []fdfField {
	race := state.Race
	if state.Subrace != "" {
		race += " " + state.Subrace
	}

	fields := []fdfField{
		{"CharacterName", state.Name},
		{"CharacterName 2", state.Name},
		{"ClassLevel", classLevels(state)},
		// The standard sheet's race field name carries a trailing space.
		{"Race ", race},
		{"Background", state.Background},
		{"ProfBonus", fmt.Sprintf("+%d", state.ProficiencyBonus)},
	}

	for _, ability := range character.Abilities {
		a, ok := state.Abilities[ability]
		if !ok {
			continue
		}
		names := pdfAbilityFields[ability]
		fields = append(fields,
			fdfField{names[0], fmt.Sprintf("%d", a.Score)},
			fdfField{names[1], fmt.Sprintf("%+d", a.Modifier)},
		)
	}

	for _, ability := range character.Abilities {
		save, ok := state.SavingThrows[ability]
		if !ok {
			continue
		}
		fields = append(fields, fdfField{pdfSaveFields[ability], fmt.Sprintf("%+d", save.Bonus)})
	}

	fields = append(fields,
		fdfField{"AC", fmt.Sprintf("%d", state.ArmorClass)},
		fdfField{"Initiative", fmt.Sprintf("%+d", state.InitiativeBonus)},
		fdfField{"Speed", fmt.Sprintf("%d", state.Speed)},
		fdfField{"HPMax", fmt.Sprintf("%d", state.MaxHitPoints)},
		fdfField{"HPCurrent", fmt.Sprintf("%d", state.CurrentHitPoints)},
	)

	// Spell slot totals live in fields SlotsTotal 19 through 27, one
	// per spell level.
	for level := 1; level <= 9; level++ {
		pool, ok := state.Pools[fmt.Sprintf("spell_slots_%d", level)]
		if !ok || pool.Maximum == 0 {
			continue
		}
		fields = append(fields, fdfField{
			Name:  fmt.Sprintf("SlotsTotal %d", 18+level),
			Value: fmt.Sprintf("%d", pool.Maximum),
		})
	}

	var featureNames []string
	for _, feat := range state.Features {
		if feat.Inactive {
			continue
		}
		featureNames = append(featureNames, feat.Name)
	}
	fields = append(fields, fdfField{"Features and Traits", strings.Join(featureNames, "\n")})

	return fields
}

// renderFDF serializes field assignments as an FDF document suitable
// for pdftk fill_form.
func renderFDF(fields []fdfField) string {
	var b strings.Builder
	b.WriteString("%FDF-1.2\n")
	b.WriteString("1 0 obj\n<<\n/FDF\n<<\n/Fields [\n")
	for _, field := range fields {
		b.WriteString("<<\n")
		fmt.Fprintf(&b, "/T (%s)\n", escapeFDF(field.Name))
		fmt.Fprintf(&b, "/V (%s)\n", escapeFDF(field.Value))
		b.WriteString(">>\n")
	}
	b.WriteString("]\n>>\n>>\nendobj\ntrailer\n<<\n/Root 1 0 R\n>>\n%%EOF\n")
	return b.String()
}

// escapeFDF escapes the characters PDF string literals treat specially.
func escapeFDF(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`, "\n", `\n`)
	return r.Replace(s)
}
