package export

import (
	"html/template"
	"os"
	"sort"

	"github.com/toonforge/toonforge/internal/character"
	apperrors "github.com/toonforge/toonforge/internal/errors"
)

// WriteHTML renders an HTML character sheet under OutputDir and returns
// the path of the written file.
func (e *Exporter) WriteHTML(state *character.CharacterState) (string, error) {
	path, err := e.sheetPath(state, ".html")
	if err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", apperrors.Wrapf(err, "failed to create %s", path)
	}
	defer out.Close()

	if err := sheetTemplate.Execute(out, newHTMLView(state)); err != nil {
		return "", apperrors.Wrap(err, "failed to render character sheet")
	}
	return path, nil
}

type htmlView struct {
	State       *character.CharacterState
	ClassLevels string
	Abilities   []htmlAbility
	Saves       []htmlSave
	Pools       []htmlPool
}

type htmlAbility struct {
	Name     string
	Score    int
	Modifier int
}

type htmlSave struct {
	Name       string
	Bonus      int
	Proficient bool
}

type htmlPool struct {
	Name    string
	Current int
	Maximum int
}

func newHTMLView(state *character.CharacterState) htmlView {
	view := htmlView{
		State:       state,
		ClassLevels: classLevels(state),
	}
	for _, ability := range character.Abilities {
		a, ok := state.Abilities[ability]
		if !ok {
			continue
		}
		view.Abilities = append(view.Abilities, htmlAbility{
			Name:     title(string(ability)),
			Score:    a.Score,
			Modifier: a.Modifier,
		})
	}
	for _, ability := range character.Abilities {
		save, ok := state.SavingThrows[ability]
		if !ok {
			continue
		}
		view.Saves = append(view.Saves, htmlSave{
			Name:       title(string(ability)),
			Bonus:      save.Bonus,
			Proficient: save.Proficient,
		})
	}
	names := make([]string, 0, len(state.Pools))
	for name := range state.Pools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pool := state.Pools[name]
		view.Pools = append(view.Pools, htmlPool{Name: name, Current: pool.Current, Maximum: pool.Maximum})
	}
	return view
}

var sheetTemplate = template.Must(template.New("character_sheet").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.State.Name}} - Character Sheet</title>
<style>
body { font-family: Georgia, serif; max-width: 48em; margin: 2em auto; }
h1 { border-bottom: 2px solid #333; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #999; padding: 0.3em 0.8em; text-align: left; }
.inactive { color: #999; }
</style>
</head>
<body>
<h1>{{.State.Name}}</h1>
<p>
{{if .State.Race}}{{.State.Race}}{{if .State.Subrace}} ({{.State.Subrace}}){{end}} &middot; {{end}}
{{.ClassLevels}}
{{if .State.Background}} &middot; {{.State.Background}}{{end}}
</p>

<table>
<tr><th>Ability</th><th>Score</th><th>Modifier</th></tr>
{{range .Abilities}}
<tr><td>{{.Name}}</td><td>{{.Score}}</td><td>{{printf "%+d" .Modifier}}</td></tr>
{{end}}
</table>

{{if .Saves}}
<table>
<tr><th>Saving Throw</th><th>Bonus</th></tr>
{{range .Saves}}
<tr><td>{{.Name}}{{if .Proficient}} *{{end}}</td><td>{{printf "%+d" .Bonus}}</td></tr>
{{end}}
</table>
{{end}}

<table>
<tr><td>Armor Class</td><td>{{.State.ArmorClass}}</td></tr>
<tr><td>Hit Points</td><td>{{.State.CurrentHitPoints}}/{{.State.MaxHitPoints}}</td></tr>
<tr><td>Speed</td><td>{{.State.Speed}} ft</td></tr>
<tr><td>Initiative</td><td>{{printf "%+d" .State.InitiativeBonus}}</td></tr>
<tr><td>Proficiency Bonus</td><td>+{{.State.ProficiencyBonus}}</td></tr>
</table>

{{if .Pools}}
<h2>Resources</h2>
<table>
<tr><th>Resource</th><th>Remaining</th></tr>
{{range .Pools}}
<tr><td>{{.Name}}</td><td>{{.Current}}/{{.Maximum}}</td></tr>
{{end}}
</table>
{{end}}

{{if .State.Features}}
<h2>Features</h2>
<ul>
{{range .State.Features}}
<li{{if .Inactive}} class="inactive"{{end}}><strong>{{.Name}}</strong>{{if .Source}} ({{.Source}}){{end}}{{if .Description}} &mdash; {{.Description}}{{end}}</li>
{{end}}
</ul>
{{end}}

{{if .State.SkillProficiencies}}
<h2>Proficiencies</h2>
<p>Skills: {{range $i, $s := .State.SkillProficiencies}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
{{end}}
{{if .State.Languages}}
<p>Languages: {{range $i, $l := .State.Languages}}{{if $i}}, {{end}}{{$l}}{{end}}</p>
{{end}}
</body>
</html>
`))
