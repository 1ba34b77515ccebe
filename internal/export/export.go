package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/toonforge/toonforge/internal/character"
	apperrors "github.com/toonforge/toonforge/internal/errors"
)

// Format selects a character sheet rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Exporter renders character snapshots into shareable sheets. Text and
// JSON render to a string; HTML and PDF write a file under OutputDir
// and return its path.
type Exporter struct {
	// OutputDir receives generated sheet files. Defaults to "characters".
	OutputDir string

	// PDFTemplate is the blank fillable sheet the pdftk pass fills.
	// Defaults to "templates/5E_CharacterSheet_Fillable.pdf".
	PDFTemplate string
}

const (
	defaultOutputDir   = "characters"
	defaultPDFTemplate = "templates/5E_CharacterSheet_Fillable.pdf"
)

func (e *Exporter) outputDir() string {
	if e.OutputDir != "" {
		return e.OutputDir
	}
	return defaultOutputDir
}

func (e *Exporter) pdfTemplate() string {
	if e.PDFTemplate != "" {
		return e.PDFTemplate
	}
	return defaultPDFTemplate
}

// Export renders the snapshot in the requested format. For text and
// JSON the returned string is the sheet itself; for HTML and PDF it is
// the path of the written file.
func (e *Exporter) Export(state *character.CharacterState, format Format) (string, error) {
	if state == nil {
		return "", apperrors.InvalidArgument("character state is required")
	}

	switch format {
	case FormatText:
		return Text(state), nil
	case FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return "", apperrors.Wrap(err, "failed to marshal character state")
		}
		return string(data), nil
	case FormatHTML:
		return e.WriteHTML(state)
	case FormatPDF:
		return e.WritePDF(state)
	default:
		return "", apperrors.InvalidArgumentf("unknown export format: %s", format)
	}
}

// sheetPath builds the output file path for a character, creating the
// output directory if needed.
func (e *Exporter) sheetPath(state *character.CharacterState, ext string) (string, error) {
	dir := e.outputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrapf(err, "failed to create output directory %s", dir)
	}
	name := strings.ReplaceAll(state.Name, " ", "_")
	if name == "" {
		name = state.ID
	}
	return filepath.Join(dir, name+"_sheet"+ext), nil
}
