package export

import (
	"os"
	"os/exec"

	"github.com/toonforge/toonforge/internal/character"
	apperrors "github.com/toonforge/toonforge/internal/errors"
)

// WritePDF fills the blank character sheet template with the snapshot's
// values and writes the result under OutputDir. Requires the pdftk
// binary on PATH.
func (e *Exporter) WritePDF(state *character.CharacterState) (string, error) {
	templatePath := e.pdfTemplate()
	if _, err := os.Stat(templatePath); err != nil {
		return "", apperrors.NotFoundf("PDF sheet template not found at %s", templatePath)
	}

	if _, err := exec.LookPath("pdftk"); err != nil {
		return "", apperrors.InvalidArgument("pdftk is required for PDF export but was not found on PATH")
	}

	outputPath, err := e.sheetPath(state, ".pdf")
	if err != nil {
		return "", err
	}

	fdf, err := os.CreateTemp("", "sheet-*.fdf")
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create FDF temp file")
	}
	fdfPath := fdf.Name()
	defer os.Remove(fdfPath)

	if _, err := fdf.WriteString(renderFDF(sheetFields(state))); err != nil {
		fdf.Close()
		return "", apperrors.Wrap(err, "failed to write FDF form data")
	}
	if err := fdf.Close(); err != nil {
		return "", apperrors.Wrap(err, "failed to write FDF form data")
	}

	cmd := exec.Command("pdftk", templatePath, "fill_form", fdfPath, "output", outputPath, "flatten")
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", apperrors.Wrapf(err, "pdftk fill_form failed: %s", string(out))
	}

	return outputPath, nil
}
