package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/toonforge/toonforge/internal/errors"
)

func TestWrapPreservesCode(t *testing.T) {
	base := apperrors.InsufficientResourcef("pool %s has %d remaining", "sorcery_points", 2)
	wrapped := apperrors.Wrap(base, "failed to spend")

	assert.True(t, apperrors.IsInsufficientResource(wrapped))
	assert.Equal(t, apperrors.CodeInsufficientResource, apperrors.GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "failed to spend")
	assert.Contains(t, wrapped.Error(), "sorcery_points")
}

func TestWrapForeignError(t *testing.T) {
	wrapped := apperrors.Wrap(fmt.Errorf("boom"), "context")
	assert.Equal(t, apperrors.CodeUnknown, apperrors.GetCode(wrapped))
}

func TestWithMeta(t *testing.T) {
	err := apperrors.UnknownFormulaTokenf("unknown formula token %q", "sorcerer_levle").
		WithMeta("feature", "Font of Magic").
		WithMeta("formula", "sorcerer_levle")

	meta := apperrors.GetMeta(err)
	require.NotNil(t, meta)
	assert.Equal(t, "Font of Magic", meta["feature"])
	assert.Equal(t, "sorcerer_levle", meta["formula"])
}

func TestValidationBatch(t *testing.T) {
	batch := apperrors.NewValidationBatch("classes/sorcerer.json")
	assert.True(t, batch.Empty())
	assert.NoError(t, batch.Err())

	batch.Addf(apperrors.CodeUnsupportedMechanic, "feature %q: unknown mechanics type %q", "Weird", "psionic")
	batch.Add(apperrors.DanglingEnhancementf("feature %q enhances unknown feature %q", "Empowered", "Missing"))
	batch.Add(nil)

	require.Error(t, batch.Err())
	assert.Len(t, batch.Errors, 2)
	assert.Contains(t, batch.Err().Error(), "2 validation error(s)")
	assert.Contains(t, batch.Err().Error(), "classes/sorcerer.json")
}
