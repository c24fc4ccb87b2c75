package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := &Document{Content: "some content", Name: "doc1"}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("metadata is optional", func(t *testing.T) {
		doc := &Document{Content: "content only"}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("empty updated_at is accepted", func(t *testing.T) {
		// The freeform date is the store's problem, not a validation error.
		doc := &Document{Content: "content", UpdatedAt: ""}
		assert.NoError(t, ValidateDocument(doc))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("empty content", func(t *testing.T) {
		err := ValidateDocument(&Document{Name: "doc1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDocument)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})
}
