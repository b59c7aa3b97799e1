package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessage(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateMessage("What happened on July 28, 1914?"))
	})

	t.Run("empty", func(t *testing.T) {
		err := ValidateMessage("")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("whitespace only", func(t *testing.T) {
		err := ValidateMessage("   \n\t")
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestValidateTerm(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateTerm("guilt"))
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, errors.Is(ValidateTerm(""), ErrInvalidInput))
	})

	t.Run("too long", func(t *testing.T) {
		err := ValidateTerm(strings.Repeat("a", 81))
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("boundary length allowed", func(t *testing.T) {
		assert.NoError(t, ValidateTerm(strings.Repeat("a", 80)))
	})
}

func TestValidateExpansion(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateExpansion(&ConceptExpansion{
			Term:       "guilt",
			Definition: "A feeling of having done wrong.",
		}))
	})

	t.Run("nil", func(t *testing.T) {
		assert.True(t, errors.Is(ValidateExpansion(nil), ErrExpansionIncomplete))
	})

	t.Run("empty definition", func(t *testing.T) {
		err := ValidateExpansion(&ConceptExpansion{Term: "guilt"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrExpansionIncomplete))
		assert.Contains(t, err.Error(), "guilt")
	})

	t.Run("whitespace definition", func(t *testing.T) {
		err := ValidateExpansion(&ConceptExpansion{Term: "guilt", Definition: "  "})
		assert.True(t, errors.Is(err, ErrExpansionIncomplete))
	})
}
