package qms

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestium/backend/internal/domain/shared"
)

func TestNewDocument(t *testing.T) {
	orgID := uuid.New()

	t.Run("creates draft document", func(t *testing.T) {
		doc, err := NewDocument(orgID, "sgc-001", "  Manual de Calidad  ")

		require.NoError(t, err)
		assert.Equal(t, "SGC-001", doc.Code)
		assert.Equal(t, "Manual de Calidad", doc.Title)
		assert.Equal(t, 1, doc.Version)
		assert.Equal(t, DocumentStatusDraft, doc.Status)
		assert.NotEqual(t, uuid.Nil, doc.ID)
	})

	t.Run("fails with nil organization", func(t *testing.T) {
		doc, err := NewDocument(uuid.Nil, "SGC-001", "Manual")

		assert.Error(t, err)
		assert.Nil(t, doc)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		doc, err := NewDocument(orgID, "   ", "Manual")

		assert.Error(t, err)
		assert.Nil(t, doc)
	})

	t.Run("fails with empty title", func(t *testing.T) {
		doc, err := NewDocument(orgID, "SGC-001", "")

		assert.Error(t, err)
		assert.Nil(t, doc)
	})
}

func TestDocument_Publish(t *testing.T) {
	t.Run("publishes a draft", func(t *testing.T) {
		doc, _ := NewDocument(uuid.New(), "SGC-001", "Manual")

		require.NoError(t, doc.Publish())
		assert.Equal(t, DocumentStatusPublished, doc.Status)
	})

	t.Run("rejects publishing twice", func(t *testing.T) {
		doc, _ := NewDocument(uuid.New(), "SGC-001", "Manual")
		require.NoError(t, doc.Publish())

		assert.ErrorIs(t, doc.Publish(), shared.ErrInvalidState)
	})
}

func TestDocument_Revise(t *testing.T) {
	t.Run("bumps version and returns to draft", func(t *testing.T) {
		doc, _ := NewDocument(uuid.New(), "SGC-001", "Manual")
		require.NoError(t, doc.Publish())

		require.NoError(t, doc.Revise())
		assert.Equal(t, 2, doc.Version)
		assert.Equal(t, DocumentStatusDraft, doc.Status)
	})

	t.Run("rejects revising a draft", func(t *testing.T) {
		doc, _ := NewDocument(uuid.New(), "SGC-001", "Manual")

		assert.ErrorIs(t, doc.Revise(), shared.ErrInvalidState)
	})
}

func TestDocument_MarkObsolete(t *testing.T) {
	t.Run("retires a published document", func(t *testing.T) {
		doc, _ := NewDocument(uuid.New(), "SGC-001", "Manual")
		require.NoError(t, doc.Publish())

		require.NoError(t, doc.MarkObsolete())
		assert.Equal(t, DocumentStatusObsolete, doc.Status)
	})

	t.Run("rejects retiring twice", func(t *testing.T) {
		doc, _ := NewDocument(uuid.New(), "SGC-001", "Manual")
		require.NoError(t, doc.MarkObsolete())

		assert.ErrorIs(t, doc.MarkObsolete(), shared.ErrInvalidState)
	})
}
