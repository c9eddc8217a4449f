package form

import (
	"testing"
	"time"

	"product-catalog-admin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftFrom(t *testing.T) {
	p := domain.Product{
		ID:          "9",
		Name:        "Widget",
		Price:       19.99,
		Category:    "Tools",
		Stock:       0,
		Description: "small",
		Tags:        []string{"a", "b"},
		IsActive:    false,
	}
	assert.Equal(t, Draft{
		Name:        "Widget",
		Price:       "19.99",
		Category:    "Tools",
		Stock:       "0",
		Description: "small",
		Tags:        "a, b",
		IsActive:    false,
	}, DraftFrom(p))
}

func TestEmptyDraft_IsActive(t *testing.T) {
	assert.True(t, EmptyDraft().IsActive)
}

func TestDraft_SetRejectsUnknownField(t *testing.T) {
	d := EmptyDraft()
	assert.Error(t, d.Set("colour", "red"))
	assert.Error(t, d.Set(FieldIsActive, "maybe"))
	require.NoError(t, d.Set(FieldIsActive, "false"))
	assert.False(t, d.IsActive)
}

func TestSession_SetClearsFieldError(t *testing.T) {
	s := NewSession(nil)
	_, ok := s.Submit(time.Now())
	require.False(t, ok)
	require.Contains(t, s.Errors, FieldName)
	require.Contains(t, s.Errors, FieldPrice)

	require.NoError(t, s.Set(FieldName, "Widget"))
	assert.NotContains(t, s.Errors, FieldName)
	assert.Contains(t, s.Errors, FieldPrice)
}

func TestSession_EditCopiesProduct(t *testing.T) {
	p := domain.Product{ID: "1", Name: "Widget", Price: 10, Category: "Tools", Stock: 1, CreatedAt: "2024-01-01T00:00:00Z"}
	s := NewSession(&p)
	p.Name = "changed"

	require.True(t, s.IsEditing())
	assert.Equal(t, "Widget", s.Editing.Name)
	assert.Equal(t, "Widget", s.Draft.Name)

	input, ok := s.Submit(time.Now())
	require.True(t, ok)
	assert.Equal(t, domain.ProductID("1"), input.ID)
	assert.Equal(t, "2024-01-01T00:00:00Z", input.CreatedAt)
	assert.Empty(t, s.Errors)
}
