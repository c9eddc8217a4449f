package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"product-catalog-admin/internal/domain"
)

// Draft is the unvalidated form input. Price and stock stay raw strings
// until Build parses them.
type Draft struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Stock       string `json:"stock"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	IsActive    bool   `json:"isActive"`
}

// EmptyDraft is the draft of a new product.
func EmptyDraft() Draft {
	return Draft{IsActive: true}
}

// DraftFrom fills a draft from an existing product for editing.
func DraftFrom(p domain.Product) Draft {
	return Draft{
		Name:        p.Name,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Category:    p.Category,
		Stock:       strconv.Itoa(p.Stock),
		Description: p.Description,
		Tags:        strings.Join(p.Tags, ", "),
		IsActive:    p.IsActive,
	}
}

// Set assigns one string field by its form name.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldPrice:
		d.Price = value
	case FieldCategory:
		d.Category = value
	case FieldStock:
		d.Stock = value
	case FieldDescription:
		d.Description = value
	case FieldTags:
		d.Tags = value
	case FieldIsActive:
		active, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("form: invalid %s value %q", field, value)
		}
		d.IsActive = active
	default:
		return fmt.Errorf("form: unknown field %q", field)
	}
	return nil
}

// Session is an open create or edit form. Editing is nil when creating.
type Session struct {
	Draft   Draft
	Errors  Errors
	Editing *domain.Product
}

// NewSession opens a form for editing (or, with nil, for a new product).
func NewSession(editing *domain.Product) *Session {
	s := &Session{Draft: EmptyDraft(), Errors: Errors{}}
	if editing != nil {
		p := *editing
		s.Editing = &p
		s.Draft = DraftFrom(p)
	}
	return s
}

// IsEditing reports whether the session edits an existing product.
func (s *Session) IsEditing() bool { return s.Editing != nil }

// Set updates a field and clears the error it had.
func (s *Session) Set(field, value string) error {
	if err := s.Draft.Set(field, value); err != nil {
		return err
	}
	delete(s.Errors, field)
	return nil
}

// Submit validates the draft. On failure the errors are kept on the
// session and ok is false.
func (s *Session) Submit(now time.Time) (input domain.ProductInput, ok bool) {
	input, errs := Build(s.Draft, s.Editing, now)
	s.Errors = errs
	return input, errs.Valid()
}
