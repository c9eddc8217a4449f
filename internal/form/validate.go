// Package form holds the draft state of the product create/edit form and
// turns a valid draft into the payload sent to the backend.
package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"product-catalog-admin/internal/domain"
)

// Field names, shared by drafts, error maps and the HTML form.
const (
	FieldName        = "name"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldStock       = "stock"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldIsActive    = "isActive"
)

// MaxDescriptionLength is the longest accepted description, in characters.
const MaxDescriptionLength = 500

// Messages shown next to invalid fields.
const (
	MsgNameRequired     = "Product name is required"
	MsgNameTooShort     = "Product name must be at least 2 characters"
	MsgPriceInvalid     = "Valid price is required"
	MsgCategoryRequired = "Category is required"
	MsgStockInvalid     = "Valid stock quantity is required"
	MsgDescriptionLong  = "Description must be at most 500 characters"
)

// Errors maps a field name to its validation message. A draft is valid iff
// the map is empty.
type Errors map[string]string

// Valid reports whether no field failed validation.
func (e Errors) Valid() bool { return len(e) == 0 }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their JSON names so they line up with the form.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a draft and returns the per-field messages. It does not
// check category membership; the caller offers only known categories.
func Validate(d Draft) Errors {
	_, errs := parse(d)
	return errs
}

// Build validates d and, when valid, returns the normalised submission
// payload. For a new record (editing == nil) CreatedAt is now; for an edit
// the existing ID and CreatedAt are carried forward unchanged.
func Build(d Draft, editing *domain.Product, now time.Time) (domain.ProductInput, Errors) {
	input, errs := parse(d)
	if !errs.Valid() {
		return domain.ProductInput{}, errs
	}
	if editing != nil {
		input.ID = editing.ID
		input.CreatedAt = editing.CreatedAt
	} else {
		input.CreatedAt = Timestamp(now)
	}
	return input, errs
}

// Timestamp renders t the way creation timestamps are stored: RFC 3339 in
// UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseTags splits a comma separated list, trimming each piece and dropping
// the empty ones.
func ParseTags(s string) []string {
	tags := []string{}
	for _, piece := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parse converts the raw strings and runs the struct rules. Fields that do
// not parse are reported before the validator sees them.
func parse(d Draft) (domain.ProductInput, Errors) {
	errs := Errors{}
	input := domain.ProductInput{
		Name:        strings.TrimSpace(d.Name),
		Category:    d.Category,
		Description: strings.TrimSpace(d.Description),
		Tags:        ParseTags(d.Tags),
		IsActive:    d.IsActive,
	}

	price, err := parseDecimal(d.Price)
	if err != nil {
		errs[FieldPrice] = MsgPriceInvalid
	} else {
		input.Price = price
	}

	stock, err := strconv.Atoi(strings.TrimSpace(d.Stock))
	if err != nil {
		errs[FieldStock] = MsgStockInvalid
	} else {
		input.Stock = stock
	}

	var verrs validator.ValidationErrors
	if err := validate.Struct(input); errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := fe.Field()
			if _, seen := errs[field]; seen {
				continue
			}
			if msg := message(field, fe.Tag()); msg != "" {
				errs[field] = msg
			}
		}
	}
	return input, errs
}

// parseDecimal parses a finite base-10 number. Hex floats, NaN and
// infinities are rejected.
func parseDecimal(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, fmt.Errorf("form: %q is not a decimal number", raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("form: %q is not a finite number", raw)
	}
	return f, nil
}

func message(field, tag string) string {
	switch field {
	case FieldName:
		if tag == "required" {
			return MsgNameRequired
		}
		return MsgNameTooShort
	case FieldPrice:
		return MsgPriceInvalid
	case FieldCategory:
		return MsgCategoryRequired
	case FieldStock:
		return MsgStockInvalid
	case FieldDescription:
		return MsgDescriptionLong
	}
	return ""
}
