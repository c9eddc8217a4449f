package form

import (
	"strings"
	"testing"
	"time"

	"product-catalog-admin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Name:     "Widget",
		Price:    "19.99",
		Category: "Tools",
		Stock:    "5",
		IsActive: true,
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	assert.True(t, Validate(validDraft()).Valid())
}

func TestValidate_Price(t *testing.T) {
	for _, price := range []string{"0", "-5", "abc", "", "NaN", "Inf"} {
		d := validDraft()
		d.Price = price
		errs := Validate(d)
		assert.Equal(t, MsgPriceInvalid, errs[FieldPrice], "price %q", price)
		assert.Len(t, errs, 1, "price %q", price)
	}

	d := validDraft()
	d.Price = "19.99"
	assert.NotContains(t, Validate(d), FieldPrice)
}

func TestValidate_PriceMustBeDecimal(t *testing.T) {
	for _, price := range []string{"0x1p4", "0X10", "-0x1p4", "+0x10"} {
		d := validDraft()
		d.Price = price
		assert.Equal(t, MsgPriceInvalid, Validate(d)[FieldPrice], "price %q", price)
	}

	for price, want := range map[string]float64{"1e3": 1000, "+2.5": 2.5, " 10 ": 10, "0.5": 0.5} {
		d := validDraft()
		d.Price = price
		input, errs := Build(d, nil, time.Now())
		require.True(t, errs.Valid(), "price %q", price)
		assert.Equal(t, want, input.Price, "price %q", price)
	}
}

func TestValidate_Stock(t *testing.T) {
	for _, stock := range []string{"", "-1", "two", "1.5"} {
		d := validDraft()
		d.Stock = stock
		assert.Equal(t, MsgStockInvalid, Validate(d)[FieldStock], "stock %q", stock)
	}

	d := validDraft()
	d.Stock = "0"
	assert.True(t, Validate(d).Valid())
}

func TestValidate_Name(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", MsgNameRequired},
		{"   ", MsgNameRequired},
		{"W", MsgNameTooShort},
		{"  W  ", MsgNameTooShort},
		{"Wi", ""},
	}
	for _, tt := range tests {
		d := validDraft()
		d.Name = tt.name
		errs := Validate(d)
		if tt.want == "" {
			assert.NotContains(t, errs, FieldName, "name %q", tt.name)
			continue
		}
		assert.Equal(t, tt.want, errs[FieldName], "name %q", tt.name)
	}
}

func TestValidate_CategoryAndDescription(t *testing.T) {
	d := validDraft()
	d.Category = ""
	d.Description = strings.Repeat("x", MaxDescriptionLength+1)
	errs := Validate(d)
	assert.Equal(t, MsgCategoryRequired, errs[FieldCategory])
	assert.Equal(t, MsgDescriptionLong, errs[FieldDescription])

	d = validDraft()
	d.Description = strings.Repeat("é", MaxDescriptionLength)
	assert.True(t, Validate(d).Valid())
}

func TestValidate_ReportsEveryInvalidField(t *testing.T) {
	errs := Validate(EmptyDraft())
	assert.Equal(t, Errors{
		FieldName:     MsgNameRequired,
		FieldPrice:    MsgPriceInvalid,
		FieldCategory: MsgCategoryRequired,
		FieldStock:    MsgStockInvalid,
	}, errs)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"wireless", "gaming", "premium"}, ParseTags(" wireless, gaming ,,premium, "))
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{}, ParseTags(" , ,"))
}

func TestBuild_NewProduct(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	d := Draft{
		Name:        "  Desk Lamp ",
		Price:       "25.50",
		Category:    "Home",
		Stock:       "3",
		Description: "  warm light  ",
		Tags:        "light, desk",
		IsActive:    false,
	}

	input, errs := Build(d, nil, now)
	require.True(t, errs.Valid())
	assert.Equal(t, domain.ProductInput{
		Name:        "Desk Lamp",
		Price:       25.5,
		Category:    "Home",
		Stock:       3,
		Description: "warm light",
		Tags:        []string{"light", "desk"},
		IsActive:    false,
		CreatedAt:   "2026-10-14T04:00:00.000Z",
	}, input)
}

func TestBuild_EditCarriesIdentityForward(t *testing.T) {
	editing := &domain.Product{ID: "p-1", Name: "Old", CreatedAt: "2024-01-01T00:00:00.000Z"}
	d := validDraft()

	input, errs := Build(d, editing, time.Now())
	require.True(t, errs.Valid())
	assert.Equal(t, domain.ProductID("p-1"), input.ID)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", input.CreatedAt)
	assert.Equal(t, "Widget", input.Name)
}

func TestBuild_InvalidReturnsErrorsOnly(t *testing.T) {
	d := validDraft()
	d.Name = "W"
	input, errs := Build(d, nil, time.Now())
	assert.False(t, errs.Valid())
	assert.Equal(t, domain.ProductInput{}, input)
}
