package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{10, "₹10"},
		{19.99, "₹19.99"},
		{1500, "₹1,500"},
		{-5, "-₹5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.amount), "amount %v", tt.amount)
	}
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "14 Oct 2026", ShortDate("2026-10-14T09:30:00.000Z"))
	assert.Equal(t, "3 Jan 2024", ShortDate("2024-01-03"))
	assert.Equal(t, "not a date", ShortDate("not a date"))
}
