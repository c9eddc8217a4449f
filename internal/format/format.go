// Package format renders amounts and timestamps for the admin views.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const rupee = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Currency formats amount as Indian rupees with en-IN digit grouping and at
// most two fraction digits, e.g. 1500 -> "₹1,500", 19.99 -> "₹19.99".
func Currency(amount float64) string {
	if amount < 0 {
		return "-" + rupee + printer.Sprint(number.Decimal(-amount, number.MaxFractionDigits(2)))
	}
	return rupee + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ShortDate renders an ISO-8601 timestamp as "14 Oct 2026". Values that do
// not parse are returned unchanged.
func ShortDate(iso string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2 Jan 2006")
		}
	}
	return iso
}
