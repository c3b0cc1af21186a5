package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rentaltax/internal/models"
)

// formatCurrency renders an amount the way activity entries display it,
// e.g. "$1,234.50" or "-$20.00".
func formatCurrency(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.IsNegative() && !d.Round(2).IsZero() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// describeLine is the activity value recorded for an expense line.
func describeLine(category models.ExpenseCategory, amount decimal.Decimal) string {
	return string(category) + ": " + formatCurrency(amount)
}
