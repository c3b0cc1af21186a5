package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$0.00"},
		{in: "5", want: "$5.00"},
		{in: "999.999", want: "$1,000.00"},
		{in: "1234.5", want: "$1,234.50"},
		{in: "1234567.891", want: "$1,234,567.89"},
		{in: "-20", want: "-$20.00"},
		{in: "-0.001", want: "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}
