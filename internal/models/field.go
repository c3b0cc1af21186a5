package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// FieldValue is one mapped tax-form field. Amount fields serialize as JSON
// numbers and text fields as JSON strings, matching the filing layout.
type FieldValue struct {
	Amount *decimal.Decimal
	Text   *string
}

// AmountField wraps a decimal as a field value.
func AmountField(d decimal.Decimal) FieldValue {
	return FieldValue{Amount: &d}
}

// TextField wraps a string as a field value.
func TextField(s string) FieldValue {
	return FieldValue{Text: &s}
}

// IsAmount reports whether the field carries a number.
func (f FieldValue) IsAmount() bool {
	return f.Amount != nil
}

// AmountOrZero returns the numeric value, or zero for text/empty fields.
func (f FieldValue) AmountOrZero() decimal.Decimal {
	if f.Amount == nil {
		return decimal.Zero
	}
	return *f.Amount
}

// String renders the field for exports and logs.
func (f FieldValue) String() string {
	switch {
	case f.Amount != nil:
		return f.Amount.StringFixed(2)
	case f.Text != nil:
		return *f.Text
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (f FieldValue) MarshalJSON() ([]byte, error) {
	switch {
	case f.Amount != nil:
		return []byte(f.Amount.String()), nil
	case f.Text != nil:
		return json.Marshal(*f.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Strings become text fields,
// numbers become amounts.
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	f.Amount, f.Text = nil, nil

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("failed to unmarshal text field: %w", err)
		}
		f.Text = &s
		return nil
	}

	d, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return fmt.Errorf("failed to unmarshal amount field: %w", err)
	}
	f.Amount = &d
	return nil
}

// Fields is a set of mapped form fields keyed by their dotted form code,
// e.g. "IR3.Q22.A" or "IR3R.B7A".
type Fields map[string]FieldValue

// Amount returns the numeric value at key and whether the key is present.
func (fs Fields) Amount(key string) (decimal.Decimal, bool) {
	v, ok := fs[key]
	if !ok || (v.Amount == nil && v.Text == nil) {
		return decimal.Zero, false
	}
	return v.AmountOrZero(), true
}
