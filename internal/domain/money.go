package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// valor is exchanged with the mobile app as a JSON number
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount converts user-entered monetary input into a decimal.
// Accepts "1234.56", "1234,56" and "1.234,56", with an optional "R$" prefix.
// Empty, non-numeric and negative inputs are rejected with *ErrInvalidAmount.
func ParseAmount(field, input string) (decimal.Decimal, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, &ErrInvalidAmount{Field: field, Input: input, Reason: "valor obrigatório"}
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ErrInvalidAmount{Field: field, Input: input, Reason: "valor não numérico"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ErrInvalidAmount{Field: field, Input: input, Reason: "valor não pode ser negativo"}
	}
	return d, nil
}

// AmountInput is a request field that accepts either a JSON number or a
// string in any format ParseAmount understands.
type AmountInput struct {
	raw string
	set bool
}

// NewAmountInput wraps a raw string as if it had been decoded from JSON.
func NewAmountInput(raw string) AmountInput {
	return AmountInput{raw: raw, set: true}
}

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = AmountInput{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}
	a.raw = s
	a.set = true
	return nil
}

func (a AmountInput) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return json.Marshal(a.raw)
}

// IsSet reports whether the field was present in the request.
func (a AmountInput) IsSet() bool { return a.set }

// Parse validates the input for the given field name.
func (a AmountInput) Parse(field string) (decimal.Decimal, error) {
	if !a.set {
		return decimal.Zero, &ErrInvalidAmount{Field: field, Reason: "valor obrigatório"}
	}
	return ParseAmount(field, a.raw)
}
