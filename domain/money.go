package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative fixed-point amount with at most two fractional digits.
type Money struct {
	amount decimal.Decimal
}

var ZeroMoney = Money{amount: decimal.Zero}

// NewMoney validates d and wraps it.
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, invalid("amount %s must not be negative", d.String())
	}
	if !d.Equal(d.Truncate(2)) {
		return Money{}, invalid("amount %s has more than 2 decimal places", d.String())
	}
	return Money{amount: d}, nil
}

// ParseMoney parses a decimal string such as "12.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, invalid("amount %q is not a decimal number", s)
	}
	return NewMoney(d)
}

// MustMoney panics on invalid input. Meant for constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

// Add never fails: the sum of two valid amounts is a valid amount.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Equal(other Money) bool { return m.amount.Equal(other.amount) }

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) String() string { return m.amount.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a string or a bare number. null leaves m unchanged.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// accept bare numbers as well
		raw = string(data)
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SumMoney adds up amounts, returning zero for an empty list.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
