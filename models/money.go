package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in cents. It is stored as an integer and travels as a
// decimal string with two places, so values never pass through float64.
type Money int64

// ParseMoney reads "150", "150.5" or "-3.25". More than two decimal places
// and exponent notation are rejected.
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	neg := strings.HasPrefix(raw, "-")
	digits := strings.TrimPrefix(raw, "-")

	units, frac, hasFrac := strings.Cut(digits, ".")
	if units == "" || !allDigits(units) || (hasFrac && (frac == "" || len(frac) > 2 || !allDigits(frac))) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	cents, err := strconv.ParseInt(units+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if neg {
		cents = -cents
	}
	return Money(cents), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats the amount with exactly two decimal places
func (m Money) String() string {
	cents := int64(m)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON writes the amount as a decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts a decimal string or a plain JSON number
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		data = []byte(s)
	}
	v, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
