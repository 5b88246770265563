// Package core provides the domain types and money parsing for the
// budgeting-analysis engine.
//
// This file contains parsing of monetary amount strings as they appear in
// bank statements (CSV cells and PDF line tokens) into cents.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a statement amount string to absolute cents.
//
// Accepted forms: an optional currency mark (£, $ or €), an optional sign,
// digits with optional thousands separators, and an optional decimal part of
// one or two digits. The sign is discarded: statement amounts feed spending
// totals where direction carries no meaning.
//
// Examples:
//
//	ParseAmount("45.20")    -> 4520, nil
//	ParseAmount("-45.20")   -> 4520, nil
//	ParseAmount("£1,204.99") -> 120499, nil
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	for _, mark := range []string{"£", "$", "€"} {
		s = strings.TrimPrefix(s, mark)
	}
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "+")
	// Thousands separators
	s = strings.ReplaceAll(s, ",", "")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
		}
	}
	return iv*100 + fracCents, nil
}

// Pounds returns the pound value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Pounds() float64 {
	return float64(m.Cents) / 100.0
}

// FormatGBP renders cents as a pound string, e.g. "£45.20".
func FormatGBP(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "£" + strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
