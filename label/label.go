// Package label holds the static currency reference list used to name and validate currency codes
package label

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidSymbol = errors.New("currency symbol is not valid")

// Symbol ISO-4217-like currency code, e.g. USD
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Currency is an entry of the reference list
type Currency struct {
	Symbol Symbol
	Name   string
}

// Parse normalizes user input into a Symbol. The input must consist of three ASCII letters
func Parse(s string) (Symbol, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}

	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
		}
	}

	return Symbol(code), nil
}

// Lookup returns the reference entry for the symbol. Codes missing from the reference list
// are named after themselves
func Lookup(s Symbol) Currency {
	if ccy, ok := Currencies[s]; ok {
		return ccy
	}

	return Currency{Symbol: s, Name: string(s)}
}

// Sorted returns the symbols in ascending order
func Sorted(symbols []Symbol) []Symbol {
	list := make([]Symbol, len(symbols))
	copy(list, symbols)

	sort.Slice(list, func(i, j int) bool {
		return list[i] < list[j]
	})

	return list
}
