package provider

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/robotomize/gocyconv/label"
)

var (
	ErrNetwork         = errors.New("network failure")
	ErrParse           = errors.New("rates can not be parsed")
	ErrUnknownCurrency = errors.New("currency symbol is not supported")
)

const baseRateTolerance = 1e-9

// RateTable is a set of rates against one base currency. A rate is the value of one unit
// of the base currency in the keyed currency. The base always maps to 1
type RateTable struct {
	Base  label.Symbol
	Time  time.Time
	rates map[label.Symbol]float64
}

// NewRateTable validates rates and returns a table owning a copy of them
func NewRateTable(base label.Symbol, t time.Time, rates map[label.Symbol]float64) (RateTable, error) {
	if base == "" {
		return RateTable{}, fmt.Errorf("%w: empty base", ErrParse)
	}

	table := RateTable{
		Base:  base,
		Time:  t,
		rates: make(map[label.Symbol]float64, len(rates)+1),
	}

	for symbol, rate := range rates {
		if symbol == "" {
			return RateTable{}, fmt.Errorf("%w: empty currency symbol", ErrParse)
		}

		if rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			return RateTable{}, fmt.Errorf("%w: rate %s=%v", ErrParse, symbol, rate)
		}

		table.rates[symbol] = rate
	}

	if rate, ok := table.rates[base]; ok && math.Abs(rate-1) > baseRateTolerance {
		return RateTable{}, fmt.Errorf("%w: base %s maps to %v", ErrParse, base, rate)
	}

	table.rates[base] = 1

	return table, nil
}

// Rate returns the rate of the symbol against the base
func (t RateTable) Rate(symbol label.Symbol) (float64, bool) {
	rate, ok := t.rates[symbol]
	return rate, ok
}

func (t RateTable) Len() int {
	return len(t.rates)
}

func (t RateTable) IsZero() bool {
	return len(t.rates) == 0
}

// Symbols returns all symbols of the table in ascending order
func (t RateTable) Symbols() []label.Symbol {
	list := make([]label.Symbol, 0, len(t.rates))
	for symbol := range t.rates {
		list = append(list, symbol)
	}

	return label.Sorted(list)
}

// Rates returns a copy of the underlying map
func (t RateTable) Rates() map[label.Symbol]float64 {
	m := make(map[label.Symbol]float64, len(t.rates))
	for symbol, rate := range t.rates {
		m[symbol] = rate
	}

	return m
}

// Rebase expresses the same rates against another base currency
func (t RateTable) Rebase(base label.Symbol) (RateTable, error) {
	if base == t.Base {
		return t, nil
	}

	divisor, ok := t.rates[base]
	if !ok {
		return RateTable{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, base)
	}

	rebased := RateTable{
		Base:  base,
		Time:  t.Time,
		rates: make(map[label.Symbol]float64, len(t.rates)),
	}

	for symbol, rate := range t.rates {
		rebased.rates[symbol] = rate / divisor
	}

	rebased.rates[base] = 1

	return rebased, nil
}
