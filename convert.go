package gocyconv

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const displayPlaces = 2

// ErrOutOfRange is returned when a conversion result does not fit a float64
var ErrOutOfRange = errors.New("conversion result out of range")

type ConversionResponse struct {
	Date   time.Time
	Value  float64
	From   label.Currency
	To     label.Currency
	Rate   float64
	Amount float64
	Source string
}

// String renders the converted amount with two decimals followed by the target code
func (c ConversionResponse) String() string {
	if !isFinite(c.Amount) {
		return strconv.FormatFloat(c.Amount, 'f', displayPlaces, 64) + " " + c.To.Symbol.String()
	}

	return decimal.NewFromFloat(c.Amount).StringFixed(displayPlaces) + " " + c.To.Symbol.String()
}

// Format renders the converted amount with the digit grouping of the given language
func (c ConversionResponse) Format(tag language.Tag) string {
	if !isFinite(c.Amount) {
		return c.String()
	}

	p := message.NewPrinter(tag)
	return p.Sprintf("%v %s", number.Decimal(Round(c.Amount), number.Scale(displayPlaces)), c.To.Symbol)
}

// Convert computes amount / table[from] * table[to]. A result that overflows float64 is ErrOutOfRange
func Convert(amount float64, from, to label.Symbol, table provider.RateTable) (float64, error) {
	fromRate, ok := table.Rate(from)
	if !ok {
		return 0, fmt.Errorf("%w: %s", provider.ErrUnknownCurrency, from)
	}

	toRate, ok := table.Rate(to)
	if !ok {
		return 0, fmt.Errorf("%w: %s", provider.ErrUnknownCurrency, to)
	}

	if !isFinite(amount) {
		return 0, fmt.Errorf("%w: amount %v", ErrOutOfRange, amount)
	}

	if from == to {
		return amount, nil
	}

	result := amount / fromRate * toRate
	if !isFinite(result) {
		return 0, fmt.Errorf("%w: %v %s to %s", ErrOutOfRange, amount, from, to)
	}

	return result, nil
}

// Round rounds half away from zero to two decimal places. Infinities and NaN are returned as is
func Round(v float64) float64 {
	if !isFinite(v) {
		return v
	}

	return decimal.NewFromFloat(v).Round(displayPlaces).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
