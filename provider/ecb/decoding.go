package ecb

import (
	"fmt"
	"time"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
)

var (
	errDecodeToken       = fmt.Errorf("%w: decoding of the markup failed", provider.ErrParse)
	errAttributeNotValid = fmt.Errorf("%w: attr is not valid", provider.ErrParse)
	errRatesNotFound     = fmt.Errorf("%w: daily rates not found", provider.ErrParse)
)

type euroLatestRates struct {
	time  time.Time
	rates map[label.Symbol]float64
}
