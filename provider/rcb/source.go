// Package rcb fetches the daily rates of the Central Bank of Russia
package rcb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/robotomize/gocyconv/provider/httputil"
)

const hostname = "cbr.ru"

var _ provider.Source = (*source)(nil)

func NewSource(client *http.Client) *source {
	return &source{
		latestURL: url.URL{
			Scheme: "https",
			Host:   hostname,
			Path:   "scripts/XML_daily.asp",
		},
		now:              time.Now,
		SourceHTTPClient: httputil.NewHTTPClient(client),
	}
}

type source struct {
	latestURL url.URL
	now       func() time.Time
	httputil.SourceHTTPClient
}

func (s *source) FetchLatest(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	u := s.latestURL
	query := u.Query()
	query.Set("date_req", s.now().UTC().Format("02/01/2006"))
	u.RawQuery = query.Encode()

	b, err := s.Get(ctx, u)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("fetching: %w", err)
	}

	daily, err := decodeXML(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode xml: %w", err)
	}

	// the bank publishes roubles per unit, the table needs units per rouble
	rates := make(map[label.Symbol]float64, len(daily.rates))
	for symbol, price := range daily.rates {
		rates[symbol] = 1 / price
	}

	table, err := provider.NewRateTable(label.RUB, daily.time, rates)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("rate table: %w", err)
	}

	return table.Rebase(base)
}
