// Package cae scrapes the daily rates table of the Central Bank of the UAE
package cae

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/robotomize/gocyconv/provider/httputil"
)

const hostname = "www.centralbank.ae"

var _ provider.Source = (*source)(nil)

func NewSource(client *http.Client) *source {
	return &source{
		latestURL: url.URL{
			Scheme: "https",
			Host:   hostname,
			Path:   "en/fx-rates",
		},
		SourceHTTPClient: httputil.NewHTTPClient(client),
	}
}

type source struct {
	latestURL url.URL
	httputil.SourceHTTPClient
}

func (s *source) FetchLatest(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	b, err := s.Get(ctx, s.latestURL)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("fetching: %w", err)
	}

	daily, err := parseHTML(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("parse html: %w", err)
	}

	rates := make(map[label.Symbol]float64, len(daily.rates))
	for symbol, price := range daily.rates {
		rates[symbol] = 1 / price
	}

	table, err := provider.NewRateTable(label.AED, daily.time, rates)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("rate table: %w", err)
	}

	return table.Rebase(base)
}
