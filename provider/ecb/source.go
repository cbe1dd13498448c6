// Package ecb fetches the daily euro reference rates of the European Central Bank
package ecb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/robotomize/gocyconv/provider/httputil"
)

const hostname = "www.ecb.europa.eu"

const latestXMLRawPath = "/stats/eurofxref/eurofxref-daily.xml"

var defaultLatestResourceXML = url.URL{Scheme: "https", Host: hostname, Path: latestXMLRawPath}

var _ provider.Source = (*source)(nil)

func NewSource(client *http.Client) *source {
	return &source{
		latestURL:        defaultLatestResourceXML,
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

	daily, err := decodeXML(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode xml: %w", err)
	}

	table, err := provider.NewRateTable(label.EUR, daily.time, daily.rates)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("rate table: %w", err)
	}

	return table.Rebase(base)
}
