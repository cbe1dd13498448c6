// Package ratesapi fetches rates from the exchangeratesapi.io v1 endpoint. The endpoint requires an access key
// and its free plan only serves EUR as the base, other bases are derived locally
package ratesapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/robotomize/gocyconv/provider/httputil"
)

const hostname = "api.exchangeratesapi.io"

const latestRawPath = "/v1/latest"

const requestBase = label.EUR

var ErrMissingAPIKey = errors.New("api key is missing")

var defaultLatestResource = url.URL{Scheme: "https", Host: hostname, Path: latestRawPath}

var _ provider.Source = (*source)(nil)

func NewSource(client *http.Client, apiKey string) *source {
	return NewSourceWithURL(client, defaultLatestResource, apiKey)
}

func NewSourceWithURL(client *http.Client, u url.URL, apiKey string) *source {
	return &source{
		apiKey:           apiKey,
		latestURL:        u,
		SourceHTTPClient: httputil.NewHTTPClient(client),
	}
}

type source struct {
	apiKey    string
	latestURL url.URL
	httputil.SourceHTTPClient
}

func (s *source) FetchLatest(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	if s.apiKey == "" {
		return provider.RateTable{}, ErrMissingAPIKey
	}

	u := s.latestURL
	query := u.Query()
	query.Set("access_key", s.apiKey)
	query.Set("base", requestBase.String())
	u.RawQuery = query.Encode()

	b, err := s.Get(ctx, u)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("fetching: %w", err)
	}

	table, err := decodeJSON(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode: %w", err)
	}

	return table.Rebase(base)
}
