// Package exchangerate fetches rates from the keyless exchangerate-api.com v4 endpoint
package exchangerate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/robotomize/gocyconv/provider/httputil"
)

const hostname = "api.exchangerate-api.com"

const latestRawPath = "/v4/latest"

var defaultLatestResource = url.URL{Scheme: "https", Host: hostname, Path: latestRawPath}

var _ provider.Source = (*source)(nil)

// NewSource returns a source bound to the public endpoint
func NewSource(client *http.Client) *source {
	return NewSourceWithURL(client, defaultLatestResource)
}

// NewSourceWithURL returns a source bound to a custom endpoint, the base symbol is appended to its path
func NewSourceWithURL(client *http.Client, u url.URL) *source {
	return &source{
		latestURL:        u,
		SourceHTTPClient: httputil.NewHTTPClient(client),
	}
}

type source struct {
	latestURL url.URL
	httputil.SourceHTTPClient
}

func (s *source) FetchLatest(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
	u := s.latestURL
	u.Path = path.Join(u.Path, base.String())

	b, err := s.Get(ctx, u)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("fetching: %w", err)
	}

	table, err := decodeJSON(b)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("decode: %w", err)
	}

	if table.Base != base {
		return table.Rebase(base)
	}

	return table, nil
}
