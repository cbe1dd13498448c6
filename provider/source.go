package provider

import (
	"context"

	"github.com/robotomize/gocyconv/label"
)

// Source is an interface for getting data from external sources. Source takes care of receiving data
// and giving back a rate table relative to the requested base currency
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type Source interface {
	// FetchLatest performs one request for the latest rates of base
	FetchLatest(ctx context.Context, base label.Symbol) (RateTable, error)
}
