package gocyconv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/gocyconv/internal/logging"
	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
	"github.com/robotomize/gocyconv/provider/cae"
	"github.com/robotomize/gocyconv/provider/ecb"
	"github.com/robotomize/gocyconv/provider/exchangerate"
	"github.com/robotomize/gocyconv/provider/ratesapi"
	"github.com/robotomize/gocyconv/provider/rcb"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

var (
	ErrUnknownCurrency = provider.ErrUnknownCurrency
	ErrNetwork         = provider.ErrNetwork
	ErrParse           = provider.ErrParse
	// ErrNoProviders is returned by Refresh when every provider was deleted
	ErrNoProviders = errors.New("no rate providers registered")
)

const (
	// DefaultRequestTimeout bounds all attempts of one provider
	DefaultRequestTimeout = 10 * time.Second
	// DefaultRetryNum no retries, a provider is asked once per refresh
	DefaultRetryNum = 0
	// DefaultRetryDuration constant pause between attempts
	DefaultRetryDuration = 5 * time.Second
	// DefaultBase currency the rates are expressed against
	DefaultBase = label.USD
)

const (
	// ProviderNameExchangeRate source name for the keyless exchangerate-api.com endpoint
	ProviderNameExchangeRate = "exchangerate"
	// ProviderNameRatesAPI source name for exchangeratesapi.io, requires an api key
	ProviderNameRatesAPI = "ratesapi"
	// ProviderNameECB source name for European central bank
	ProviderNameECB = "ecb"
	// ProviderNameRCB source name for the Russia central bank
	ProviderNameRCB = "rcb"
	// ProviderNameCAE source name for the UAE central bank
	ProviderNameCAE = "cae"
)

const refreshKey = "refresh"

// Option configures a Store created by New
type Option func(*Store)

// Options of the store. Options are applied before the built-in providers are registered,
// so the key, endpoint and fallback settings decide which providers exist
type Options struct {
	Base           label.Symbol
	APIKey         string
	Endpoint       *url.URL
	Fallback       bool
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

// Prior is the provider priority, providers with a higher value are asked first.
// Providers with equal priority keep the order of registration
type Prior int32

// Provider is a named Source with its priority
type Provider struct {
	name  string
	prior Prior
	provider.Source
}

// WithBase set the currency all fetched rates are expressed against
func WithBase(base label.Symbol) Option {
	return func(s *Store) {
		s.opts.Base = base
	}
}

// WithAPIKey registers the exchangeratesapi.io source with the given access key. It takes precedence
// over the keyless source
func WithAPIKey(key string) Option {
	return func(s *Store) {
		s.opts.APIKey = key
	}
}

// WithEndpoint replace the URL of the keyless source
func WithEndpoint(u url.URL) Option {
	return func(s *Store) {
		s.opts.Endpoint = &u
	}
}

// WithFallbackSources registers the central bank sources. They are asked only when the json sources fail
func WithFallbackSources() Option {
	return func(s *Store) {
		s.opts.Fallback = true
	}
}

// WithRetryNum set number of repeated requests for data retrieval errors from the source
func WithRetryNum(n uint64) Option {
	return func(s *Store) {
		s.opts.RetryNum = n
	}
}

// WithRetryDuration constant retry backoff
func WithRetryDuration(t time.Duration) Option {
	return func(s *Store) {
		s.opts.RetryDuration = t
	}
}

// WithRequestTimeout set a timeout for source requests
func WithRequestTimeout(t time.Duration) Option {
	return func(s *Store) {
		s.opts.RequestTimeout = t
	}
}

// New return a rate store. Nothing is fetched until Latest or Refresh is called
func New(client *http.Client, opts ...Option) *Store {
	s := &Store{
		opts: Options{
			Base:           DefaultBase,
			RetryNum:       DefaultRetryNum,
			RetryDuration:  DefaultRetryDuration,
			RequestTimeout: DefaultRequestTimeout,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	keyless := exchangerate.NewSource(client)
	if s.opts.Endpoint != nil {
		keyless = exchangerate.NewSourceWithURL(client, *s.opts.Endpoint)
	}

	s.providers = append(s.providers, &Provider{
		name:   ProviderNameExchangeRate,
		prior:  2,
		Source: keyless,
	})

	if s.opts.APIKey != "" {
		s.providers = append(s.providers, &Provider{
			name:   ProviderNameRatesAPI,
			prior:  3,
			Source: ratesapi.NewSource(client, s.opts.APIKey),
		})
	}

	if s.opts.Fallback {
		s.providers = append(s.providers,
			&Provider{name: ProviderNameECB, prior: 1, Source: ecb.NewSource(client)},
			&Provider{name: ProviderNameRCB, prior: 0, Source: rcb.NewSource(client)},
			&Provider{name: ProviderNameCAE, prior: 0, Source: cae.NewSource(client)},
		)
	}

	s.sortProviders()

	return s
}

// Store keeps the rate table of the session. The table is fetched once and replaced wholesale on refresh
type Store struct {
	opts Options

	mtx       sync.RWMutex
	providers []*Provider
	table     provider.RateTable
	source    string

	group singleflight.Group
	busy  atomic.Bool
}

// Base returns the currency the store asks its sources for
func (s *Store) Base() label.Symbol {
	return s.opts.Base
}

// Busy reports whether a fetch is in flight
func (s *Store) Busy() bool {
	return s.busy.Load()
}

// Table returns the loaded rate table and false when nothing is loaded yet
func (s *Store) Table() (provider.RateTable, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.table, !s.table.IsZero()
}

// Source returns the name of the provider the loaded table came from
func (s *Store) Source() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.source
}

// Latest returns the loaded table, fetching it when the store is empty
func (s *Store) Latest(ctx context.Context) (provider.RateTable, error) {
	if table, ok := s.Table(); ok {
		return table, nil
	}

	return s.Refresh(ctx)
}

// Refresh fetches a new table and replaces the loaded one. Providers are asked in priority order until one
// succeeds. Concurrent calls share a single request, a caller whose ctx is done stops waiting for it
// while the request keeps running for the others. On failure the loaded table is kept and
// the errors of every provider are returned
func (s *Store) Refresh(ctx context.Context) (provider.RateTable, error) {
	// the shared fetch outlives the caller that started it, RequestTimeout bounds it
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		s.busy.Store(true)
		defer s.busy.Store(false)

		return s.refresh(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return provider.RateTable{}, fmt.Errorf("%w: %w", provider.ErrNetwork, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return provider.RateTable{}, res.Err
		}

		return res.Val.(provider.RateTable), nil
	}
}

// Currencies returns the currencies of the loaded table sorted by symbol
func (s *Store) Currencies() []label.Currency {
	table, ok := s.Table()
	if !ok {
		return nil
	}

	symbols := table.Symbols()
	list := make([]label.Currency, len(symbols))
	for i, symbol := range symbols {
		list[i] = label.Lookup(symbol)
	}

	return list
}

type ConvOpt struct {
	From  label.Symbol
	To    label.Symbol
	Value float64
}

// Convert returns an object with currency conversion data. Rates are fetched when the store is empty
//
//	ctx := context.Background()
//	s := gocyconv.New(http.DefaultClient)
//	resp, err := s.Convert(ctx, gocyconv.ConvOpt{From: label.EUR, To: label.USD, Value: 10})
func (s *Store) Convert(ctx context.Context, param ConvOpt) (ConversionResponse, error) {
	table, err := s.Latest(ctx)
	if err != nil {
		return ConversionResponse{}, fmt.Errorf("latest rates: %w", err)
	}

	amount, err := Convert(param.Value, param.From, param.To, table)
	if err != nil {
		return ConversionResponse{}, err
	}

	rate, err := Convert(1, param.From, param.To, table)
	if err != nil {
		return ConversionResponse{}, err
	}

	return ConversionResponse{
		Date:   table.Time,
		Value:  param.Value,
		From:   label.Lookup(param.From),
		To:     label.Lookup(param.To),
		Rate:   rate,
		Amount: amount,
		Source: s.Source(),
	}, nil
}

// Delete providers by name
func (s *Store) Delete(names ...string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, name := range names {
		for idx, source := range s.providers {
			if source.name == name {
				s.providers = append(s.providers[:idx], s.providers[idx+1:]...)
				break
			}
		}
	}
}

// ChangePrior change provider priority
func (s *Store) ChangePrior(name string, prior Prior) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, p := range s.providers {
		if p.name == name {
			p.prior = prior
		}
	}

	s.sortProviders()
}

// Register allows you to add your own provider of exchange rate data
func (s *Store) Register(name string, source provider.Source, prior Prior) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.providers = append(s.providers, &Provider{
		name:   name,
		Source: source,
		prior:  prior,
	})

	s.sortProviders()
}

// Providers returns provider names in the order they are asked
func (s *Store) Providers() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.name
	}

	return names
}

func (s *Store) sortProviders() {
	sort.SliceStable(s.providers, func(i, j int) bool {
		return s.providers[i].prior > s.providers[j].prior
	})
}

func (s *Store) refresh(ctx context.Context) (provider.RateTable, error) {
	logger := logging.FromContext(ctx)

	s.mtx.RLock()
	providers := make([]*Provider, len(s.providers))
	copy(providers, s.providers)
	s.mtx.RUnlock()

	if len(providers) == 0 {
		return provider.RateTable{}, ErrNoProviders
	}

	var merr *multierror.Error
	for _, p := range providers {
		table, err := s.fetch(ctx, p)
		if err != nil {
			logger.Printf("provider %s: %v", p.name, err)
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", p.name, err))

			continue
		}

		s.mtx.Lock()
		s.table = table
		s.source = p.name
		s.mtx.Unlock()

		logger.Printf("rates loaded from %s: %d currencies against %s", p.name, table.Len(), table.Base)

		return table, nil
	}

	return provider.RateTable{}, merr.ErrorOrNil()
}

func (s *Store) fetch(ctx context.Context, p *Provider) (provider.RateTable, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	b, err := retry.NewConstant(s.opts.RetryDuration)
	if err != nil {
		return provider.RateTable{}, fmt.Errorf("retry backoff: %w", err)
	}

	b = retry.WithMaxRetries(s.opts.RetryNum, b)

	var table provider.RateTable
	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		latest, err := p.FetchLatest(ctx, s.opts.Base)
		if err != nil {
			if errors.Is(err, provider.ErrNetwork) {
				return retry.RetryableError(fmt.Errorf("fetch latest: %w", err))
			}

			return fmt.Errorf("fetch latest: %w", err)
		}

		table = latest

		return nil
	}); err != nil {
		if !errors.Is(err, provider.ErrNetwork) && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return provider.RateTable{}, fmt.Errorf("%w: %w", provider.ErrNetwork, err)
		}

		return provider.RateTable{}, err
	}

	if table.IsZero() {
		return provider.RateTable{}, fmt.Errorf("%w: empty rate table", provider.ErrParse)
	}

	if table.Base != s.opts.Base {
		return table.Rebase(s.opts.Base)
	}

	return table, nil
}
