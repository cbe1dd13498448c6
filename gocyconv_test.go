package gocyconv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/gocyconv/internal/logging"
	"github.com/robotomize/gocyconv/label"
	"github.com/robotomize/gocyconv/provider"
)

func testContext(t *testing.T) context.Context {
	t.Helper()

	return logging.WithLogger(context.Background(), logging.Discard())
}

func testTable(t *testing.T, base label.Symbol, rates map[label.Symbol]float64) provider.RateTable {
	t.Helper()

	table, err := provider.NewRateTable(base, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), rates)
	if err != nil {
		t.Fatalf("new rate table: %v", err)
	}

	return table
}

// newTestStore returns a store without built-in providers
func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	s := New(http.DefaultClient, append([]Option{WithRetryDuration(time.Millisecond)}, opts...)...)
	s.Delete(s.Providers()...)

	return s
}

func TestNew_Providers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		opts     []Option
		expected []string
	}{
		{
			name:     "test_default",
			expected: []string{ProviderNameExchangeRate},
		},
		{
			name:     "test_api_key",
			opts:     []Option{WithAPIKey("secret")},
			expected: []string{ProviderNameRatesAPI, ProviderNameExchangeRate},
		},
		{
			name: "test_fallback",
			opts: []Option{WithFallbackSources()},
			expected: []string{
				ProviderNameExchangeRate,
				ProviderNameECB,
				ProviderNameRCB,
				ProviderNameCAE,
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := New(http.DefaultClient, tc.opts...)
			if diff := cmp.Diff(tc.expected, s.Providers()); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestStore_Register(t *testing.T) {
	t.Parallel()

	s := New(http.DefaultClient)
	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)

	s.Register("TestName", source, 5)

	if diff := cmp.Diff([]string{"TestName", ProviderNameExchangeRate}, s.Providers()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		excluded []string
		expected []string
	}{
		{
			name:     "test_without_ecb_cae",
			excluded: []string{ProviderNameECB, ProviderNameCAE},
			expected: []string{ProviderNameExchangeRate, ProviderNameRCB},
		},
		{
			name:     "test_without_nil",
			excluded: nil,
			expected: []string{ProviderNameExchangeRate, ProviderNameECB, ProviderNameRCB, ProviderNameCAE},
		},
		{
			name:     "test_without_all",
			excluded: []string{ProviderNameCAE, ProviderNameECB, ProviderNameRCB, ProviderNameExchangeRate},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := New(http.DefaultClient, WithFallbackSources())
			s.Delete(tc.excluded...)

			if diff := cmp.Diff(tc.expected, s.Providers()); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestStore_ChangePrior(t *testing.T) {
	t.Parallel()

	s := New(http.DefaultClient, WithFallbackSources())
	s.ChangePrior(ProviderNameCAE, 10)

	expected := []string{ProviderNameCAE, ProviderNameExchangeRate, ProviderNameECB, ProviderNameRCB}
	if diff := cmp.Diff(expected, s.Providers()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_Latest(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(table, nil).Times(1)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	if _, ok := s.Table(); ok {
		t.Fatalf("store must be empty before the first fetch")
	}

	for i := 0; i < 3; i++ {
		got, err := s.Latest(ctx)
		if err != nil {
			t.Fatalf("latest: %v", err)
		}

		if diff := cmp.Diff(table.Rates(), got.Rates()); diff != "" {
			t.Errorf("mismatch (-want, +got):\n%s", diff)
		}
	}

	if diff := cmp.Diff("mock", s.Source()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_Refresh(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	first := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8, label.RUB: 90})
	second := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.9})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	gomock.InOrder(
		source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(first, nil),
		source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(second, nil),
	)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	got, ok := s.Table()
	if !ok {
		t.Fatalf("table not loaded")
	}

	if diff := cmp.Diff(second.Rates(), got.Rates()); diff != "" {
		t.Errorf("table must be replaced wholesale (-want, +got):\n%s", diff)
	}
}

func TestStore_RefreshFailureKeepsTable(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	gomock.InOrder(
		source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(table, nil),
		source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(provider.RateTable{}, provider.ErrNetwork),
	)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, err := s.Refresh(ctx); !errors.Is(err, ErrNetwork) {
		t.Fatalf("refresh: want %v, got %v", ErrNetwork, err)
	}

	got, ok := s.Table()
	if !ok {
		t.Fatalf("previous table must be kept")
	}

	if diff := cmp.Diff(table.Rates(), got.Rates()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_RefreshFallback(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8})

	ctrl := gomock.NewController(t)
	primary := provider.NewMockSource(ctrl)
	primary.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(provider.RateTable{}, provider.ErrNetwork)

	secondary := provider.NewMockSource(ctrl)
	secondary.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(table, nil)

	s := newTestStore(t)
	s.Register("secondary", secondary, 1)
	s.Register("primary", primary, 2)

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if diff := cmp.Diff("secondary", s.Source()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_RefreshAggregate(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)

	ctrl := gomock.NewController(t)
	primary := provider.NewMockSource(ctrl)
	primary.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(provider.RateTable{}, provider.ErrNetwork)

	secondary := provider.NewMockSource(ctrl)
	secondary.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(provider.RateTable{}, provider.ErrParse)

	s := newTestStore(t)
	s.Register("primary", primary, 2)
	s.Register("secondary", secondary, 1)

	_, err := s.Refresh(ctx)

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("refresh: want *multierror.Error, got %T", err)
	}

	if diff := cmp.Diff(2, len(merr.WrappedErrors())); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if !errors.Is(err, ErrNetwork) {
		t.Errorf("refresh: want %v in %v", ErrNetwork, err)
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("refresh: want %v in %v", ErrParse, err)
	}

	if _, ok := s.Table(); ok {
		t.Errorf("table must stay empty")
	}
}

func TestStore_RefreshRetry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		err   error
		times int
	}{
		{
			name:  "test_network_retried",
			err:   provider.ErrNetwork,
			times: 3,
		},
		{
			name:  "test_parse_not_retried",
			err:   provider.ErrParse,
			times: 1,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx := testContext(t)
			ctrl := gomock.NewController(t)
			source := provider.NewMockSource(ctrl)
			source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(provider.RateTable{}, tc.err).Times(tc.times)

			s := newTestStore(t, WithRetryNum(2))
			s.Register("mock", source, 1)

			if _, err := s.Refresh(ctx); !errors.Is(err, tc.err) {
				t.Errorf("refresh: want %v, got %v", tc.err, err)
			}
		})
	}
}

func TestStore_RefreshNoProviders(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, err := s.Refresh(testContext(t)); !errors.Is(err, ErrNoProviders) {
		t.Errorf("refresh: want %v, got %v", ErrNoProviders, err)
	}
}

func TestStore_RefreshRebase(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.EUR, map[label.Symbol]float64{label.USD: 1.25})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(table, nil)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	got, err := s.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if diff := cmp.Diff(label.USD, got.Base); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	expected := map[label.Symbol]float64{label.USD: 1, label.EUR: 0.8}
	if diff := cmp.Diff(expected, got.Rates(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_Busy(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8})

	s := newTestStore(t)

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any(), label.USD).DoAndReturn(
		func(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
			if !s.Busy() {
				t.Errorf("store must be busy while fetching")
			}

			return table, nil
		},
	)

	s.Register("mock", source, 1)

	if s.Busy() {
		t.Fatalf("store must be idle before refresh")
	}

	if _, err := s.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if s.Busy() {
		t.Errorf("store must be idle after refresh")
	}
}

func TestStore_Currencies(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.USD, map[label.Symbol]float64{label.RUB: 90, label.EUR: 0.8, "FOK": 7})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(table, nil)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	if got := s.Currencies(); got != nil {
		t.Fatalf("empty store must not list currencies, got %v", got)
	}

	if _, err := s.Latest(ctx); err != nil {
		t.Fatalf("latest: %v", err)
	}

	expected := []label.Currency{
		{Symbol: label.EUR, Name: "Euro"},
		{Symbol: "FOK", Name: "FOK"},
		{Symbol: label.RUB, Name: "Russian Ruble"},
		{Symbol: label.USD, Name: "US Dollar"},
	}
	if diff := cmp.Diff(expected, s.Currencies()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_Convert(t *testing.T) {
	t.Parallel()

	ctx := testContext(t)
	table := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8, label.RUB: 90})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any(), label.USD).Return(table, nil).Times(1)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	testCases := []struct {
		name     string
		param    ConvOpt
		expected ConversionResponse
		err      error
	}{
		{
			name:  "test_usd_eur",
			param: ConvOpt{From: label.USD, To: label.EUR, Value: 100},
			expected: ConversionResponse{
				Date:   table.Time,
				Value:  100,
				From:   label.Lookup(label.USD),
				To:     label.Lookup(label.EUR),
				Rate:   0.8,
				Amount: 80,
				Source: "mock",
			},
		},
		{
			name:  "test_eur_rub",
			param: ConvOpt{From: label.EUR, To: label.RUB, Value: 10},
			expected: ConversionResponse{
				Date:   table.Time,
				Value:  10,
				From:   label.Lookup(label.EUR),
				To:     label.Lookup(label.RUB),
				Rate:   112.5,
				Amount: 1125,
				Source: "mock",
			},
		},
		{
			name:  "test_unknown",
			param: ConvOpt{From: label.USD, To: label.JPY, Value: 1},
			err:   ErrUnknownCurrency,
		},
	}

	// sequential: the first conversion loads the table for the rest
	for _, tc := range testCases {
		got, err := s.Convert(ctx, tc.param)
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s: want error %v, got %v", tc.name, tc.err, err)
		}

		if err != nil {
			continue
		}

		if diff := cmp.Diff(tc.expected, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("%s: mismatch (-want, +got):\n%s", tc.name, diff)
		}
	}
}

func TestStore_MalformedJSON(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v4/latest/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL + "/v4/latest")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	s := New(srv.Client(), WithEndpoint(*u), WithRetryNum(3), WithRetryDuration(time.Millisecond))

	if _, err := s.Latest(testContext(t)); !errors.Is(err, ErrParse) {
		t.Errorf("latest: want %v, got %v", ErrParse, err)
	}

	if _, ok := s.Table(); ok {
		t.Errorf("table must stay empty")
	}
}

func TestStore_Endpoint(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v4/latest/EUR", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-02-24","rates":{"EUR":1,"USD":1.25}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL + "/v4/latest")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	s := New(srv.Client(), WithEndpoint(*u), WithBase(label.EUR))

	resp, err := s.Convert(testContext(t), ConvOpt{From: label.EUR, To: label.USD, Value: 10})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if diff := cmp.Diff("12.50 USD", resp.String()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(ProviderNameExchangeRate, resp.Source); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_RefreshCallerCancelled(t *testing.T) {
	t.Parallel()

	table := testTable(t, label.USD, map[label.Symbol]float64{label.EUR: 0.8})
	started := make(chan struct{})
	release := make(chan struct{})

	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)
	source.EXPECT().FetchLatest(gomock.Any(), label.USD).DoAndReturn(
		func(ctx context.Context, base label.Symbol) (provider.RateTable, error) {
			close(started)
			<-release
			return table, nil
		},
	).Times(1)

	s := newTestStore(t)
	s.Register("mock", source, 1)

	type result struct {
		table provider.RateTable
		err   error
	}

	first := make(chan result, 1)
	go func() {
		got, err := s.Refresh(testContext(t))
		first <- result{table: got, err: err}
	}()

	<-started

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	// joins the in-flight fetch and must not wait for it
	if _, err := s.Refresh(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("refresh: want %v, got %v", context.Canceled, err)
	}

	close(release)

	res := <-first
	if res.err != nil {
		t.Fatalf("refresh: %v", res.err)
	}

	if diff := cmp.Diff(table.Rates(), res.table.Rates()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestStore_RefreshBodyCutShort(t *testing.T) {
	t.Parallel()

	var calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/v4/latest/", func(w http.ResponseWriter, r *http.Request) {
		const latest = `{"base":"USD","date":"2025-02-24","rates":{"USD":1,"EUR":0.8}}`

		if atomic.AddInt32(&calls, 1) > 1 {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(latest))
			return
		}

		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		conn, buf, err := hj.Hijack()
		if err != nil {
			return
		}
		defer conn.Close()

		_, _ = buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 500\r\n\r\n")
		_, _ = buf.WriteString(latest[:20])
		_ = buf.Flush()
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL + "/v4/latest")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	s := New(srv.Client(), WithEndpoint(*u), WithRetryNum(1), WithRetryDuration(time.Millisecond))

	table, err := s.Refresh(testContext(t))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if diff := cmp.Diff(int32(2), atomic.LoadInt32(&calls)); diff != "" {
		t.Errorf("cut short body must be retried (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff(2, table.Len()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}
