package httputil

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robotomize/gocyconv/provider"
)

const defaultUserAgent = "gocyconv/0.1.0"

// rate feeds are a few kilobytes, anything above is not a rate feed
const maxBodySize = 4 << 20

var (
	ErrStatusCode   = errors.New("http status != 200")
	ErrBodyTooLarge = errors.New("response body too large")
)

// DefaultSourceHTTPClient return preconfigured HTTP client
func DefaultSourceHTTPClient() SourceHTTPClient {
	return SourceHTTPClient{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConnsPerHost:   2,
				DisableCompression:    true,
				IdleConnTimeout:       time.Minute,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
			},
		},
	}
}

// NewHTTPClient wraps client, a nil client falls back to DefaultSourceHTTPClient
func NewHTTPClient(client *http.Client) SourceHTTPClient {
	if client == nil {
		return DefaultSourceHTTPClient()
	}

	return SourceHTTPClient{client: client}
}

// SourceHTTPClient is embedded by the rate sources
type SourceHTTPClient struct {
	client *http.Client
}

func (f SourceHTTPClient) UserAgent() string {
	return defaultUserAgent
}

// Get performs a GET of u and returns the whole decoded body. Every failure, including a body cut
// short by the peer, is wrapped with provider.ErrNetwork
func (f SourceHTTPClient) Get(ctx context.Context, u url.URL) ([]byte, error) {
	b, err := f.fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrNetwork, err)
	}

	return b, nil
}

func (f SourceHTTPClient) fetch(ctx context.Context, u url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: %w", u.Host, resp.Status, ErrStatusCode)
	}

	return readBody(resp)
}

func readBody(resp *http.Response) ([]byte, error) {
	var body io.Reader = resp.Body
	if isGzip(resp.Header) {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	b, err := io.ReadAll(io.LimitReader(body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if len(b) > maxBodySize {
		return nil, fmt.Errorf("read body: %w", ErrBodyTooLarge)
	}

	return b, nil
}

func isGzip(h http.Header) bool {
	return strings.Contains(h.Get("Content-Encoding"), "gzip") ||
		strings.Contains(h.Get("Content-Type"), "application/x-gzip")
}
