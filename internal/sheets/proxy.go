package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

const maxResponseBytes = 16 << 20

// ProxyFetcher reads sheets through the Apps Script JSON proxy. The endpoint
// receives the sheet URL as the `url` query parameter and answers with the
// sheet's cell grid as a JSON array of rows.
type ProxyFetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
	endpoint string
}

// ProxyOption configures a ProxyFetcher.
type ProxyOption func(*ProxyFetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ProxyOption {
	return func(f *ProxyFetcher) {
		f.client = client
	}
}

// NewProxyFetcher creates a fetcher for the configured proxy endpoint.
func NewProxyFetcher(config Config, logger *slog.Logger, opts ...ProxyOption) (*ProxyFetcher, error) {
	if config.ProxyEndpoint == "" {
		return nil, fmt.Errorf("proxy endpoint cannot be empty")
	}
	if _, err := url.Parse(config.ProxyEndpoint); err != nil {
		return nil, fmt.Errorf("invalid proxy endpoint: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &ProxyFetcher{
		endpoint: config.ProxyEndpoint,
		client:   &http.Client{Timeout: config.Timeout},
		logger:   logger,
	}
	if config.RequestsPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// Fetch retrieves the sheet at sourceURL and validates the response shape.
func (f *ProxyFetcher) Fetch(ctx context.Context, sourceURL string) (model.RawTable, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
		}
	}

	requestURL, err := f.requestURL(sourceURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	f.logger.Debug("fetched sheet",
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, body)
	}

	decoded := Decode(body)
	if err := decoded.Err(); err != nil {
		return nil, err
	}
	return decoded.Table, nil
}

func (f *ProxyFetcher) requestURL(sourceURL string) (string, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid proxy endpoint: %w", err)
	}
	q := u.Query()
	q.Set("url", sourceURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
