package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	apperrors "github.com/volwatch/go-volatility/internal/errors"
	"github.com/volwatch/go-volatility/internal/interval"
	"github.com/volwatch/go-volatility/internal/models"
)

const (
	// Binance spot API base URL
	binanceBaseURL = "https://api.binance.com"

	// API endpoints
	klinesEndpoint = "/api/v3/klines"
	pingEndpoint   = "/api/v3/ping"

	// apiKeyHeader carries the API key; the adapter never inspects the value.
	apiKeyHeader = "X-MBX-APIKEY"

	// Rate limiting configuration
	defaultRequestsPerSecond = 10
	rateLimitBurst           = 1
	rateLimitWindow          = time.Second

	// Request configuration
	maxKlinesPerRequest = 1000
	requestTimeout      = 30 * time.Second

	// Retry configuration
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 30 * time.Second
	retryMultiplier   = 2.0
	retryJitter       = 0.5

	// Health check configuration
	healthCheckTimeout = 5 * time.Second
)

// Credentials is the opaque API key/secret pair forwarded to the exchange.
// The adapter never validates or interprets the contents.
type Credentials struct {
	APIKey    string
	APISecret string
}

// BinanceAdapter implements the Adapter interface against the Binance spot API.
type BinanceAdapter struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	credentials Credentials
	logger      *slog.Logger
}

// BinanceOption customizes a BinanceAdapter.
type BinanceOption func(*BinanceAdapter)

// WithBaseURL overrides the API base URL. Used for tests and proxies.
func WithBaseURL(baseURL string) BinanceOption {
	return func(b *BinanceAdapter) { b.baseURL = baseURL }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) BinanceOption {
	return func(b *BinanceAdapter) { b.logger = logger }
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(requestsPerSecond int) BinanceOption {
	return func(b *BinanceAdapter) {
		b.rateLimiter = rate.NewLimiter(rate.Limit(requestsPerSecond), rateLimitBurst)
	}
}

// NewBinanceAdapter creates a Binance adapter. Credentials are passed through
// opaquely on every request when set; the klines endpoint also works without
// them.
func NewBinanceAdapter(creds Credentials, opts ...BinanceOption) *BinanceAdapter {
	adapter := &BinanceAdapter{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		rateLimiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), rateLimitBurst),
		baseURL:     binanceBaseURL,
		credentials: creds,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// FetchCandles implements the CandleFetcher interface. Large time ranges are
// split into chunks that respect the exchange's per-request kline cap, and
// transient failures are retried with exponential backoff. All failures come
// back as a DataSourceError carrying the symbol, interval, and window.
func (b *BinanceAdapter) FetchCandles(ctx context.Context, req FetchRequest) (*FetchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	intervalDuration, err := interval.ParseInterval(req.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	b.logger.Debug("fetching klines",
		"symbol", req.Symbol,
		"start", req.Start,
		"end", req.End,
		"interval", req.Interval)

	chunks := b.calculateChunks(req.Start, req.End, intervalDuration, req.Limit)

	allKlines := make([]models.Kline, 0)
	for i, chunk := range chunks {
		if err := b.WaitForLimit(ctx); err != nil {
			return nil, apperrors.NewDataSourceError(req.Symbol, req.Interval, req.Duration(),
				fmt.Errorf("rate limit wait failed: %w", err))
		}

		klines, err := b.fetchKlineChunk(ctx, req.Symbol, req.Interval, chunk.start, chunk.end)
		if err != nil {
			return nil, apperrors.NewDataSourceError(req.Symbol, req.Interval, req.Duration(),
				fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err))
		}
		allKlines = append(allKlines, klines...)

		if req.Limit > 0 && len(allKlines) >= req.Limit {
			allKlines = allKlines[:req.Limit]
			break
		}
	}

	b.logger.Debug("fetched klines", "symbol", req.Symbol, "count", len(allKlines))

	return &FetchResponse{
		Klines:    allKlines,
		RateLimit: b.rateLimitStatus(),
	}, nil
}

// GetLimits implements the RateLimitInfo interface.
func (b *BinanceAdapter) GetLimits() RateLimit {
	return RateLimit{
		RequestsPerSecond: int(b.rateLimiter.Limit()),
		BurstSize:         rateLimitBurst,
		WindowDuration:    rateLimitWindow,
	}
}

// WaitForLimit implements the RateLimitInfo interface.
func (b *BinanceAdapter) WaitForLimit(ctx context.Context) error {
	return b.rateLimiter.Wait(ctx)
}

// HealthCheck implements the HealthChecker interface using the unauthenticated
// ping endpoint.
func (b *BinanceAdapter) HealthCheck(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(healthCtx, http.MethodGet, b.baseURL+pingEndpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}

	b.logger.Debug("health check passed")
	return nil
}

type timeChunk struct {
	start time.Time
	end   time.Time
}

// calculateChunks splits the requested window so no single request asks for
// more than the exchange's per-request kline cap.
func (b *BinanceAdapter) calculateChunks(start, end time.Time, intervalDuration time.Duration, limit int) []timeChunk {
	totalKlines := int(end.Sub(start) / intervalDuration)
	if limit > 0 && totalKlines > limit {
		end = start.Add(time.Duration(limit) * intervalDuration)
		totalKlines = limit
	}

	if totalKlines <= maxKlinesPerRequest {
		return []timeChunk{{start: start, end: end}}
	}

	chunkDuration := time.Duration(maxKlinesPerRequest) * intervalDuration
	chunks := make([]timeChunk, 0, totalKlines/maxKlinesPerRequest+1)

	for current := start; current.Before(end); {
		chunkEnd := current.Add(chunkDuration)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, timeChunk{start: current, end: chunkEnd})
		current = chunkEnd
	}
	return chunks
}

// fetchKlineChunk requests one chunk of klines from the API.
func (b *BinanceAdapter) fetchKlineChunk(ctx context.Context, symbol, klineInterval string, start, end time.Time) ([]models.Kline, error) {
	params := url.Values{}
	params.Add("symbol", symbol)
	params.Add("interval", klineInterval)
	params.Add("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	params.Add("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	params.Add("limit", strconv.Itoa(maxKlinesPerRequest))

	body, err := b.makeRequestWithRetry(ctx, b.baseURL+klinesEndpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var klines []models.Kline
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, fmt.Errorf("failed to parse klines response: %w", err)
	}
	return klines, nil
}

// makeRequestWithRetry performs a GET with exponential backoff. Rate limit
// and server errors are retried; other client errors are permanent.
func (b *BinanceAdapter) makeRequestWithRetry(ctx context.Context, requestURL string) ([]byte, error) {
	backoffConfig := backoff.NewExponentialBackOff()
	backoffConfig.InitialInterval = initialRetryDelay
	backoffConfig.MaxInterval = maxRetryDelay
	backoffConfig.Multiplier = retryMultiplier
	backoffConfig.RandomizationFactor = retryJitter
	backoffConfig.MaxElapsedTime = 0 // rely on the context for the overall deadline

	var responseBody []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "go-volatility/1.0")
		if b.credentials.APIKey != "" {
			req.Header.Set(apiKeyHeader, b.credentials.APIKey)
		}

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if retryAfter := parseRetryAfter(resp.Header.Get("Retry-After")); retryAfter > 0 {
				b.logger.Warn("rate limited, waiting", "retry_after", retryAfter)
				select {
				case <-time.After(retryAfter):
				case <-ctx.Done():
					return backoff.Permanent(ctx.Err())
				}
			}
			return fmt.Errorf("rate limit exceeded")
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("client error %d: %s", resp.StatusCode, string(body)))
		}

		responseBody = body
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoffConfig, ctx)); err != nil {
		return nil, err
	}
	return responseBody, nil
}

// parseRetryAfter interprets a Retry-After header as seconds or an HTTP date.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := time.Parse(time.RFC1123, header); err == nil {
		return time.Until(t)
	}
	return 0
}

// rateLimitStatus estimates the limiter's current state.
func (b *BinanceAdapter) rateLimitStatus() RateLimitStatus {
	tokens := int(b.rateLimiter.Tokens())
	if tokens < 0 {
		tokens = 0
	}

	reservation := b.rateLimiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	return RateLimitStatus{
		Remaining:  tokens,
		ResetTime:  time.Now().Add(rateLimitWindow),
		RetryAfter: delay,
	}
}
