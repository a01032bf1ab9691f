// Package nbastats fetches league data from the public stats endpoints. All
// calls go through one client that paces requests sequentially, retries
// transient failures with backoff, and trips a circuit breaker when the
// provider keeps failing.
package nbastats

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/hoopsight/pointcast/internal/platform/logging"
	"github.com/hoopsight/pointcast/internal/platform/resilience"
	"github.com/hoopsight/pointcast/internal/platform/retry"
	"github.com/hoopsight/pointcast/internal/usecase"
)

const (
	defaultStatsBaseURL = "https://stats.nba.com"
	defaultDataBaseURL  = "https://data.nba.com"
	maxResponseBytes    = 16 << 20
)

// The stats endpoints reject requests without browser-looking headers.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	StatsBaseURL   string
	DataBaseURL    string
	Timeout        time.Duration
	MaxRetries     int
	MinInterval    time.Duration // pause between consecutive calls
	MaxJitter      time.Duration // random extra pause
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	statsBaseURL   string
	dataBaseURL    string
	retryCfg       retry.Config
	minInterval    time.Duration
	maxJitter      time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool

	// The pipeline is single-threaded; one call finishes before the next
	// starts, so plain fields are enough for pacing state.
	lastCall time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	statsBaseURL := strings.TrimRight(strings.TrimSpace(cfg.StatsBaseURL), "/")
	if statsBaseURL == "" {
		statsBaseURL = defaultStatsBaseURL
	}
	dataBaseURL := strings.TrimRight(strings.TrimSpace(cfg.DataBaseURL), "/")
	if dataBaseURL == "" {
		dataBaseURL = defaultDataBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	minInterval := cfg.MinInterval
	if minInterval <= 0 {
		minInterval = 600 * time.Millisecond
	}
	maxJitter := cfg.MaxJitter
	if maxJitter < 0 {
		maxJitter = 0
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:   httpClient,
		statsBaseURL: statsBaseURL,
		dataBaseURL:  dataBaseURL,
		retryCfg: retry.Config{
			MaxAttempts: maxRetries + 1,
			BaseDelay:   time.Second,
			MaxJitter:   500 * time.Millisecond,
			Timeout:     httpClient.Timeout,
		},
		minInterval:    minInterval,
		maxJitter:      maxJitter,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) doJSON(ctx context.Context, fullURL string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	if err := c.pace(ctx); err != nil {
		return err
	}

	var raw []byte
	err := retry.Do(ctx, c.retryCfg, func(attemptCtx context.Context) error {
		var reqErr error
		raw, reqErr = c.executeRequest(attemptCtx, fullURL)
		return reqErr
	})
	if c.circuitEnabled {
		if err != nil && retry.IsTransient(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "stats request failed", "url", fullURL, "error", err)
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode stats payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	applyStatsHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.MarkTransient(fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, retry.MarkTransient(fmt.Errorf("read response body: %w", err))
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	statusErr := fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	if isRetryableStatus(resp.StatusCode) {
		return nil, retry.MarkTransient(statusErr)
	}
	return nil, statusErr
}

// pace enforces the sequential request cadence: at least minInterval plus a
// random jitter between consecutive calls.
func (c *Client) pace(ctx context.Context) error {
	if c.lastCall.IsZero() {
		c.lastCall = time.Now()
		return nil
	}

	wait := c.minInterval - time.Since(c.lastCall)
	if c.maxJitter > 0 {
		wait += time.Duration(rand.Int63n(int64(c.maxJitter)))
	}
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	c.lastCall = time.Now()
	return nil
}

func applyStatsHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

// SeasonStartYear extracts the starting calendar year of a season label like
// "2024-25".
func SeasonStartYear(season string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(season), "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1946 {
		return 0, fmt.Errorf("invalid season label %q", season)
	}
	return year, nil
}
