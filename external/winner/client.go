package winner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/courtsync/courtsync/internal/domain/rawcache"
	"github.com/courtsync/courtsync/internal/platform/logging"
	"github.com/courtsync/courtsync/internal/platform/ratelimit"
	"github.com/courtsync/courtsync/internal/platform/resilience"
	"github.com/courtsync/courtsync/internal/usecase"
)

// Source is the provider key this package writes under.
const Source = "winner"

const (
	defaultAPIBaseURL    = "https://basket.co.il/ajax"
	defaultScrapeBaseURL = "https://basket.co.il"
	maxBodyBytes         = 8 << 20
	bodySnippetBytes     = 512
)

// Resource types used as raw-cache keys.
const (
	resourceAllGames = "games_all"
	resourceBoxscore = "boxscore"
	resourcePBP      = "pbp"
	resourcePage     = "page"
)

// errWinnerTransient marks connection-level failures as retryable by
// chaining them onto the source error base.
var errWinnerTransient = crerr.Wrap(usecase.ErrSource, "winner transient failure")

type ClientConfig struct {
	HTTPClient    *http.Client
	APIBaseURL    string
	ScrapeBaseURL string
	Timeout       time.Duration
	MaxRetries    int
	BackoffBase   time.Duration
	BackoffMax    time.Duration
	APILimiter    *ratelimit.Limiter
	ScrapeLimiter *ratelimit.Limiter
	Cache         *usecase.FetchCache
	Breaker       resilience.BreakerConfig
	Logger        *logging.Logger
}

// Client wraps the league's JSON endpoints and HTML pages behind the
// rate-limit, retry, and cache-through contract.
type Client struct {
	httpClient     *http.Client
	apiBaseURL     string
	scrapeBaseURL  string
	timeout        time.Duration
	maxRetries     int
	backoffBase    time.Duration
	backoffMax     time.Duration
	apiLimiter     *ratelimit.Limiter
	scrapeLimiter  *ratelimit.Limiter
	cache          *usecase.FetchCache
	breaker        *resilience.Breaker
	breakerEnabled bool
	flight         resilience.Group[rawcache.CacheResult]
	logger         *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	apiBase := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}
	scrapeBase := strings.TrimRight(strings.TrimSpace(cfg.ScrapeBaseURL), "/")
	if scrapeBase == "" {
		scrapeBase = defaultScrapeBaseURL
	}

	apiLimiter := cfg.APILimiter
	if apiLimiter == nil {
		apiLimiter = ratelimit.NewLimiter(2, 2)
	}
	scrapeLimiter := cfg.ScrapeLimiter
	if scrapeLimiter == nil {
		scrapeLimiter = ratelimit.NewLimiter(0.5, 1)
	}

	breakerCfg := resilience.NormalizeBreakerConfig(cfg.Breaker)
	return &Client{
		httpClient:     httpClient,
		apiBaseURL:     apiBase,
		scrapeBaseURL:  scrapeBase,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		backoffBase:    cfg.BackoffBase,
		backoffMax:     cfg.BackoffMax,
		apiLimiter:     apiLimiter,
		scrapeLimiter:  scrapeLimiter,
		cache:          cfg.Cache,
		breaker:        resilience.NewBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
		logger:         logger.Named("winner_client"),
	}
}

// FetchAllGames returns the season-wide games dump the league publishes
// as one JSON document.
func (c *Client) FetchAllGames(ctx context.Context, force bool) (rawcache.CacheResult, error) {
	return c.fetchThrough(ctx, c.apiLimiter, resourceAllGames, "all", c.apiBaseURL+"/games_all.json", force)
}

func (c *Client) FetchBoxscore(ctx context.Context, gameID string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.apiBaseURL + "/get_team_score.php?game_id=" + url.QueryEscape(gameID)
	return c.fetchThrough(ctx, c.apiLimiter, resourceBoxscore, gameID, endpoint, force)
}

func (c *Client) FetchPBP(ctx context.Context, gameID string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.apiBaseURL + "/get_team_action.php?game_id=" + url.QueryEscape(gameID)
	return c.fetchThrough(ctx, c.apiLimiter, resourcePBP, gameID, endpoint, force)
}

// FetchPage fetches an HTML page with the English language toggle applied.
func (c *Client) FetchPage(ctx context.Context, path, resourceID string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.scrapeBaseURL + path
	if strings.Contains(endpoint, "?") {
		endpoint += "&lang=en"
	} else {
		endpoint += "?lang=en"
	}
	return c.fetchThrough(ctx, c.scrapeLimiter, resourcePage, resourceID, endpoint, force)
}

// fetchThrough applies the client contract: cached short-circuit unless
// forced, breaker check, rate limit, retrying request, cache write.
func (c *Client) fetchThrough(ctx context.Context, limiter *ratelimit.Limiter, resourceType, resourceID, endpoint string, force bool) (rawcache.CacheResult, error) {
	if !force {
		cached, err := c.cache.Read(ctx, Source, resourceType, resourceID)
		if err != nil {
			return rawcache.CacheResult{}, err
		}
		if cached != nil {
			return *cached, nil
		}
	}

	key := resourceType + "/" + resourceID
	result, err, _ := c.flight.Do(key, func() (rawcache.CacheResult, error) {
		if c.breakerEnabled {
			if err := c.breaker.Allow(); err != nil {
				return rawcache.CacheResult{}, fmt.Errorf("%w: winner provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		body, status, err := c.executeRequest(ctx, limiter, endpoint)
		if c.breakerEnabled {
			if err != nil && usecase.IsRetryable(err) {
				c.breaker.Failure()
			} else {
				c.breaker.Success()
			}
		}
		if err != nil {
			return rawcache.CacheResult{}, err
		}

		return c.cache.Write(ctx, Source, resourceType, resourceID, body, &status)
	})
	return result, err
}

func (c *Client) executeRequest(ctx context.Context, limiter *ratelimit.Limiter, endpoint string) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Waiting for a rate slot is bounded by the request timeout;
		// a longer queue surfaces as a rate-limit error instead.
		if !limiter.AcquireTimeout(ctx, c.timeout) {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			return nil, 0, &usecase.RateLimitError{Source: Source, RetryAfter: limiter.WaitTime()}
		}

		body, status, retryAfter, err := c.doRequest(ctx, endpoint)
		if err == nil {
			return body, status, nil
		}
		if !usecase.IsRetryable(err) {
			return nil, 0, err
		}
		lastErr = err

		if attempt == c.maxRetries {
			break
		}
		delay := ratelimit.Backoff(attempt, c.backoffBase, c.backoffMax, true)
		if retryAfter > 0 {
			delay = retryAfter
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, 0, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "winner request exhausted retries", "url", endpoint, "error", lastErr)
	return nil, 0, lastErr
}

// doRequest performs one attempt and classifies the outcome into the
// source error taxonomy. retryAfter is non-zero only on a 429 carrying a
// Retry-After header.
func (c *Client) doRequest(ctx context.Context, endpoint string) (body []byte, status int, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json, text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, 0, ctx.Err()
		}
		if isTimeout(err) {
			return nil, 0, 0, &usecase.TimeoutError{Source: Source, Timeout: c.timeout, URL: endpoint}
		}
		return nil, 0, 0, fmt.Errorf("%w: send request: %v", errWinnerTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		return nil, 0, 0, fmt.Errorf("%w: read response body: %v", errWinnerTransient, readErr)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		after := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, 0, after, &usecase.RateLimitError{Source: Source, RetryAfter: after}
	case resp.StatusCode >= 400:
		return nil, 0, 0, &usecase.APIError{
			Source:     Source,
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Body:       abbreviateBody(raw),
		}
	}
	return raw, resp.StatusCode, 0, nil
}

func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return crerr.As(err, &timeoutErr) && timeoutErr.Timeout()
}

func abbreviateBody(raw []byte) string {
	if len(raw) <= bodySnippetBytes {
		return string(raw)
	}
	return string(raw[:bodySnippetBytes]) + "..."
}
