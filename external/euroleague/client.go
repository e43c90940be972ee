package euroleague

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
const Source = "euroleague"

const (
	defaultBaseURL   = "https://api-live.euroleague.net"
	maxBodyBytes     = 8 << 20
	bodySnippetBytes = 512
)

// Resource types used as raw-cache keys.
const (
	resourceTeams    = "teams"
	resourcePlayer   = "player"
	resourceSchedule = "schedule"
	resourceBoxscore = "boxscore"
	resourcePBP      = "pbp"
	resourceHeader   = "header"
)

var errEuroleagueTransient = crerr.Wrap(usecase.ErrSource, "euroleague transient failure")

type ClientConfig struct {
	HTTPClient  *http.Client
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	Limiter     *ratelimit.Limiter
	Cache       *usecase.FetchCache
	Breaker     resilience.BreakerConfig
	Logger      *logging.Logger
}

// Client wraps the competition's XML feeds and live JSON endpoints
// behind the rate-limit, retry, and cache-through contract. XML payloads
// are cached as the exact bytes served so the content hash is stable.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	backoffBase    time.Duration
	backoffMax     time.Duration
	limiter        *ratelimit.Limiter
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

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(2, 2)
	}

	breakerCfg := resilience.NormalizeBreakerConfig(cfg.Breaker)
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		backoffBase:    cfg.BackoffBase,
		backoffMax:     cfg.BackoffMax,
		limiter:        limiter,
		cache:          cfg.Cache,
		breaker:        resilience.NewBreaker(breakerCfg),
		breakerEnabled: breakerCfg.Enabled,
		logger:         logger.Named("euroleague_client"),
	}
}

func (c *Client) FetchTeams(ctx context.Context, seasonCode string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.baseURL + "/v1/teams?seasonCode=" + url.QueryEscape(seasonCode)
	return c.fetchThrough(ctx, resourceTeams, seasonCode, endpoint, force)
}

func (c *Client) FetchPlayer(ctx context.Context, playerCode, seasonCode string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.baseURL + "/v1/players?playerCode=" + url.QueryEscape(playerCode) +
		"&seasonCode=" + url.QueryEscape(seasonCode)
	return c.fetchThrough(ctx, resourcePlayer, seasonCode+"/"+playerCode, endpoint, force)
}

func (c *Client) FetchSchedule(ctx context.Context, seasonCode string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.baseURL + "/v1/schedules?seasonCode=" + url.QueryEscape(seasonCode)
	return c.fetchThrough(ctx, resourceSchedule, seasonCode, endpoint, force)
}

func (c *Client) FetchBoxscore(ctx context.Context, seasonCode, gameCode string, force bool) (rawcache.CacheResult, error) {
	return c.fetchLive(ctx, resourceBoxscore, "Boxscore", seasonCode, gameCode, force)
}

func (c *Client) FetchPBP(ctx context.Context, seasonCode, gameCode string, force bool) (rawcache.CacheResult, error) {
	return c.fetchLive(ctx, resourcePBP, "PlaybyPlay", seasonCode, gameCode, force)
}

func (c *Client) FetchHeader(ctx context.Context, seasonCode, gameCode string, force bool) (rawcache.CacheResult, error) {
	return c.fetchLive(ctx, resourceHeader, "Header", seasonCode, gameCode, force)
}

func (c *Client) fetchLive(ctx context.Context, resourceType, liveName, seasonCode, gameCode string, force bool) (rawcache.CacheResult, error) {
	endpoint := c.baseURL + "/api/" + liveName +
		"?gamecode=" + url.QueryEscape(gameCode) +
		"&seasoncode=" + url.QueryEscape(seasonCode)
	return c.fetchThrough(ctx, resourceType, seasonCode+"_"+gameCode, endpoint, force)
}

func (c *Client) fetchThrough(ctx context.Context, resourceType, resourceID, endpoint string, force bool) (rawcache.CacheResult, error) {
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
				return rawcache.CacheResult{}, fmt.Errorf("%w: euroleague provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		body, status, err := c.executeRequest(ctx, endpoint)
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

func (c *Client) executeRequest(ctx context.Context, endpoint string) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Waiting for a rate slot is bounded by the request timeout;
		// a longer queue surfaces as a rate-limit error instead.
		if !c.limiter.AcquireTimeout(ctx, c.timeout) {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			return nil, 0, &usecase.RateLimitError{Source: Source, RetryAfter: c.limiter.WaitTime()}
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

	c.logger.WarnContext(ctx, "euroleague request exhausted retries", "url", endpoint, "error", lastErr)
	return nil, 0, lastErr
}

func (c *Client) doRequest(ctx context.Context, endpoint string) (body []byte, status int, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json, application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, 0, ctx.Err()
		}
		if isTimeout(err) {
			return nil, 0, 0, &usecase.TimeoutError{Source: Source, Timeout: c.timeout, URL: endpoint}
		}
		return nil, 0, 0, fmt.Errorf("%w: send request: %v", errEuroleagueTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		return nil, 0, 0, fmt.Errorf("%w: read response body: %v", errEuroleagueTransient, readErr)
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
