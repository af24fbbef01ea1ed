package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"jobscout-engine/internal/source"
)

// Client is an HTTP fetcher bound to one portal's rate limits. Every portal
// gets its own Client so a slow or strict portal never blocks faster ones.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	slots      *semaphore.Weighted
	headers    map[string]string
}

// Option customizes a Client.
type Option func(*Client)

// WithHeader adds a header to every request the client makes.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a fetcher that honors the portal's minimum inter-request
// delay and maximum in-flight request count.
func NewClient(userAgent string, timeout, minDelay time.Duration, maxConcurrent int, opts ...Option) *Client {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		slots:      semaphore.NewWeighted(int64(maxConcurrent)),
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL and returns the response body. Failures come back as
// *source.Error so callers can branch on the kind.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.slots.Acquire(ctx, 1); err != nil {
		return nil, source.NewError(source.KindTimeout, err)
	}
	defer c.slots.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, source.NewError(source.KindTimeout, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, source.NewError(source.KindNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, source.NewError(source.KindOf(err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, source.NewError(source.KindNetwork, err)
	}

	if kind, bad := classifyStatus(resp.StatusCode, body); bad {
		return nil, source.Errorf(kind, "unexpected status %d from %s", resp.StatusCode, url)
	}

	return body, nil
}

// GetJSON fetches a URL and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return source.NewError(source.KindParseFailure, fmt.Errorf("decoding response from %s: %w", url, err))
	}
	return nil
}

// classifyStatus maps an HTTP status to a source error kind. 403/401 and
// challenge pages are treated as Blocked, which is sticky for the run.
func classifyStatus(status int, body []byte) (source.ErrorKind, bool) {
	switch {
	case status >= 200 && status < 300:
		if looksLikeChallenge(body) {
			return source.KindBlocked, true
		}
		return "", false
	case status == http.StatusTooManyRequests:
		return source.KindRateLimited, true
	case status == http.StatusForbidden, status == http.StatusUnauthorized:
		return source.KindBlocked, true
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return source.KindTimeout, true
	case status >= 500:
		return source.KindNetwork, true
	case status == http.StatusNotFound, status == http.StatusGone:
		return source.KindParseFailure, true
	default:
		return source.KindNetwork, true
	}
}

// looksLikeChallenge sniffs the body for common anti-bot interstitials.
func looksLikeChallenge(body []byte) bool {
	if len(body) == 0 || len(body) > 64<<10 {
		return false
	}
	lower := strings.ToLower(string(body))
	for _, marker := range []string{
		"cf-challenge",
		"captcha-delivery",
		"are you a robot",
		"verify you are human",
		"access denied",
	} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
