// Package registry looks up the latest package set release on GitHub.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pkgset/internal/build"
	"go.trai.ch/pkgset/internal/core/domain"
	"go.trai.ch/pkgset/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	defaultTimeout = 10 * time.Second
	retryCount     = 1
)

var _ ports.RegistryClient = (*Client)(nil)

// Client implements ports.RegistryClient against the GitHub releases API.
type Client struct {
	api        string
	repo       domain.RepoRef
	token      string
	http       *http.Client
	cache      ports.ReleaseCache
	ttl        time.Duration
	logger     ports.Logger
	now        func() time.Time
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// WithCache reuses answers stored in cache for ttl.
func WithCache(cache ports.ReleaseCache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = cache
		cl.ttl = ttl
	}
}

// WithLogger reports cache problems, which never fail a lookup.
func WithLogger(logger ports.Logger) Option {
	return func(cl *Client) { cl.logger = logger }
}

// WithClock replaces the time source used for cache freshness.
func WithClock(now func() time.Time) Option {
	return func(cl *Client) { cl.now = now }
}

// WithRetryDelay sets the pause before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(cl *Client) { cl.retryDelay = d }
}

// NewClient creates a Client for the repository served by the API at api.
func NewClient(api string, repo domain.RepoRef, opts ...Option) *Client {
	c := &Client{
		api:        strings.TrimSuffix(api, "/"),
		repo:       repo,
		http:       &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
		retryDelay: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestTag returns the tag name of the repository's latest release.
func (c *Client) LatestTag(ctx context.Context) (string, error) {
	key := c.cacheKey()
	if tag, ok := c.cached(key); ok {
		return tag, nil
	}

	tag, err := c.fetch(ctx)
	if err != nil {
		return "", zerr.With(err, "repository", c.repo.Owner+"/"+c.repo.Repo)
	}

	c.remember(key, tag)
	return tag, nil
}

func (c *Client) latestURL() string {
	return c.api + "/repos/" + c.repo.Owner + "/" + c.repo.Repo + "/releases/latest"
}

// cacheKey identifies the API endpoint and repository a cached answer belongs to.
func (c *Client) cacheKey() string {
	sum := xxhash.Sum64String(c.api + "|" + c.repo.Owner + "|" + c.repo.Repo)
	return strconv.FormatUint(sum, 16)
}

func (c *Client) cached(key string) (string, bool) {
	if c.cache == nil || c.ttl <= 0 {
		return "", false
	}
	info, err := c.cache.Get(key)
	if err != nil {
		c.warn("failed to read release cache", err)
		return "", false
	}
	if info == nil || !info.Fresh(c.now(), c.ttl) {
		return "", false
	}
	return info.Tag, true
}

func (c *Client) remember(key, tag string) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}
	err := c.cache.Put(domain.ReleaseInfo{Key: key, Tag: tag, FetchedAt: c.now()})
	if err != nil {
		c.warn("failed to update release cache", err)
	}
}

func (c *Client) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg + ": " + err.Error())
	}
}

type latestReleaseResponse struct {
	TagName string `json:"tag_name"`
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	for attempt := 0; attempt <= retryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(), nil)
		if err != nil {
			return "", zerr.Wrap(domain.ErrRegistryFetch, err.Error())
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", "pkgset/"+build.Version)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				if !c.sleep(ctx) {
					return "", zerr.Wrap(domain.ErrRegistryFetch, ctx.Err().Error())
				}
				continue
			}
			return "", zerr.Wrap(domain.ErrRegistryFetch, err.Error())
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			if rateErr := rateLimitError(resp); rateErr != nil {
				return "", rateErr
			}
			if shouldRetry(nil, resp.StatusCode, attempt) {
				if !c.sleep(ctx) {
					return "", zerr.Wrap(domain.ErrRegistryFetch, ctx.Err().Error())
				}
				continue
			}
			return "", zerr.With(zerr.Wrap(domain.ErrRegistryFetch, "unexpected response"), "status", resp.Status)
		}

		var payload latestReleaseResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		_ = resp.Body.Close()
		if err != nil {
			return "", zerr.Wrap(domain.ErrRegistryFetch, "failed to decode latest release: "+err.Error())
		}

		tag := strings.TrimSpace(payload.TagName)
		if tag == "" {
			return "", zerr.Wrap(domain.ErrRegistryFetch, "latest release has no tag name")
		}
		return tag, nil
	}

	return "", zerr.Wrap(domain.ErrRegistryFetch, "retry budget exhausted")
}

func (c *Client) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// rateLimitError recognises GitHub's rate limit answers: 429, or 403 with no
// requests remaining.
func rateLimitError(resp *http.Response) error {
	limited := resp.StatusCode == http.StatusTooManyRequests
	if resp.StatusCode == http.StatusForbidden {
		remaining, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining")))
		limited = err == nil && remaining == 0
	}
	if !limited {
		return nil
	}

	rateErr := zerr.With(zerr.Wrap(domain.ErrRateLimited, "registry refused the request"), "status", resp.Status)
	if reset := resetTime(resp.Header.Get("X-RateLimit-Reset")); !reset.IsZero() {
		rateErr = zerr.With(rateErr, "reset", reset.UTC().Format(time.RFC3339))
	}
	return rateErr
}

func resetTime(header string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(header), 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= retryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
