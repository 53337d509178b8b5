package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/model"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrNoText is returned when a page yields no readable text
var ErrNoText = errors.New("page contains no readable text")

// StatusError is a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// RateLimiter paces requests per host
type RateLimiter interface {
	WaitWithDelay(ctx context.Context, rawURL string, additionalDelay time.Duration) error
}

// Page is a fetched document
type Page struct {
	Body        string
	ContentType string
	FinalURL    string
}

const maxAttempts = 3

// fetchSleepFunc is the retry backoff; replaced in tests
var fetchSleepFunc = sleepContext

// Fetcher turns URL submissions into page text
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    RateLimiter
	cache      cache.Cache
	cacheTTL   time.Duration
	publicOnly bool
	log        *logger.Logger
}

// Option customises a Fetcher
type Option func(*Fetcher)

// WithRobots enables robots.txt checks
func WithRobots(r *RobotsChecker) Option {
	return func(f *Fetcher) { f.robots = r }
}

// WithLimiter enables per-host rate limiting
func WithLimiter(l RateLimiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithCache stores extracted text under the URL key
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithPublicOnly refuses URLs that resolve to loopback, private or link-local addresses
func WithPublicOnly() Option {
	return func(f *Fetcher) { f.publicOnly = true }
}

func WithLogger(l *logger.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// NewFetcher creates a Fetcher
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy string, opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent: userAgent,
		maxBytes:  maxBytes,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.httpClient = &http.Client{
		Timeout:   timeout,
		Transport: newTransport(httpProxy, httpsProxy, f.publicOnly),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
	return f
}

// NewFromConfig wires robots, limiter and cache according to cfg
func NewFromConfig(cfg *model.Config, limiter RateLimiter, c cache.Cache, log *logger.Logger) *Fetcher {
	opts := []Option{WithLimiter(limiter), WithLogger(log)}
	publicOnly := !cfg.HTTP.AllowPrivateAddresses
	if publicOnly {
		opts = append(opts, WithPublicOnly())
	}
	if cfg.HTTP.RespectRobots {
		robots := NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
		robots.httpClient.Transport = newTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, publicOnly)
		opts = append(opts, WithRobots(robots))
	}
	if cfg.Cache.Enabled && c != nil {
		opts = append(opts, WithCache(c, cfg.Cache.MemoryTTL))
	}
	return NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, opts...)
}

// Resolve fetches rawURL and returns its readable text
func (f *Fetcher) Resolve(ctx context.Context, rawURL string) (string, error) {
	key := cache.Key("page", rawURL)
	if f.cache != nil {
		if val, ok := f.cache.Get(key); ok {
			f.log.Debug("page cache hit", "url", rawURL)
			return string(val), nil
		}
	}

	if f.publicOnly {
		if err := checkPublicHost(ctx, rawURL); err != nil {
			return "", err
		}
	}

	var crawlDelay time.Duration
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if !allowed {
			return "", ErrDisallowed
		}
		crawlDelay = delay
	}

	if f.limiter != nil {
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	page, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text := page.Body
	if isHTML(page.ContentType, page.Body) {
		text, err = ExtractText(page.Body)
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
	} else {
		text = collapseSpace(text)
	}
	if text == "" {
		return "", ErrNoText
	}

	if f.cache != nil {
		if err := f.cache.Set(key, []byte(text), f.cacheTTL); err != nil {
			f.log.Warn("page cache write failed", "url", rawURL, "error", err)
		}
	}
	return text, nil
}

// FetchWithRetry fetches with up to three attempts on transient failures
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Page, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		page, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || attempt == maxAttempts {
			break
		}
		if err := fetchSleepFunc(ctx, time.Duration(attempt)*500*time.Millisecond); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetch performs a single GET with a body size limit
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Page{
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// isRetryableFetchError reports 5xx, 429 and transport failures as transient
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return strings.HasPrefix(err.Error(), "fetch: ")
}

func isHTML(contentType, body string) bool {
	if contentType != "" {
		return strings.Contains(contentType, "html")
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
