// Package fetcher retrieves the raw material for analysis: homepage
// snapshots, pitch deck files and rasterized slides.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// Defaults applied when WebOptions leaves a field zero.
const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	DefaultMaxChars     = 10000
	DefaultUserAgent    = "Mozilla/5.0 (compatible; PitchPanda/1.0)"
)

// SnapshotCache persists successful snapshots between runs.
type SnapshotCache interface {
	GetCachedSnapshot(ctx context.Context, url string) (*model.Snapshot, error)
	SetCachedSnapshot(ctx context.Context, snap model.Snapshot, ttl time.Duration) error
}

// WebOptions configures a WebFetcher.
type WebOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	MaxChars     int
	Cache        SnapshotCache // optional
	CacheTTL     time.Duration // 0 disables the cache
}

// WebFetcher downloads a homepage and reduces it to a bounded text snapshot.
type WebFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	maxChars  int
	cache     SnapshotCache
	cacheTTL  time.Duration
}

// NewWebFetcher creates a WebFetcher, filling unset options with defaults.
func NewWebFetcher(opts WebOptions) *WebFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	return &WebFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
		maxChars:  opts.MaxChars,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
	}
}

// NormalizeURL trims raw and prefixes https:// when no scheme is present.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + strings.TrimPrefix(raw, "//")
}

// Fetch returns a snapshot of the page at rawURL. It never fails: network
// errors, HTTP errors and anti-bot blocks yield a degraded snapshot whose
// text describes the problem.
func (f *WebFetcher) Fetch(ctx context.Context, rawURL string) model.Snapshot {
	target := NormalizeURL(rawURL)
	log := zap.L().With(zap.String("url", target))

	if f.cache != nil && f.cacheTTL > 0 && target != "" {
		cached, err := f.cache.GetCachedSnapshot(ctx, target)
		if err != nil {
			log.Warn("fetcher: cache lookup failed", zap.Error(err))
		} else if cached != nil {
			log.Debug("fetcher: cache hit")
			return *cached
		}
	}

	start := time.Now()
	snap, err := f.fetch(ctx, target)
	if err != nil {
		log.Warn("fetcher: homepage fetch failed", zap.Error(err))
		return Degraded(target, err)
	}
	log.Info("fetcher: homepage fetched",
		zap.Int("chars", len(snap.Text)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if f.cache != nil && f.cacheTTL > 0 {
		if err := f.cache.SetCachedSnapshot(ctx, snap, f.cacheTTL); err != nil {
			log.Warn("fetcher: cache write failed", zap.Error(err))
		}
	}
	return snap
}

func (f *WebFetcher) fetch(ctx context.Context, target string) (model.Snapshot, error) {
	if target == "" {
		return model.Snapshot{}, eris.New("empty url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return model.Snapshot{}, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return model.Snapshot{}, eris.Wrap(err, "read body")
	}

	if blocked, blockType := DetectBlock(resp, body); blocked {
		return model.Snapshot{}, eris.Errorf("blocked (%s)", blockType)
	}
	if resp.StatusCode >= 400 {
		return model.Snapshot{}, eris.Errorf("HTTP status %d", resp.StatusCode)
	}

	body = DecodeBody(resp.Header.Get("Content-Type"), body)
	p, err := parsePage(body, target, f.maxChars)
	if err != nil {
		return model.Snapshot{}, eris.Wrap(err, "parse html")
	}

	return model.Snapshot{
		URL:             target,
		Title:           p.Title,
		MetaDescription: p.MetaDescription,
		Text:            p.Text,
	}, nil
}

// Degraded builds the snapshot used when a homepage cannot be read.
func Degraded(url string, cause error) model.Snapshot {
	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}
	return model.Snapshot{
		URL:  url,
		Text: fmt.Sprintf("(Error fetching site: %s)", reason),
		Err:  reason,
	}
}
