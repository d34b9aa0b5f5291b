package jobboard

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	userAgent = "career-agent/1.0 (job digest bot)"

	// Polite crawl rate for the public boards we hit.
	requestsPerSecond = 2
	requestBurst      = 1
)

// Client fetches job listings from the supported job boards.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string

	limiter *hostLimiter
	sites   map[string]Site
}

// Site is a single job board adapter.
type Site interface {
	Name() string
	Search(ctx context.Context, c *Client, params *SearchParams) (*Listings, error)
}

func New(ctx context.Context, logger *zap.Logger) *Client {
	c := &Client{
		ctx:    ctx,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		UserAgent: userAgent,
		limiter:   newHostLimiter(requestsPerSecond, requestBurst),
		sites:     make(map[string]Site),
	}

	for _, site := range []Site{&remotiveSite{}, &jobicySite{}, &linkedinSite{}} {
		c.sites[site.Name()] = site
	}

	return c
}

// Search queries every requested site sequentially and concatenates the
// results. A failing site contributes nothing; only a fully empty result
// set is reported to the caller as "no jobs found" upstream.
func (c *Client) Search(params *SearchParams) (*Listings, error) {
	params.normalize()

	all := &Listings{}
	for _, name := range params.Sites {
		site, ok := c.sites[name]
		if !ok {
			c.logger.Warn("unsupported site; skipping", zap.String("site", name))
			continue
		}

		found, err := site.Search(c.ctx, c, params)
		if err != nil {
			c.logger.Warn("site search failed; continuing without it",
				zap.String("site", name),
				zap.Error(err),
			)
			continue
		}

		c.logger.Debug("site search finished",
			zap.String("site", name),
			zap.Int("count", found.Len()),
		)
		all.Append(found)
	}

	return all, nil
}

// get issues a rate-limited GET request with the client's headers applied.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.waitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	return c.HTTPClient.Do(req)
}

// withinWindow reports whether the posted date falls inside the recency
// window. Listings without a date always pass.
func withinWindow(posted *time.Time, hoursOld int) bool {
	if posted == nil || hoursOld <= 0 {
		return true
	}
	return time.Since(*posted) <= time.Duration(hoursOld)*time.Hour
}

// hostLimiter rate-limits outbound requests per hostname.
type hostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func newHostLimiter(reqPerSec float64, burst int) *hostLimiter {
	return &hostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *hostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim
	return lim
}

func (hl *hostLimiter) waitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}
