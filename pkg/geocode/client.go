// Package geocode resolves free-text locations to coordinates via Nominatim
// and coordinates to census areas via the FCC area API.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Location is the result of a forward geocode. An unmatched query is not an
// error; Matched is false.
type Location struct {
	Latitude  float64
	Longitude float64
	Display   string
	Matched   bool
}

// Area identifies the administrative area containing a point.
type Area struct {
	TractID string // 11-digit census tract FIPS
	County  string
	State   string
	Matched bool
}

// Client resolves locations and areas.
type Client interface {
	// Locate geocodes a free-text location query.
	Locate(ctx context.Context, query string) (*Location, error)

	// AreaForPoint finds the census tract containing a coordinate.
	AreaForPoint(ctx context.Context, lat, lon float64) (*Area, error)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit shared by both APIs.
// Nominatim's usage policy asks for at most 1 req/s.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header. Nominatim rejects requests
// without an identifying agent.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

// WithNominatimBaseURL overrides the Nominatim endpoint (tests).
func WithNominatimBaseURL(u string) Option {
	return func(c *client) {
		c.nominatimURL = u
	}
}

// WithFCCBaseURL overrides the FCC area API endpoint (tests).
func WithFCCBaseURL(u string) Option {
	return func(c *client) {
		c.fccURL = u
	}
}

// WithLocationCache enables caching of forward-geocode results.
func WithLocationCache(lc LocationCache) Option {
	return func(c *client) {
		c.cache = lc
	}
}

type client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	userAgent    string
	nominatimURL string
	fccURL       string
	cache        LocationCache
}

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultFCCURL       = "https://geo.fcc.gov/api/census/area"
	defaultUserAgent    = "movemap/1.0"
)

// NewClient creates a geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(1, 1), // Nominatim policy: 1 req/s
		userAgent:    defaultUserAgent,
		nominatimURL: defaultNominatimURL,
		fccURL:       defaultFCCURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
