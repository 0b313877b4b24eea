package geocode

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LocationCache stores forward-geocode results keyed by normalized query
// hash. Misses (Matched=false) are cached too, so unresolvable queries
// don't re-hit Nominatim.
type LocationCache interface {
	GetLocation(ctx context.Context, key string) (*Location, bool, error)
	PutLocation(ctx context.Context, key string, loc *Location) error
}

// CacheKey returns SHA-256 hex of the normalized query.
func CacheKey(query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

func (c *client) lookupCache(ctx context.Context, query string) (*Location, bool) {
	key := CacheKey(query)
	loc, ok, err := c.cache.GetLocation(ctx, key)
	if err != nil {
		zap.L().Debug("geocode: cache lookup failed", zap.Error(err))
		return nil, false
	}
	if ok {
		zap.L().Debug("geocode: cache hit",
			zap.String("key", key[:12]),
			zap.Bool("matched", loc.Matched),
		)
	}
	return loc, ok
}

func (c *client) storeCache(ctx context.Context, query string, loc *Location) {
	if err := c.cache.PutLocation(ctx, CacheKey(query), loc); err != nil {
		zap.L().Debug("geocode: cache store failed", zap.Error(err))
	}
}
