package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// nominatimResult is one entry of the Nominatim /search JSON response.
// Coordinates arrive as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Locate geocodes a free-text query via Nominatim, consulting the cache
// first when one is configured. No results is a miss, not an error.
func (c *client) Locate(ctx context.Context, query string) (*Location, error) {
	if c.cache != nil {
		if loc, ok := c.lookupCache(ctx, query); ok {
			return loc, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	reqURL := c.nominatimURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim read body")
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}

	loc := &Location{}
	if len(results) > 0 {
		lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
		lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
		if latErr != nil || lonErr != nil {
			return nil, eris.Errorf("geocode: nominatim invalid coordinates %q,%q",
				results[0].Lat, results[0].Lon)
		}
		loc = &Location{
			Latitude:  lat,
			Longitude: lon,
			Display:   results[0].DisplayName,
			Matched:   true,
		}
	}

	if c.cache != nil {
		c.storeCache(ctx, query, loc)
	}

	zap.L().Debug("geocode: located query",
		zap.String("query", query),
		zap.Bool("matched", loc.Matched),
	)
	return loc, nil
}
