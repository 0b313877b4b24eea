package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// Census tracts are identified by the first 11 digits of a block FIPS
// (state 2 + county 3 + tract 6).
const tractFIPSLen = 11

// fccAreaResponse is the JSON response from the FCC census area API.
type fccAreaResponse struct {
	Results []struct {
		BlockFIPS  string `json:"block_fips"`
		CountyName string `json:"county_name"`
		StateCode  string `json:"state_code"`
	} `json:"results"`
}

// AreaForPoint finds the census tract containing a coordinate via the FCC
// area API. An empty result set is a miss, not an error.
func (c *client) AreaForPoint(ctx context.Context, lat, lon float64) (*Area, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: fcc rate limit")
	}

	params := url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
		"format": {"json"},
	}
	reqURL := c.fccURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: fcc build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: fcc request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: fcc returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: fcc read body")
	}

	var areaResp fccAreaResponse
	if err := json.Unmarshal(body, &areaResp); err != nil {
		return nil, eris.Wrap(err, "geocode: fcc parse response")
	}

	if len(areaResp.Results) == 0 {
		return &Area{Matched: false}, nil
	}

	first := areaResp.Results[0]
	if len(first.BlockFIPS) < tractFIPSLen {
		return nil, eris.Errorf("geocode: fcc block fips too short: %q", first.BlockFIPS)
	}

	return &Area{
		TractID: first.BlockFIPS[:tractFIPSLen],
		County:  first.CountyName,
		State:   first.StateCode,
		Matched: true,
	}, nil
}
