package geo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/forensix/log-inspector/internal/retry"
)

const defaultBaseURL = "https://ipinfo.io"

// Client looks up IP locations against ipinfo.io with retry and a local
// cache. A failed lookup degrades to an empty Location; geolocation never
// aborts an analysis run.
type Client struct {
	httpClient *http.Client
	cache      Cache
	retryCfg   retry.Config
	baseURL    string
}

// NewClient creates a lookup client. cache may be nil to disable caching.
func NewClient(cache Cache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Second},
		cache:      cache,
		retryCfg:   retry.DefaultConfig(),
		baseURL:    defaultBaseURL,
	}
}

// ipinfoResponse is the subset of the ipinfo.io payload we use. The loc
// field is "lat,lon" as one string.
type ipinfoResponse struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Loc     string `json:"loc"`
}

// Lookup resolves one IP, consulting the cache first.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	if c.cache != nil {
		if loc, ok, err := c.cache.Get(ip); err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("Cache read failed, querying service")
		} else if ok {
			return loc, nil
		}
	}

	loc, err := retry.DoWithResult(ctx, c.retryCfg, func() (*Location, error) {
		return c.fetch(ctx, ip)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(loc); err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("Failed to cache lookup result")
		}
	}

	return loc, nil
}

// LookupAll resolves the given IPs in order. Individual failures yield an
// empty not-found Location and the batch continues.
func (c *Client) LookupAll(ctx context.Context, ips []string) []Location {
	locations := make([]Location, 0, len(ips))

	for _, ip := range ips {
		if ctx.Err() != nil {
			break
		}

		loc, err := c.Lookup(ctx, ip)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("Geolocation lookup failed")
			locations = append(locations, Location{IP: ip})
			continue
		}
		locations = append(locations, *loc)
	}

	return locations
}

func (c *Client) fetch(ctx context.Context, ip string) (*Location, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup for %s returned status %d", ip, resp.StatusCode)
	}

	var payload ipinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	loc := &Location{
		IP:      ip,
		City:    payload.City,
		Country: payload.Country,
	}

	if lat, lon, ok := parseLoc(payload.Loc); ok {
		loc.Latitude = lat
		loc.Longitude = lon
		loc.Found = true
	}

	return loc, nil
}

// parseLoc splits the "lat,lon" pair ipinfo returns.
func parseLoc(s string) (float64, float64, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	return lat, lon, true
}
