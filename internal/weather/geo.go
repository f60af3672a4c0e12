package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Locator resolves the farmer's approximate coordinates from their public
// IP. Lookup failure is not an error: the configured default coordinates
// stand in, so the dashboard always has a location to show.
type Locator struct {
	baseURL    string
	client     *http.Client
	defaultLat float64
	defaultLon float64
	log        zerolog.Logger
}

// NewLocator builds a locator with fallback coordinates (typically central
// Kerala).
func NewLocator(defaultLat, defaultLon float64, timeout time.Duration, log zerolog.Logger) *Locator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Locator{
		baseURL:    "http://ip-api.com",
		client:     &http.Client{Timeout: timeout},
		defaultLat: defaultLat,
		defaultLon: defaultLon,
		log:        log,
	}
}

// Locate returns the IP-derived coordinates, or the defaults on any failure.
func (l *Locator) Locate(ctx context.Context) (lat, lon float64) {
	req, err := http.NewRequestWithContext(ctx, "GET", l.baseURL+"/json", nil)
	if err != nil {
		return l.defaultLat, l.defaultLon
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.log.Warn().Err(err).Msg("geolocation failed, using default coordinates")
		return l.defaultLat, l.defaultLon
	}
	defer resp.Body.Close()

	var result struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&result) != nil || result.Status != "success" {
		l.log.Warn().Msg("geolocation unavailable, using default coordinates")
		return l.defaultLat, l.defaultLon
	}
	return result.Lat, result.Lon
}
