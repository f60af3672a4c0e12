// Package weather fetches current conditions for the farm's coordinates from
// OpenWeatherMap, with a short cache and failure backoff so a flaky network
// never stalls the dashboard.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Conditions is the parsed weather document. Partial API responses leave the
// missing fields at zero rather than failing.
type Conditions struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	WindSpeed    float64 `json:"wind_speed"` // m/s
}

// Client fetches conditions from OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger

	mu          sync.Mutex
	cached      *Conditions
	cachedAt    time.Time
	cacheTTL    time.Duration
	lastFailAt  time.Time
	failBackoff time.Duration
}

// NewClient creates a weather client. Returns nil if apiKey is empty
// (weather display disabled).
func NewClient(apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  "https://api.openweathermap.org",
		client:   &http.Client{Timeout: timeout},
		log:      log,
		cacheTTL: 5 * time.Minute,
	}
}

// Enabled reports whether the client is configured.
func (c *Client) Enabled() bool { return c != nil && c.apiKey != "" }

// Current returns conditions at lat/lon, serving a cached document while it
// is fresh and during failure backoff. lang localizes the description when
// the API supports it.
func (c *Client) Current(ctx context.Context, lat, lon float64, lang string) (*Conditions, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("weather client not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.cachedAt) < c.cacheTTL {
		return c.cached, nil
	}

	// Back off on repeated failures, up to 10 minutes, serving stale data
	// when any exists.
	if c.failBackoff > 0 && time.Since(c.lastFailAt) < c.failBackoff {
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, fmt.Errorf("weather backoff (%s remaining)", c.failBackoff-time.Since(c.lastFailAt))
	}

	conditions, err := c.fetch(ctx, lat, lon, lang)
	if err != nil {
		c.lastFailAt = time.Now()
		if c.failBackoff == 0 {
			c.failBackoff = time.Minute
		} else if c.failBackoff < 10*time.Minute {
			c.failBackoff *= 2
		}
		c.log.Warn().Err(err).Msg("weather fetch failed")
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, err
	}

	c.cached = conditions
	c.cachedAt = time.Now()
	c.failBackoff = 0
	return conditions, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64, lang string) (*Conditions, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	if lang != "" {
		q.Set("lang", lang)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error %d: %s", resp.StatusCode, string(body))
	}

	var owm struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.Unmarshal(body, &owm); err != nil {
		return nil, fmt.Errorf("parse weather: %w", err)
	}

	conditions := &Conditions{
		TemperatureC: owm.Main.Temp,
		HumidityPct:  owm.Main.Humidity,
		WindSpeed:    owm.Wind.Speed,
	}
	if len(owm.Weather) > 0 {
		conditions.Description = owm.Weather[0].Description
	}

	c.log.Debug().Float64("temp_c", conditions.TemperatureC).Str("desc", conditions.Description).Msg("weather fetched")
	return conditions, nil
}

// Summary renders conditions as the one-line string the dashboard shows.
func (c *Conditions) Summary() string {
	if c == nil {
		return "Weather data unavailable"
	}
	if c.Description == "" {
		return fmt.Sprintf("%.1f°C", c.TemperatureC)
	}
	return fmt.Sprintf("%s, %.1f°C", c.Description, c.TemperatureC)
}
