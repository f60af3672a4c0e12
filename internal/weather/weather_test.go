package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentParsesConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "10.0000", r.URL.Query().Get("lat"))
		assert.Equal(t, "ml", r.URL.Query().Get("lang"))
		w.Write([]byte(`{
			"weather": [{"description": "light rain"}],
			"main": {"temp": 27.4, "humidity": 88},
			"wind": {"speed": 3.2}
		}`))
	}))
	defer srv.Close()

	c := NewClient("key", 5*time.Second, zerolog.Nop())
	c.baseURL = srv.URL

	cond, err := c.Current(context.Background(), 10.0, 76.0, "ml")
	require.NoError(t, err)
	assert.Equal(t, "light rain", cond.Description)
	assert.Equal(t, 27.4, cond.TemperatureC)
	assert.Equal(t, 88.0, cond.HumidityPct)
	assert.Equal(t, 3.2, cond.WindSpeed)
	assert.Equal(t, "light rain, 27.4°C", cond.Summary())
}

func TestCurrentToleratesPartialDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 31.0}}`))
	}))
	defer srv.Close()

	c := NewClient("key", 5*time.Second, zerolog.Nop())
	c.baseURL = srv.URL

	cond, err := c.Current(context.Background(), 10.0, 76.0, "")
	require.NoError(t, err)
	assert.Equal(t, "", cond.Description)
	assert.Equal(t, 31.0, cond.TemperatureC)
	assert.Equal(t, 0.0, cond.HumidityPct)
	assert.Equal(t, "31.0°C", cond.Summary())
}

func TestCurrentServesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"main": {"temp": 25.0}}`))
	}))
	defer srv.Close()

	c := NewClient("key", 5*time.Second, zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Current(context.Background(), 10.0, 76.0, "")
	require.NoError(t, err)
	_, err = c.Current(context.Background(), 10.0, 76.0, "")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCurrentServesStaleDuringBackoff(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"main": {"temp": 25.0}}`))
	}))
	defer srv.Close()

	c := NewClient("key", 5*time.Second, zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Current(context.Background(), 10.0, 76.0, "")
	require.NoError(t, err)

	fail.Store(true)
	c.cachedAt = time.Now().Add(-time.Hour) // expire cache

	cond, err := c.Current(context.Background(), 10.0, 76.0, "")
	require.NoError(t, err)
	assert.Equal(t, 25.0, cond.TemperatureC)
	assert.Greater(t, c.failBackoff, time.Duration(0))
}

func TestDisabledClient(t *testing.T) {
	c := NewClient("", 5*time.Second, zerolog.Nop())
	assert.False(t, c.Enabled())
	assert.Equal(t, "Weather data unavailable", (*Conditions)(nil).Summary())
}

func TestLocateFallsBackToDefaults(t *testing.T) {
	l := NewLocator(10.0, 76.0, time.Second, zerolog.Nop())
	l.baseURL = "http://127.0.0.1:1" // nothing listens here

	lat, lon := l.Locate(context.Background())
	assert.Equal(t, 10.0, lat)
	assert.Equal(t, 76.0, lon)
}

func TestLocateParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json", r.URL.Path)
		w.Write([]byte(`{"status": "success", "lat": 9.9312, "lon": 76.2673}`))
	}))
	defer srv.Close()

	l := NewLocator(10.0, 76.0, time.Second, zerolog.Nop())
	l.baseURL = srv.URL

	lat, lon := l.Locate(context.Background())
	assert.Equal(t, 9.9312, lat)
	assert.Equal(t, 76.2673, lon)
}

func TestLocateFailStatusFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "fail", "message": "private range"}`))
	}))
	defer srv.Close()

	l := NewLocator(10.0, 76.0, time.Second, zerolog.Nop())
	l.baseURL = srv.URL

	lat, lon := l.Locate(context.Background())
	assert.Equal(t, 10.0, lat)
	assert.Equal(t, 76.0, lon)
}
