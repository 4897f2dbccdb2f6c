package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHTTPGeocoder_ResolvesAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address":"12 Market Road"}`))
	}))
	defer server.Close()

	g := NewHTTPGeocoder(server.URL, time.Second, zap.NewNop())

	result, err := g.ReverseGeocode(context.Background(), 12.97, 77.59)
	assert.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, "12 Market Road", result.Location.Address)
	assert.Equal(t, 12.97, result.Location.Latitude)
}

func TestHTTPGeocoder_FallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewHTTPGeocoder(server.URL, time.Second, zap.NewNop())

	result, err := g.ReverseGeocode(context.Background(), 12.97, 77.59)
	assert.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Empty(t, result.Location.Address)
	assert.Equal(t, 12.97, result.Location.Latitude)
	assert.Equal(t, 77.59, result.Location.Longitude)
}

func TestHTTPGeocoder_FallsBackOnTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	g := NewHTTPGeocoder(server.URL, 20*time.Millisecond, zap.NewNop())

	result, err := g.ReverseGeocode(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.True(t, result.Fallback)
}

func TestHTTPGeocoder_NoBaseURL(t *testing.T) {
	g := NewHTTPGeocoder("", time.Second, zap.NewNop())

	result, err := g.ReverseGeocode(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.True(t, result.Fallback)
}
