package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"radagast/internal/domain"
)

// GeocodeResult carries the resolved address. Fallback is set when the
// external lookup failed and the coordinates were returned unresolved.
type GeocodeResult struct {
	Location domain.Location
	Fallback bool
}

type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodeResult, error)
}

// HTTPGeocoder calls an external reverse-geocoding service. Every call is
// bounded by a timeout; on any failure it degrades to a coordinate-only
// result instead of failing the caller.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewHTTPGeocoder(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

func (g *HTTPGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodeResult, error) {
	fallback := GeocodeResult{
		Location: domain.Location{Latitude: lat, Longitude: lng},
		Fallback: true,
	}

	if g.baseURL == "" {
		return fallback, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/reverse?lat=%s&lng=%s",
		g.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lng)),
	)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		g.logger.Warn("geocoder request build failed, using fallback", zap.Error(err))
		return fallback, nil
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("geocoder unavailable, using fallback", zap.Error(err))
		return fallback, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("geocoder returned non-200, using fallback", zap.Int("status", resp.StatusCode))
		return fallback, nil
	}

	var body struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		g.logger.Warn("geocoder response decode failed, using fallback", zap.Error(err))
		return fallback, nil
	}

	return GeocodeResult{
		Location: domain.Location{Latitude: lat, Longitude: lng, Address: body.Address},
	}, nil
}
