package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// CityResolver resolves a coordinate to a city name. Implemented by
// GeocodeClient; analytics falls back to it when clustered users carry no
// city of their own.
type CityResolver interface {
	ReverseCity(ctx context.Context, lat, lng float64) (string, error)
}

// GeocodeClient is a reverse-geocoding client for Nominatim-compatible
// endpoints. The public OSM instance allows one request per second, so all
// calls go through a rate limiter and a circuit breaker.
type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewGeocodeClient creates a reverse geocoding client
func NewGeocodeClient(baseURL string, requestsPerSecond float64, timeout time.Duration, breakerThreshold int, logger *logrus.Logger) *GeocodeClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "reverse-geocode",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Geocode circuit breaker state changed")
		},
	})

	return &GeocodeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker: cb,
		logger:  logger,
	}
}

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Suburb  string `json:"suburb"`
		State   string `json:"state"`
	} `json:"address"`
}

// ReverseCity returns the city (or nearest named locality) for a coordinate
func (c *GeocodeClient) ReverseCity(ctx context.Context, lat, lng float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.reverse(ctx, lat, lng)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *GeocodeClient) reverse(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s&zoom=10",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "sportsbuddy-backend/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call geocode API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode API returned status %d", resp.StatusCode)
	}

	var parsed nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode geocode response: %w", err)
	}

	for _, name := range []string{parsed.Address.City, parsed.Address.Town, parsed.Address.Village, parsed.Address.Suburb, parsed.Address.State} {
		if name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("no locality in geocode response")
}
