package eta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Mode is the travel profile used for the routing lookup.
type Mode string

const (
	ModeFoot Mode = "foot"
	ModeCar  Mode = "car"
	ModeBike Mode = "bike"
)

var ErrInvalidMode = errors.New("invalid travel mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFoot, ModeCar, ModeBike:
		return Mode(s), nil
	case "":
		return ModeFoot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Result is ephemeral: computed on demand, never persisted.
type Result struct {
	DurationMinutes int     `json:"durationMinutes"`
	DistanceKm      float64 `json:"distanceKm"`
	PathPoints      []Point `json:"pathPoints"`
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"` // seconds
		Distance float64 `json:"distance"` // meters
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // (lng, lat) pairs
		} `json:"geometry"`
	} `json:"routes"`
}

var errNoRoute = errors.New("no route found")

// Calculator resolves travel time between two points via an OSRM-compatible
// routing service. Every failure mode collapses to a nil result: the caller
// treats nil as "ETA unavailable" and degrades gracefully.
type Calculator struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*osrmResponse]
	log     *zap.Logger
}

func NewCalculator(baseURL string, log *zap.Logger) *Calculator {
	breaker := gobreaker.NewCircuitBreaker[*osrmResponse](gobreaker.Settings{
		Name:    "osrm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Calculator{
		baseURL: baseURL,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		breaker: breaker,
		log:     log,
	}
}

// Calculate returns the best route between origin and destination, or nil
// when no route can be determined for any reason.
func (c *Calculator) Calculate(ctx context.Context, origin, destination Point, mode Mode) *Result {
	resp, err := c.breaker.Execute(func() (*osrmResponse, error) {
		return c.fetchRoute(ctx, origin, destination, mode)
	})
	if err != nil {
		c.log.Warn("route lookup unavailable", zap.String("mode", string(mode)), zap.Error(err))
		return nil
	}

	route := resp.Routes[0]
	points := make([]Point, 0, len(route.Geometry.Coordinates))
	for _, coord := range route.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		// OSRM emits (lng, lat); consumers expect (lat, lng).
		points = append(points, Point{Lat: coord[1], Lng: coord[0]})
	}

	return &Result{
		DurationMinutes: int(math.Round(route.Duration / 60)),
		DistanceKm:      math.Round(route.Distance/1000*10) / 10,
		PathPoints:      points,
	}
}

func (c *Calculator) fetchRoute(ctx context.Context, origin, destination Point, mode Mode) (*osrmResponse, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s,%s;%s,%s?overview=full&geometries=geojson",
		c.baseURL, mode,
		formatCoord(origin.Lng), formatCoord(origin.Lat),
		formatCoord(destination.Lng), formatCoord(destination.Lat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build route request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return nil, errNoRoute
	}
	return &parsed, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
