package place

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/oiwai-app/oiwai-server/app/observability/metrics"
	"github.com/oiwai-app/oiwai-server/internal/types"
)

// Service wraps the geocoding/places provider. One API key serves both
// operations.
type Service interface {
	Geocode(ctx context.Context, prefecture, city string) (types.Coordinates, string, error)
	SearchPlaces(ctx context.Context, coords types.Coordinates, keyword string) ([]types.Place, error)
	SearchShops(ctx context.Context, coords types.Coordinates, category string) ([]types.Shop, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	radiusMeters int
	geocodeCache *gocache.Cache
}

var _ Service = (*ServiceImpl)(nil)

func NewService(baseURL, apiKey string, radiusMeters int, logger *slog.Logger) *ServiceImpl {
	if radiusMeters <= 0 {
		radiusMeters = 3000
	}
	metrics.InitAppMetrics()
	return &ServiceImpl{
		logger:       logger,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      baseURL,
		apiKey:       apiKey,
		radiusMeters: radiusMeters,
		geocodeCache: gocache.New(24*time.Hour, time.Hour),
	}
}

type geocodePayload struct {
	Features []struct {
		Properties struct {
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
			Formatted string  `json:"formatted"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a prefecture+city pair to coordinates. City centers do
// not move, so results are cached for a day.
func (s *ServiceImpl) Geocode(ctx context.Context, prefecture, city string) (types.Coordinates, string, error) {
	cacheKey := prefecture + ":" + city
	if cached, found := s.geocodeCache.Get(cacheKey); found {
		hit := cached.(geocodeResult)
		return hit.coords, hit.formatted, nil
	}

	q := url.Values{}
	q.Set("text", fmt.Sprintf("%s %s", prefecture, city))
	q.Set("lang", "ja")
	q.Set("limit", "1")
	q.Set("apiKey", s.apiKey)

	var payload geocodePayload
	if err := s.getJSON(ctx, fmt.Sprintf("%s/v1/geocode/search?%s", s.baseURL, q.Encode()), &payload); err != nil {
		return types.Coordinates{}, "", fmt.Errorf("geocoding failed: %w", err)
	}
	if len(payload.Features) == 0 {
		return types.Coordinates{}, "", fmt.Errorf("no geocoding result for %s %s", prefecture, city)
	}

	props := payload.Features[0].Properties
	result := geocodeResult{
		coords:    types.Coordinates{Lat: props.Lat, Lon: props.Lon},
		formatted: props.Formatted,
	}
	s.geocodeCache.Set(cacheKey, result, gocache.DefaultExpiration)
	return result.coords, result.formatted, nil
}

type geocodeResult struct {
	coords    types.Coordinates
	formatted string
}

type placesPayload struct {
	Features []struct {
		Properties struct {
			Name       string   `json:"name"`
			Formatted  string   `json:"formatted"`
			Lat        float64  `json:"lat"`
			Lon        float64  `json:"lon"`
			PlaceID    string   `json:"place_id"`
			Categories []string `json:"categories"`
			Website    string   `json:"website"`
			Contact    struct {
				Phone string `json:"phone"`
			} `json:"contact"`
		} `json:"properties"`
	} `json:"features"`
}

// SearchPlaces looks up named places by keyword around a coordinate.
func (s *ServiceImpl) SearchPlaces(ctx context.Context, coords types.Coordinates, keyword string) ([]types.Place, error) {
	payload, err := s.searchFeatures(ctx, coords, url.Values{"name": {keyword}})
	if err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(payload.Features))
	for _, f := range payload.Features {
		p := f.Properties
		if p.Name == "" {
			continue
		}
		places = append(places, types.Place{
			Name:     p.Name,
			Address:  p.Formatted,
			Location: types.Coordinates{Lat: p.Lat, Lon: p.Lon},
			PlaceID:  p.PlaceID,
			Types:    p.Categories,
		})
	}
	return places, nil
}

// SearchShops looks up facilities by provider category around a coordinate.
func (s *ServiceImpl) SearchShops(ctx context.Context, coords types.Coordinates, category string) ([]types.Shop, error) {
	payload, err := s.searchFeatures(ctx, coords, url.Values{"categories": {category}})
	if err != nil {
		return nil, err
	}

	shops := make([]types.Shop, 0, len(payload.Features))
	for _, f := range payload.Features {
		p := f.Properties
		if p.Name == "" {
			continue
		}
		shop := types.Shop{
			Name:     p.Name,
			Address:  p.Formatted,
			PlaceID:  p.PlaceID,
			Location: types.Coordinates{Lat: p.Lat, Lon: p.Lon},
		}
		if len(p.Categories) > 0 {
			shop.Category = p.Categories[0]
		}
		if p.Website != "" {
			shop.Website = &p.Website
		}
		if p.Contact.Phone != "" {
			shop.Phone = &p.Contact.Phone
		}
		shops = append(shops, shop)
	}
	return shops, nil
}

func (s *ServiceImpl) searchFeatures(ctx context.Context, coords types.Coordinates, extra url.Values) (*placesPayload, error) {
	q := url.Values{}
	q.Set("filter", fmt.Sprintf("circle:%f,%f,%d", coords.Lon, coords.Lat, s.radiusMeters))
	q.Set("limit", "20")
	q.Set("lang", "ja")
	q.Set("apiKey", s.apiKey)
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}

	var payload placesPayload
	if err := s.getJSON(ctx, fmt.Sprintf("%s/v2/places?%s", s.baseURL, q.Encode()), &payload); err != nil {
		return nil, fmt.Errorf("place search failed: %w", err)
	}
	return &payload, nil
}

func (s *ServiceImpl) getJSON(ctx context.Context, reqURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	m := metrics.Get()
	start := time.Now()
	resp, err := s.httpClient.Do(req)
	m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("request returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
