package weather

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

// Service resolves per-date forecast snapshots from the weather provider.
type Service interface {
	ForecastForDates(ctx context.Context, coords types.Coordinates, dates []string) (map[string]*types.WeatherSnapshot, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      *gocache.Cache
}

var _ Service = (*ServiceImpl)(nil)

func NewService(baseURL, apiKey string, logger *slog.Logger) *ServiceImpl {
	metrics.InitAppMetrics()
	return &ServiceImpl{
		logger:     logger,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		cache:      gocache.New(10*time.Minute, 30*time.Minute),
	}
}

// forecastPayload is the subset of the provider's 5-day/3-hour forecast
// response this service reads.
type forecastPayload struct {
	List []struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Pop   float64 `json:"pop"`
		DtTxt string  `json:"dt_txt"` // "2006-01-02 15:04:05"
	} `json:"list"`
}

// ForecastForDates looks up one snapshot per requested date from the cached
// per-coordinate forecast. A date outside the provider's horizon is simply
// absent from the result, never an error.
func (s *ServiceImpl) ForecastForDates(ctx context.Context, coords types.Coordinates, dates []string) (map[string]*types.WeatherSnapshot, error) {
	byDate, err := s.forecastByDate(ctx, coords)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*types.WeatherSnapshot, len(dates))
	for _, date := range dates {
		if snapshot, ok := byDate[date]; ok {
			result[date] = snapshot
		}
	}
	return result, nil
}

// forecastByDate fetches and caches the full forecast for a coordinate,
// collapsed to one snapshot per calendar date.
func (s *ServiceImpl) forecastByDate(ctx context.Context, coords types.Coordinates) (map[string]*types.WeatherSnapshot, error) {
	cacheKey := fmt.Sprintf("forecast:%.3f:%.3f", coords.Lat, coords.Lon)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(map[string]*types.WeatherSnapshot), nil
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", coords.Lat))
	q.Set("lon", fmt.Sprintf("%f", coords.Lon))
	q.Set("units", "metric")
	q.Set("lang", "ja")
	q.Set("appid", s.apiKey)

	reqURL := fmt.Sprintf("%s/data/2.5/forecast?%s", s.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	m := metrics.Get()
	start := time.Now()
	resp, err := s.httpClient.Do(req)
	m.UpstreamDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("forecast request returned status %d", resp.StatusCode)
	}

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	byDate := collapseForecast(payload)
	s.cache.Set(cacheKey, byDate, gocache.DefaultExpiration)
	return byDate, nil
}

// collapseForecast reduces 3-hour slots to one snapshot per date, preferring
// the midday slot since events are held during the day.
func collapseForecast(payload forecastPayload) map[string]*types.WeatherSnapshot {
	type slot struct {
		hour     int
		snapshot *types.WeatherSnapshot
	}
	best := make(map[string]slot)

	for _, entry := range payload.List {
		t, err := time.Parse("2006-01-02 15:04:05", entry.DtTxt)
		if err != nil {
			continue
		}
		date := t.Format("2006-01-02")

		description := ""
		if len(entry.Weather) > 0 {
			description = entry.Weather[0].Description
		}
		candidate := slot{
			hour: t.Hour(),
			snapshot: &types.WeatherSnapshot{
				TemperatureCelsius:       entry.Main.Temp,
				Description:              description,
				PrecipitationProbability: int(entry.Pop * 100),
			},
		}

		current, ok := best[date]
		if !ok || midDayDistance(candidate.hour) < midDayDistance(current.hour) {
			best[date] = candidate
		}
	}

	byDate := make(map[string]*types.WeatherSnapshot, len(best))
	for date, s := range best {
		byDate[date] = s.snapshot
	}
	return byDate
}

func midDayDistance(hour int) int {
	d := hour - 12
	if d < 0 {
		return -d
	}
	return d
}
