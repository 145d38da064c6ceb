package celebration

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/oiwai-app/oiwai-server/internal/types"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func (m *MockGenerator) Model() string {
	return "test-model"
}

type stubWeatherService struct {
	byDate map[string]*types.WeatherSnapshot
	err    error
	calls  int
}

func (s *stubWeatherService) ForecastForDates(ctx context.Context, coords types.Coordinates, dates []string) (map[string]*types.WeatherSnapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.byDate, nil
}

type stubPlaceService struct {
	coords       types.Coordinates
	geocodeErr   error
	geocodeCalls int
}

func (s *stubPlaceService) Geocode(ctx context.Context, prefecture, city string) (types.Coordinates, string, error) {
	s.geocodeCalls++
	if s.geocodeErr != nil {
		return types.Coordinates{}, "", s.geocodeErr
	}
	return s.coords, prefecture + city, nil
}

func (s *stubPlaceService) SearchPlaces(ctx context.Context, coords types.Coordinates, keyword string) ([]types.Place, error) {
	return nil, nil
}

func (s *stubPlaceService) SearchShops(ctx context.Context, coords types.Coordinates, category string) ([]types.Shop, error) {
	return nil, nil
}

func newTestService(ai Generator, weatherSvc *stubWeatherService, placeSvc *stubPlaceService, today time.Time) *ServiceImpl {
	svc := NewService(ai, nil, nil, slog.Default())
	if weatherSvc != nil {
		svc.weatherSvc = weatherSvc
	}
	if placeSvc != nil {
		svc.placeSvc = placeSvc
	}
	svc.now = func() time.Time { return today }
	return svc
}

const validPlanJSON = `{
	"message": "ご入学おめでとうございます",
	"schedule": [
		{"date": "2026-02-01", "reason": "過去の日付"},
		{"date": "2026-04-12", "reason": "日曜日です"},
		{"date": "2026-04-05", "reason": "週末です"}
	],
	"ready": ["招待状", "会場", "衣装"],
	"items": ["花束", "ケーキ", "プレゼント"],
	"events": [
		{"name": "記念撮影", "description": "家族写真"},
		{"name": "食事会", "description": "お祝いの席"},
		{"name": "神社参拝", "description": "祈願"}
	],
	"error": null
}`

func TestPlanFiltersAndSortsSchedule(t *testing.T) {
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n"+validPlanJSON+"\n```", nil)

	svc := newTestService(gen, nil, nil, today)

	plan, err := svc.Plan(context.Background(), types.PlanRequest{Text: "入学式", Who: "息子"})
	require.NoError(t, err)

	require.Len(t, plan.Schedule, 2, "past dates are dropped")
	assert.Equal(t, "2026-04-05", plan.Schedule[0].Date)
	assert.Equal(t, "2026-04-12", plan.Schedule[1].Date)
	assert.Len(t, plan.Ready, 3)
	gen.AssertExpectations(t)
}

func TestPlanClearsScheduleWhenDateFixed(t *testing.T) {
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validPlanJSON, nil)

	svc := newTestService(gen, nil, nil, today)

	plan, err := svc.Plan(context.Background(), types.PlanRequest{Text: "入学式", Who: "息子", When: "2026-04-05"})
	require.NoError(t, err)

	require.NotNil(t, plan.Schedule)
	assert.Empty(t, plan.Schedule, "a fixed date means no candidate dates, whatever the model said")
	assert.Len(t, plan.Items, 3, "the rest of the plan survives")
}

func TestPlanAttachesWeather(t *testing.T) {
	today := time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC)

	sunny := &types.WeatherSnapshot{TemperatureCelsius: 18, Description: "晴れ", PrecipitationProbability: 10}
	weatherSvc := &stubWeatherService{byDate: map[string]*types.WeatherSnapshot{"2026-04-05": sunny}}
	placeSvc := &stubPlaceService{coords: types.Coordinates{Lat: 35.68, Lon: 139.76}}

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validPlanJSON, nil)

	svc := newTestService(gen, weatherSvc, placeSvc, today)

	plan, err := svc.Plan(context.Background(), types.PlanRequest{
		Text: "入学式", Who: "息子", Prefecture: "東京都", City: "千代田区",
	})
	require.NoError(t, err)

	require.Len(t, plan.Schedule, 2)
	assert.Equal(t, sunny, plan.Schedule[0].Weather)
	assert.Nil(t, plan.Schedule[1].Weather, "dates beyond the forecast horizon stay nil")
	assert.Equal(t, 1, weatherSvc.calls)
}

func TestPlanSurvivesWeatherFailure(t *testing.T) {
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	weatherSvc := &stubWeatherService{err: errors.New("provider down")}
	placeSvc := &stubPlaceService{coords: types.Coordinates{Lat: 35.68, Lon: 139.76}}

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validPlanJSON, nil)

	svc := newTestService(gen, weatherSvc, placeSvc, today)

	plan, err := svc.Plan(context.Background(), types.PlanRequest{
		Text: "入学式", Who: "息子", Prefecture: "東京都", City: "千代田区",
	})
	require.NoError(t, err, "weather failure degrades to no weather, never an error")
	require.Len(t, plan.Schedule, 2)
	assert.Nil(t, plan.Schedule[0].Weather)
}

// rendezvousGenerator and rendezvousWeather block until the other upstream
// has started, so the test below only passes when the model call and the
// weather lookup actually overlap.
type rendezvousGenerator struct {
	started chan struct{}
	waitFor chan struct{}
	reply   string
}

func (g *rendezvousGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	close(g.started)
	select {
	case <-g.waitFor:
		return g.reply, nil
	case <-time.After(2 * time.Second):
		return "", errors.New("weather lookup never started")
	}
}

func (g *rendezvousGenerator) Model() string { return "test-model" }

type rendezvousWeather struct {
	started chan struct{}
	waitFor chan struct{}
	byDate  map[string]*types.WeatherSnapshot
}

func (w *rendezvousWeather) ForecastForDates(ctx context.Context, coords types.Coordinates, dates []string) (map[string]*types.WeatherSnapshot, error) {
	close(w.started)
	select {
	case <-w.waitFor:
		return w.byDate, nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("model call never started")
	}
}

func TestPlanOverlapsWeatherAndModelCall(t *testing.T) {
	today := time.Date(2026, 3, 30, 9, 0, 0, 0, time.UTC)
	genStarted := make(chan struct{})
	weatherStarted := make(chan struct{})

	sunny := &types.WeatherSnapshot{TemperatureCelsius: 18, Description: "晴れ", PrecipitationProbability: 10}
	gen := &rendezvousGenerator{started: genStarted, waitFor: weatherStarted, reply: validPlanJSON}
	weatherSvc := &rendezvousWeather{
		started: weatherStarted,
		waitFor: genStarted,
		byDate:  map[string]*types.WeatherSnapshot{"2026-04-05": sunny},
	}

	svc := NewService(gen, nil, nil, slog.Default())
	svc.weatherSvc = weatherSvc
	svc.placeSvc = &stubPlaceService{coords: types.Coordinates{Lat: 35.68, Lon: 139.76}}
	svc.now = func() time.Time { return today }

	plan, err := svc.Plan(context.Background(), types.PlanRequest{
		Text: "入学式", Who: "息子", Prefecture: "東京都", City: "千代田区",
	})
	require.NoError(t, err)
	require.Len(t, plan.Schedule, 2)
	assert.Equal(t, sunny, plan.Schedule[0].Weather,
		"the forecast must come back and join the schedule, so both upstreams ran")
}

func TestPlanSkipsWeatherWhenDateFixed(t *testing.T) {
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(validPlanJSON, nil)

	weatherSvc := &stubWeatherService{}
	placeSvc := &stubPlaceService{coords: types.Coordinates{Lat: 35.68, Lon: 139.76}}
	svc := newTestService(gen, weatherSvc, placeSvc, today)

	plan, err := svc.Plan(context.Background(), types.PlanRequest{
		Text: "入学式", Who: "息子", When: "2026-04-05", Prefecture: "東京都", City: "千代田区",
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Schedule)

	assert.Zero(t, placeSvc.geocodeCalls, "a fixed date needs no geocoding")
	assert.Zero(t, weatherSvc.calls, "a fixed date needs no forecast")
}

func TestPlanPropagatesModelError(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("quota exceeded"))

	svc := newTestService(gen, nil, nil, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

	_, err := svc.Plan(context.Background(), types.PlanRequest{Text: "入学式", Who: "息子"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCheck(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n{\"check\": true}\n```", nil)

	svc := newTestService(gen, nil, nil, time.Now())

	check, err := svc.Check(context.Background(), "七五三")
	require.NoError(t, err)
	assert.True(t, check.Check)
}

func TestEventDetailFallsBackToWeekends(t *testing.T) {
	// 2026-03-04 is a Wednesday; nearest weekends are 03-07 and 03-08.
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{
			"description": "お宮参りは生後一ヶ月頃の行事です",
			"cultural_significance": "氏神様への挨拶",
			"recommended_dates": [
				{"date": "2026-01-10", "reason": "過去"},
				{"date": "2025-12-31", "reason": "過去"}
			]
		}`, nil)

	svc := newTestService(gen, nil, nil, today)

	detail, err := svc.EventDetail(context.Background(), "お宮参り", "出産祝い", "", "")
	require.NoError(t, err)

	require.Len(t, detail.RecommendedDates, 3, "too few valid dates triggers the weekend fallback")
	assert.Equal(t, "2026-03-07", detail.RecommendedDates[0].Date)
	assert.Equal(t, "2026-03-08", detail.RecommendedDates[1].Date)
	assert.Equal(t, "2026-03-14", detail.RecommendedDates[2].Date)
	assert.Equal(t, fallbackReason, detail.RecommendedDates[0].Reason)
	require.Len(t, detail.RecommendedDates[0].TimeSlots, 2)
}

func TestEventDetailKeepsValidDates(t *testing.T) {
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{
			"description": "七五三",
			"cultural_significance": "伝統行事",
			"recommended_dates": [
				{"date": "2026-11-15", "reason": "七五三の日", "time_slots": [{"start_time": "09:00", "end_time": "11:00", "reason": "混雑前"}]},
				{"date": "2026-11-14", "reason": "前日の土曜"},
				{"date": "2026-11-21", "reason": "翌週の土曜"}
			]
		}`, nil)

	svc := newTestService(gen, nil, nil, today)

	detail, err := svc.EventDetail(context.Background(), "七五三", "七五三", "", "")
	require.NoError(t, err)

	require.Len(t, detail.RecommendedDates, 3)
	assert.Equal(t, "2026-11-14", detail.RecommendedDates[0].Date)
	assert.Equal(t, "2026-11-15", detail.RecommendedDates[1].Date)
	assert.Equal(t, "2026-11-21", detail.RecommendedDates[2].Date)
	assert.Equal(t, "七五三の日", detail.RecommendedDates[1].Reason)
}

func TestItemsDetailPropagatesParseError(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return("not json at all", nil)

	svc := newTestService(gen, nil, nil, time.Now())

	_, err := svc.ItemsDetail(context.Background(), "花束", "入学式")
	require.Error(t, err)
}

func TestReadyDetail(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{
			"title": "会場の予約",
			"overview": "概要",
			"timeline": "2ヶ月前",
			"steps": [{"step": "候補出し", "description": "3件", "duration": "1週間", "tips": []}],
			"required_items": [],
			"estimated_cost": "0円",
			"considerations": []
		}`, nil)

	svc := newTestService(gen, nil, nil, time.Now())

	detail, err := svc.ReadyDetail(context.Background(), "会場の予約", "結婚式")
	require.NoError(t, err)
	assert.Equal(t, "会場の予約", detail.Title)
}

func TestServiceRecordsInteractions(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"check": false}`, nil)

	svc := newTestService(gen, nil, nil, time.Now())

	_, err := svc.Check(context.Background(), "会議")
	require.NoError(t, err)

	recent := svc.Interactions().Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, "isCelebration", recent[0].Endpoint)
	assert.Equal(t, "test-model", recent[0].ModelUsed)
	assert.Equal(t, `{"check": false}`, recent[0].ResponseText)
}
