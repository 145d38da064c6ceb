package celebration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oiwai-app/oiwai-server/app/observability/metrics"
	generativeAI "github.com/oiwai-app/oiwai-server/internal/api/generative_ai"
	"github.com/oiwai-app/oiwai-server/internal/api/place"
	"github.com/oiwai-app/oiwai-server/internal/api/weather"
	"github.com/oiwai-app/oiwai-server/internal/types"
	"google.golang.org/genai"
)

// weatherContextDates caps how many weekend candidates get a forecast lookup;
// the provider horizon is about five days anyway.
const weatherContextDates = 6

// Generator is the model call the service depends on. The concrete client
// lives in generative_ai; tests substitute a mock.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
	Model() string
}

var _ Generator = (*generativeAI.AIClient)(nil)

// Service defines the business logic contract for celebration planning.
type Service interface {
	Plan(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error)
	Check(ctx context.Context, text string) (*types.CheckResponse, error)
	ItemsDetail(ctx context.Context, item, occasion string) (*types.ItemsDetailResponse, error)
	EventDetail(ctx context.Context, event, occasion, prefecture, city string) (*types.EventDetail, error)
	ReadyDetail(ctx context.Context, task, occasion string) (*types.ReadyDetailResponse, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger     *slog.Logger
	ai         Generator
	weatherSvc weather.Service
	placeSvc   place.Service
	log        *InteractionLog
	now        func() time.Time
}

var _ Service = (*ServiceImpl)(nil)

func NewService(ai Generator, weatherSvc weather.Service, placeSvc place.Service, logger *slog.Logger) *ServiceImpl {
	metrics.InitAppMetrics()
	return &ServiceImpl{
		logger:     logger,
		ai:         ai,
		weatherSvc: weatherSvc,
		placeSvc:   placeSvc,
		log:        NewInteractionLog(256),
		now:        time.Now,
	}
}

// Interactions exposes the in-memory model interaction log.
func (s *ServiceImpl) Interactions() *InteractionLog {
	return s.log
}

// generate performs the single model attempt every endpoint shares and
// records the interaction.
func (s *ServiceImpl) generate(ctx context.Context, endpoint, prompt string) (string, error) {
	start := time.Now()
	raw, err := s.ai.GenerateContent(ctx, prompt, generativeAI.JSONConfig())
	elapsed := time.Since(start)

	m := metrics.Get()
	m.LLMRequestsTotal.Add(ctx, 1)
	m.LLMRequestDurationSeconds.Record(ctx, elapsed.Seconds())
	if err != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1)
		return "", err
	}

	s.log.Save(Interaction{
		Endpoint:     endpoint,
		Prompt:       prompt,
		ResponseText: raw,
		ModelUsed:    s.ai.Model(),
		LatencyMs:    int(elapsed.Milliseconds()),
	})
	return raw, nil
}

// Plan builds the aggregate plan for one occasion query. The model call and
// the weather lookup are independent upstreams, so they run concurrently and
// are awaited jointly; the forecast only joins onto the schedule afterwards.
func (s *ServiceImpl) Plan(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error) {
	today := s.now()
	todayStr, _ := planningWindow(today)

	var (
		weatherByDate map[string]*types.WeatherSnapshot
		raw           string
	)

	g, gctx := errgroup.WithContext(ctx)
	if req.When == "" {
		// A fixed date gets no candidate dates, so there is nothing to join
		// weather onto and the lookup is skipped entirely.
		g.Go(func() error {
			weatherByDate = s.weatherContext(gctx, req.Prefecture, req.City, today)
			return nil
		})
	}
	g.Go(func() error {
		var err error
		raw, err = s.generate(gctx, "askCelebration", planPrompt(req.Text, req.Who, req.When, todayStr))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	plan, err := parsePlan(raw)
	if err != nil {
		return nil, err
	}

	if req.When != "" {
		// Date is fixed; no candidate dates regardless of what the model said.
		plan.Schedule = []types.ScheduleEntry{}
		return plan, nil
	}

	plan.Schedule = filterSchedule(today, plan.Schedule)
	plan.Schedule = attachScheduleWeather(plan.Schedule, weatherByDate)
	return plan, nil
}

// Check classifies free text as a celebration or not.
func (s *ServiceImpl) Check(ctx context.Context, text string) (*types.CheckResponse, error) {
	raw, err := s.generate(ctx, "isCelebration", checkPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("check generation failed: %w", err)
	}
	return parseCheck(raw)
}

// ItemsDetail expands one preparation item into categorized detail records.
func (s *ServiceImpl) ItemsDetail(ctx context.Context, item, occasion string) (*types.ItemsDetailResponse, error) {
	raw, err := s.generate(ctx, "itemsDetail", itemsDetailPrompt(item, occasion))
	if err != nil {
		return nil, fmt.Errorf("items detail generation failed: %w", err)
	}
	return parseItemsDetail(raw)
}

// EventDetail describes one related event, with validated and weather-joined
// recommended dates.
func (s *ServiceImpl) EventDetail(ctx context.Context, event, occasion, prefecture, city string) (*types.EventDetail, error) {
	today := s.now()
	todayStr := today.Format(dateLayout)
	weekends := weekendCandidates(today)

	weatherByDate := s.weatherContext(ctx, prefecture, city, today)

	raw, err := s.generate(ctx, "eventDetail", eventDetailPrompt(event, occasion, todayStr, weekends, weatherByDate))
	if err != nil {
		return nil, fmt.Errorf("event detail generation failed: %w", err)
	}

	detail, err := parseEventDetail(raw)
	if err != nil {
		return nil, err
	}

	detail.RecommendedDates = recommendDates(today, detail.RecommendedDates, weekends)
	detail.RecommendedDates = attachWeather(detail.RecommendedDates, weatherByDate)
	return detail, nil
}

// ReadyDetail expands one readiness task into a step-by-step guide.
func (s *ServiceImpl) ReadyDetail(ctx context.Context, task, occasion string) (*types.ReadyDetailResponse, error) {
	raw, err := s.generate(ctx, "readyDetail", readyDetailPrompt(task, occasion))
	if err != nil {
		return nil, fmt.Errorf("ready detail generation failed: %w", err)
	}
	return parseReadyDetail(raw)
}

// weatherContext geocodes the location and fetches forecasts for the nearest
// weekend candidates. Any failure degrades to no weather, never an error.
func (s *ServiceImpl) weatherContext(ctx context.Context, prefecture, city string, today time.Time) map[string]*types.WeatherSnapshot {
	if prefecture == "" || city == "" || s.weatherSvc == nil || s.placeSvc == nil {
		return nil
	}

	coords, _, err := s.placeSvc.Geocode(ctx, prefecture, city)
	if err != nil {
		s.logger.WarnContext(ctx, "Geocoding failed, continuing without weather", slog.Any("error", err))
		return nil
	}

	weekends := weekendCandidates(today)
	if len(weekends) > weatherContextDates {
		weekends = weekends[:weatherContextDates]
	}

	byDate, err := s.weatherSvc.ForecastForDates(ctx, coords, weekends)
	if err != nil {
		s.logger.WarnContext(ctx, "Forecast fetch failed, continuing without weather", slog.Any("error", err))
		return nil
	}
	return byDate
}
