package celebration

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/oiwai-app/oiwai-server/internal/api"
	"github.com/oiwai-app/oiwai-server/internal/types"
)

const (
	planErrorMessage   = "プランの作成に失敗しました。時間をおいて再度お試しください。"
	detailErrorMessage = "詳細情報の取得に失敗しました。時間をおいて再度お試しください。"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// AskCelebration builds the aggregate plan. Fails open: any upstream, parse
// or validation error yields HTTP 200 with an empty-collection payload and a
// human-readable error message.
func (h *Handler) AskCelebration(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AskCelebration").Start(r.Context(), "AskCelebration", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/askCelebration"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "AskCelebration"))
	l.DebugContext(ctx, "Ask celebration handler invoked")

	q := r.URL.Query()
	req := types.PlanRequest{
		Text:       q.Get("text"),
		Who:        q.Get("who"),
		When:       q.Get("when"),
		Prefecture: q.Get("prefecture"),
		City:       q.Get("city"),
	}

	plan, err := h.service.Plan(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build plan", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusOK, emptyPlan(planErrorMessage))
		return
	}

	l.InfoContext(ctx, "Plan built successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// IsCelebration classifies free text. Failure degrades to check=false.
func (h *Handler) IsCelebration(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("IsCelebration").Start(r.Context(), "IsCelebration", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/isCelebration"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "IsCelebration"))

	check, err := h.service.Check(ctx, r.URL.Query().Get("text"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to check celebration", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusOK, types.CheckResponse{Check: false})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, check)
}

// ItemsDetail expands one preparation item.
func (h *Handler) ItemsDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItemsDetail").Start(r.Context(), "ItemsDetail", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itemsDetail"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ItemsDetail"))

	q := r.URL.Query()
	detail, err := h.service.ItemsDetail(ctx, q.Get("text"), q.Get("celebration"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch items detail", slog.Any("error", err))
		msg := detailErrorMessage
		api.WriteJSONResponse(w, r, http.StatusOK, types.ItemsDetailResponse{
			Categories: []types.ItemCategory{},
			Error:      &msg,
		})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// EventDetail describes one related event.
func (h *Handler) EventDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("EventDetail").Start(r.Context(), "EventDetail", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/eventDetail"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "EventDetail"))

	q := r.URL.Query()
	detail, err := h.service.EventDetail(ctx, q.Get("event"), q.Get("celebration"), q.Get("prefecture"), q.Get("city"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch event detail", slog.Any("error", err))
		msg := detailErrorMessage
		api.WriteJSONResponse(w, r, http.StatusOK, types.EventDetailResponse{Error: &msg})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, types.EventDetailResponse{EventDetails: detail})
}

// ReadyDetail expands one readiness task.
func (h *Handler) ReadyDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ReadyDetail").Start(r.Context(), "ReadyDetail", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/readyDetail"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ReadyDetail"))

	q := r.URL.Query()
	detail, err := h.service.ReadyDetail(ctx, q.Get("text"), q.Get("celebration"))
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch ready detail", slog.Any("error", err))
		msg := detailErrorMessage
		api.WriteJSONResponse(w, r, http.StatusOK, types.ReadyDetailResponse{
			Steps:          []types.ReadyStep{},
			RequiredItems:  []string{},
			Considerations: []string{},
			Error:          &msg,
		})
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

func emptyPlan(message string) *types.PlanResponse {
	return &types.PlanResponse{
		Schedule: []types.ScheduleEntry{},
		Ready:    []string{},
		Items:    []string{},
		Events:   []types.Event{},
		Error:    &message,
	}
}
