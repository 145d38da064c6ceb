package place

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/oiwai-app/oiwai-server/internal/api"
	"github.com/oiwai-app/oiwai-server/internal/types"
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

// SearchPlaces searches places by keyword around a prefecture+city. Unlike
// the plan endpoints this one does NOT fail open: missing parameters or
// upstream failure return HTTP 500 with success=false, and no external call
// is made on bad input.
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchPlaces").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/searchPlaces"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	q := r.URL.Query()
	prefecture := q.Get("prefecture")
	city := q.Get("city")
	keyword := q.Get("keyword")

	if prefecture == "" || city == "" || keyword == "" {
		l.ErrorContext(ctx, "Missing required search parameters")
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.PlaceSearchResponse{
			Success: false,
			Error:   "prefecture、city、keyword はすべて必須です",
		})
		return
	}

	coords, formatted, err := h.service.Geocode(ctx, prefecture, city)
	if err != nil {
		l.ErrorContext(ctx, "Geocoding failed", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.PlaceSearchResponse{
			Success: false,
			Error:   fmt.Sprintf("場所の特定に失敗しました: %s %s", prefecture, city),
		})
		return
	}

	places, err := h.service.SearchPlaces(ctx, coords, keyword)
	if err != nil {
		l.ErrorContext(ctx, "Place search failed", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, types.PlaceSearchResponse{
			Success: false,
			Error:   "検索に失敗しました",
		})
		return
	}

	l.InfoContext(ctx, "Place search completed", slog.Int("hits", len(places)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.PlaceSearchResponse{
		Success: true,
		Places:  places,
		SearchInfo: &types.SearchInfo{
			Location:    formatted,
			Coordinates: coords,
			Keyword:     keyword,
		},
	})
}

// SearchRelatedShops looks up facilities around an event location. Fails
// open with an empty list.
func (h *Handler) SearchRelatedShops(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchRelatedShops").Start(r.Context(), "SearchRelatedShops", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/searchRelatedShops"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchRelatedShops"))

	q := r.URL.Query()
	event := q.Get("event")
	prefecture := q.Get("prefecture")
	city := q.Get("city")

	if event == "" || prefecture == "" || city == "" {
		msg := "event、prefecture、city はすべて必須です"
		api.WriteJSONResponse(w, r, http.StatusOK, types.ShopSearchResponse{Shops: []types.Shop{}, Error: &msg})
		return
	}

	coords, _, err := h.service.Geocode(ctx, prefecture, city)
	if err != nil {
		l.ErrorContext(ctx, "Geocoding failed", slog.Any("error", err))
		msg := "場所の特定に失敗しました"
		api.WriteJSONResponse(w, r, http.StatusOK, types.ShopSearchResponse{Shops: []types.Shop{}, Error: &msg})
		return
	}

	shops, err := h.service.SearchShops(ctx, coords, shopCategoryForEvent(event))
	if err != nil {
		l.ErrorContext(ctx, "Shop search failed", slog.Any("error", err))
		msg := "関連施設の検索に失敗しました"
		api.WriteJSONResponse(w, r, http.StatusOK, types.ShopSearchResponse{Shops: []types.Shop{}, Error: &msg})
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.ShopSearchResponse{Shops: shops})
}

// shopCategoryForEvent maps an event name onto a provider place category.
// Unknown events fall back to catering, which covers most celebrations.
func shopCategoryForEvent(event string) string {
	switch {
	case strings.Contains(event, "結婚") || strings.Contains(event, "ウェディング"):
		return "commercial.wedding"
	case strings.Contains(event, "写真") || strings.Contains(event, "撮影"):
		return "service.photographer"
	case strings.Contains(event, "神社") || strings.Contains(event, "参り") || strings.Contains(event, "七五三"):
		return "religion.place_of_worship"
	default:
		return "catering.restaurant"
	}
}
