package product

import (
	"log/slog"
	"net/http"

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

// SearchRelatedItems searches products by composite keyword. Fails open with
// an empty item list.
func (h *Handler) SearchRelatedItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SearchRelatedItems").Start(r.Context(), "SearchRelatedItems", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/searchRelatedItems"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchRelatedItems"))

	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		api.WriteJSONResponse(w, r, http.StatusOK, types.ProductSearchResponse{
			Items: []types.Product{},
			Error: "keyword は必須です",
		})
		return
	}

	items, err := h.service.SearchItems(ctx, keyword)
	if err != nil {
		l.ErrorContext(ctx, "Product search failed", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusOK, types.ProductSearchResponse{
			Items: []types.Product{},
			Error: "商品検索に失敗しました",
		})
		return
	}

	l.InfoContext(ctx, "Product search completed", slog.Int("hits", len(items)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.ProductSearchResponse{Items: items})
}
