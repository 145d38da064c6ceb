package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	handlers "github.com/oiwai-app/oiwai-server/internal/api"
	"github.com/oiwai-app/oiwai-server/internal/api/celebration"
	"github.com/oiwai-app/oiwai-server/internal/api/place"
	"github.com/oiwai-app/oiwai-server/internal/api/product"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AllowedOrigin      string
	CelebrationHandler *celebration.Handler
	PlaceHandler       *place.Handler
	ProductHandler     *product.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.ErrorResponse(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.ErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// The endpoints mirror the original serverless function names: one GET
	// route per user action, parameters in the query string.
	r.Get("/askCelebration", cfg.CelebrationHandler.AskCelebration)
	r.Get("/isCelebration", cfg.CelebrationHandler.IsCelebration)
	r.Get("/itemsDetail", cfg.CelebrationHandler.ItemsDetail)
	r.Get("/eventDetail", cfg.CelebrationHandler.EventDetail)
	r.Get("/readyDetail", cfg.CelebrationHandler.ReadyDetail)
	r.Get("/searchRelatedItems", cfg.ProductHandler.SearchRelatedItems)
	r.Get("/searchPlaces", cfg.PlaceHandler.SearchPlaces)
	r.Get("/searchRelatedShops", cfg.PlaceHandler.SearchRelatedShops)

	return r
}
