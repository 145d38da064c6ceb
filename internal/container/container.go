package container

import (
	"context"
	"log/slog"

	"github.com/oiwai-app/oiwai-server/config"
	"github.com/oiwai-app/oiwai-server/internal/api/celebration"
	generativeAI "github.com/oiwai-app/oiwai-server/internal/api/generative_ai"
	"github.com/oiwai-app/oiwai-server/internal/api/place"
	"github.com/oiwai-app/oiwai-server/internal/api/product"
	"github.com/oiwai-app/oiwai-server/internal/api/weather"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	CelebrationHandler *celebration.Handler
	PlaceHandler       *place.Handler
	ProductHandler     *product.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		return nil, err
	}

	// Initialize services
	weatherService := weather.NewService(cfg.Weather.BaseURL, cfg.Weather.APIKey, logger)
	placeService := place.NewService(cfg.Places.BaseURL, cfg.Places.APIKey, cfg.Places.RadiusMeters, logger)
	productService := product.NewService(cfg.Rakuten.BaseURL, cfg.Rakuten.ApplicationID, cfg.Rakuten.Hits, logger)
	celebrationService := celebration.NewService(aiClient, weatherService, placeService, logger)

	// Initialize handlers
	return &Container{
		Config:             cfg,
		Logger:             logger,
		CelebrationHandler: celebration.NewHandler(celebrationService, logger),
		PlaceHandler:       place.NewHandler(placeService, logger),
		ProductHandler:     product.NewHandler(productService, logger),
	}, nil
}
