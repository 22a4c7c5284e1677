// Package app wires configuration, storage, clients, and services into a
// running Hindsight application.
package app

import (
	"context"
	"fmt"

	"github.com/bobmcallan/hindsight/internal/clients/gemini"
	"github.com/bobmcallan/hindsight/internal/clients/yahoo"
	"github.com/bobmcallan/hindsight/internal/common"
	"github.com/bobmcallan/hindsight/internal/interfaces"
	"github.com/bobmcallan/hindsight/internal/services/event"
	"github.com/bobmcallan/hindsight/internal/services/market"
	"github.com/bobmcallan/hindsight/internal/services/portfolio"
	"github.com/bobmcallan/hindsight/internal/services/simulation"
	"github.com/bobmcallan/hindsight/internal/storage"
)

// App holds the application's wired components
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.StorageManager
	Gemini      interfaces.GeminiClient
	Market      interfaces.MarketService
	Portfolios  interfaces.PortfolioService
	Events      interfaces.EventService
	Simulations interfaces.SimulationService

	scheduler *scheduler
}

// NewApp creates a fully wired application from configuration.
// The Gemini client is optional: without an API key, event analysis and
// simulation are unavailable but portfolio and market endpoints still work.
func NewApp(ctx context.Context, config *common.Config) (*App, error) {
	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewManager(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	var geminiClient interfaces.GeminiClient
	if apiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey); err == nil {
		client, err := gemini.NewClient(ctx, apiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		geminiClient = client
	} else {
		logger.Warn().Msg("No Gemini API key configured, event analysis disabled")
	}

	marketService := market.NewService(yahooClient, store.MarketData(), config.BenchmarkIndex, logger)
	portfolioService := portfolio.NewService(store.Portfolios(), marketService, logger)
	eventService := event.NewService(geminiClient, marketService, logger)
	simulationService := simulation.NewService(store.Portfolios(), marketService, eventService, geminiClient, logger)

	a := &App{
		Config:      config,
		Logger:      logger,
		Storage:     store,
		Gemini:      geminiClient,
		Market:      marketService,
		Portfolios:  portfolioService,
		Events:      eventService,
		Simulations: simulationService,
	}
	a.scheduler = newScheduler(a)

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetVersion()).
		Str("data_path", config.Storage.Path).
		Msg("Application initialized")

	return a, nil
}

// StartScheduler starts the background refresh jobs
func (a *App) StartScheduler() {
	a.scheduler.start()
}

// Close releases application resources
func (a *App) Close() error {
	if a.scheduler != nil {
		a.scheduler.stop()
	}
	if a.Gemini != nil {
		if err := a.Gemini.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close Gemini client")
		}
	}
	return a.Storage.Close()
}
