package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"flyergen/internal/admission"
	"flyergen/internal/classify"
	"flyergen/internal/director"
	"flyergen/internal/domain"
	"flyergen/internal/domain/stylecfg"
	httpapi "flyergen/internal/http"
	"flyergen/internal/http/handlers"
	"flyergen/internal/infra"
	"flyergen/internal/infra/geoip"
	"flyergen/internal/middleware"
	"flyergen/internal/pipeline"
	"flyergen/internal/providers/dashscope"
	"flyergen/internal/providers/gemini"
	"flyergen/internal/providers/render"
	"flyergen/internal/quota"
	"flyergen/internal/storage"
	"flyergen/internal/usage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	styles := stylecfg.Defaults()
	if cfg.StylesPath != "" {
		raw, err := os.ReadFile(cfg.StylesPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.StylesPath).Msg("failed to read styles config")
		}
		styles, err = stylecfg.Load(raw)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.StylesPath).Msg("failed to parse styles config")
		}
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	geminiClient := gemini.NewClient(gemini.Options{
		APIKey:    cfg.GeminiAPIKey,
		BaseURL:   cfg.GeminiBaseURL,
		Model:     cfg.GeminiModel,
		TextModel: cfg.GeminiTextModel,
		Logger:    &logger,
	})
	dashscopeClient := dashscope.NewClient(dashscope.Options{
		APIKey:       cfg.DashScopeAPIKey,
		BaseURL:      cfg.DashScopeBaseURL,
		Model:        cfg.DashScopeModel,
		PollInterval: cfg.DashScopePollTick,
		PollMaxWait:  cfg.DashScopePollWait,
		Logger:       &logger,
	})

	providers := []pipeline.Provider{
		gemini.NewImageProvider(geminiClient),
		dashscope.NewImageProvider(dashscopeClient),
		render.NewRenderer(),
	}
	chain := pipeline.NewChain(providers, pipeline.RetryPolicy{
		MaxAttempts: cfg.ProviderRetries,
		BaseDelay:   cfg.RetryBaseDelay,
	}, cfg.ProviderTimeout, logger)

	limits := domain.PlanLimits{Free: cfg.FreePlanLimit, Pro: cfg.ProPlanLimit}
	ledger := quota.NewLedger(runner, limits, cfg.QuotaCycleDays)
	limiter := admission.NewLimiter(cfg.RateLimitBurst, cfg.RateLimitWindow)
	recorder := usage.NewRecorder(runner, logger)
	classifier := classify.NewClassifier(geminiClient, logger)
	briefDirector := director.NewDirector(geminiClient, logger)

	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorOptions{
		Admission:  limiter,
		Ledger:     ledger,
		Classifier: classifier,
		Composer:   briefDirector,
		Runner:     chain,
		Store:      store,
		Usage:      recorder,
		Styles:     styles,
		Deadline:   cfg.RequestDeadline,
		Logger:     logger,
	})

	app := &handlers.App{
		Config:       cfg,
		Logger:       logger,
		Orchestrator: orchestrator,
		Ledger:       ledger,
		Store:        store,
	}
	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
