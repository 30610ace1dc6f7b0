package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"querybridge/internal/cache"
	"querybridge/internal/config"
	"querybridge/internal/detect"
	"querybridge/internal/evaluate"
	"querybridge/internal/llm"
	"querybridge/internal/monitor"
	"querybridge/internal/report"
	"querybridge/internal/service"
	"querybridge/internal/translator"
)

// app holds the constructed service graph shared by the CLI commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *service.Service
	llmClient llm.Client
	cache     cache.TranslationCache
}

// buildApp loads configuration and constructs every service with explicit
// dependency injection.
func buildApp(logger *zap.Logger) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded config",
		zap.String("port", cfg.Server.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("llm_base_url", cfg.LLM.BaseURL),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Duration("cache_ttl", cfg.Cache.TTL.Std()),
	)

	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:         cfg.LLM.BaseURL,
		APIKey:          cfg.LLM.APIKey,
		Model:           cfg.LLM.Model,
		UpstreamTimeout: cfg.LLM.UpstreamTimeout.Std(),
		MaxRetries:      cfg.LLM.MaxRetries,
	}, logger)
	if err != nil {
		return nil, err
	}

	detector := detect.NewDetector(logger)

	engine := translator.New(llmClient, detector, translator.Options{
		Model:          cfg.LLM.Model,
		MaxQueryLength: cfg.Query.MaxQueryLength,
	}, logger)

	backend, err := cache.New(cache.Options{
		Backend:    cfg.Cache.Backend,
		TTL:        cfg.Cache.TTL.Std(),
		MaxEntries: cfg.Cache.MaxEntries,
		Prefix:     cfg.Cache.Prefix,
		RedisAddr:  cfg.Cache.RedisAddr,
	})
	if err != nil {
		return nil, err
	}

	// Fail fast on a misconfigured Redis instead of degrading silently.
	if rc, ok := backend.(*cache.RedisCache); ok {
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return nil, err
		}
		logger.Info("redis connection established", zap.String("addr", cfg.Cache.RedisAddr))
	}

	translationCache := cache.WithLogging(backend)

	mon := monitor.New()
	reporter := report.New(mon)
	evaluator := evaluate.New(engine, detector, logger)

	svc := service.New(engine, evaluator, mon, reporter, translationCache, service.Options{
		MaxQueryLength: cfg.Query.MaxQueryLength,
		DefaultTarget:  cfg.Query.DefaultTarget,
	}, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		service:   svc,
		llmClient: llmClient,
		cache:     translationCache,
	}, nil
}

func (a *app) Close() {
	if closer, ok := a.llmClient.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	_ = a.cache.Close()
}
