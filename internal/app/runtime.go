package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"horse.fit/ansa/internal/ansa"
	"horse.fit/ansa/internal/cli"
	"horse.fit/ansa/internal/config"
	"horse.fit/ansa/internal/db"
	"horse.fit/ansa/internal/logging"
	"horse.fit/ansa/internal/macro"
	"horse.fit/ansa/internal/media"
	"horse.fit/ansa/internal/metrics"
	"horse.fit/ansa/internal/search"
	"horse.fit/ansa/internal/translation"
	"horse.fit/ansa/internal/transport"
)

// runtime holds everything a command needs, wired from configuration.
type runtime struct {
	cfg       *config.Config
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	macros    *macro.Registry
	providers *search.Registry
	storage   media.Storage
	pool      *db.Pool
}

func loadRuntime(ctx context.Context, envLoader *cli.EnvLoader) (*runtime, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	rt := &runtime{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics.New(),
		macros:    macro.NewRegistry(),
		providers: search.NewRegistry(),
	}

	if cfg.HasDatabase() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.pool = pool
		rt.storage = media.NewDBStorage(pool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, stored media is kept in memory")
		rt.storage = media.NewMemoryStorage()
	}

	if err := rt.registerTranslation(); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.registerPhotoProvider(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) registerTranslation() error {
	provider, err := translation.NewAnsaProvider(translation.AnsaOptions{
		URL: rt.cfg.TranslationURL,
		Timeouts: transport.Timeouts{
			Connect: rt.cfg.TranslationConnectTimeout,
			Read:    rt.cfg.TranslationReadTimeout,
		},
		Logger:  rt.logger,
		Metrics: rt.metrics,
	})
	if err != nil {
		return fmt.Errorf("build translation provider: %w", err)
	}

	registry := translation.NewRegistry(translation.DefaultProviderName)
	if err := registry.Register(provider); err != nil {
		return fmt.Errorf("register translation provider: %w", err)
	}

	textMacro := translation.NewTextMacro(registry, "", rt.logger)
	if err := rt.macros.Register(textMacro.Macro()); err != nil {
		return fmt.Errorf("register translation macro: %w", err)
	}
	return nil
}

func (rt *runtime) registerPhotoProvider() error {
	client := transport.NewClient(transport.Timeouts{
		Connect: rt.cfg.PhotoConnectTimeout,
		Read:    rt.cfg.PhotoReadTimeout,
	})

	materializer, err := media.NewMaterializer(media.MaterializerOptions{
		Storage:       rt.storage,
		HTTPClient:    client,
		PublicBaseURL: rt.cfg.PublicBaseURL,
		Logger:        rt.logger,
		Metrics:       rt.metrics,
	})
	if err != nil {
		return fmt.Errorf("build rendition materializer: %w", err)
	}

	provider, err := ansa.NewProvider(ansa.Options{
		BaseURL: rt.cfg.PhotoAPI,
		Credentials: ansa.Credentials{
			Username: rt.cfg.PhotoUsername,
			Password: rt.cfg.PhotoPassword,
		},
		HTTPClient:   client,
		Materializer: materializer,
		Media:        rt.storage,
		Logger:       rt.logger,
		Metrics:      rt.metrics,
	})
	if err != nil {
		return fmt.Errorf("build photo provider: %w", err)
	}
	if err := ansa.Register(rt.providers, provider); err != nil {
		return fmt.Errorf("register photo provider: %w", err)
	}
	return nil
}

func (rt *runtime) Close() {
	if rt == nil || rt.pool == nil {
		return
	}
	if err := rt.pool.Close(); err != nil {
		rt.logger.Warn().Err(err).Msg("close database pool")
	}
}

func writeJSON(value any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
