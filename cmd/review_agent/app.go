package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonathan/review-analyzer/internal/archive"
	"github.com/jonathan/review-analyzer/internal/config"
	"github.com/jonathan/review-analyzer/internal/gateway"
	"github.com/jonathan/review-analyzer/internal/ingestion"
	"github.com/jonathan/review-analyzer/internal/llm"
	"github.com/jonathan/review-analyzer/internal/logging"
	"github.com/jonathan/review-analyzer/internal/report"
	"github.com/jonathan/review-analyzer/internal/session"
)

// app bundles everything a command needs to drive a session
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	gateway  *gateway.LLMGateway
	archive  *archive.Archive
	session  *session.Controller
	renderer *report.Renderer
}

// newApp loads configuration and wires the gateway, archive and session.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	logger := logging.New(cfg.LogLevel, cfg.Verbose)

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	arch, err := archive.Open(ctx, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	llmConfig := llm.ConfigForProvider(llm.Provider(cfg.Provider), cfg.AWSRegion)
	if cfg.Temperature > 0 {
		llmConfig.Temperature = float32(cfg.Temperature)
	}
	gw := gateway.NewLLMGateway(llmConfig, cfg.APIKey, gateway.WithLogger(logger))

	var logo []byte
	if cfg.LogoPath != "" {
		if logo, err = os.ReadFile(cfg.LogoPath); err != nil {
			logger.Warn().Err(err).Str("path", cfg.LogoPath).Msg("logo unavailable, reports will omit it")
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		gateway:  gw,
		archive:  arch,
		session:  session.New(gw, ingestion.NewDocumentExtractor(), arch, session.WithLogger(logger)),
		renderer: report.NewRenderer(logo, report.WithLogger(logger)),
	}, nil
}

// openStore connects the configured archive backend
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (archive.Store, error) {
	switch cfg.ArchiveBackend {
	case config.BackendMemory:
		return archive.NewMemoryStore(), nil
	case config.BackendRedis:
		client, err := archive.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return archive.NewRedisStore(client, cfg.RedisPrefix), nil
	case config.BackendPostgres:
		store, err := archive.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, nil
	default:
		return archive.NewFileStore(cfg.ArchivePath), nil
	}
}

// Close releases the provider client and the archive backend
func (a *app) Close() error {
	return errors.Join(a.gateway.Close(), a.archive.Close())
}
