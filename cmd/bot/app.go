package main

import (
	"context"
	"fmt"

	"github.com/xaenox/chatcore/internal/engine"
	"github.com/xaenox/chatcore/internal/knowledge"
	"github.com/xaenox/chatcore/internal/storage"
	"github.com/xaenox/chatcore/pkg/config"
	"go.uber.org/zap"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Storage
	core   *engine.Core
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// setup loads configuration, opens the snapshot storage and wires the pipeline
func setup(ctx context.Context) (*app, error) {
	// Initialize logger
	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err), zap.String("path", configPath))
		return nil, err
	}

	// Initialize storage
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", zap.Error(err))
		return nil, err
	}

	loader := knowledge.NewLoader(store, logger)
	core := engine.NewCore(ctx, loader, engine.Options{
		KnowledgeKey: cfg.Storage.KnowledgeKey,
		AutoReplyKey: cfg.Storage.AutoReplyKey,
		BotName:      cfg.Bot.Name,
		MaxSenders:   cfg.Context.MaxSenders,
		ContextTTL:   cfg.Context.TTL,
		Policy:       engine.NewEveryN(cfg.Learning.PersistEvery),
	}, logger)

	return &app{cfg: cfg, logger: logger, store: store, core: core}, nil
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage(), nil
	case config.BackendPostgres:
		logger.Info("Using PostgreSQL storage")
		db := cfg.Storage.Database
		return storage.NewPostgresStorage(ctx, storage.DatabaseConfig{
			Host:     db.Host,
			Port:     db.Port,
			User:     db.User,
			Password: db.Password,
			DBName:   db.DBName,
			SSLMode:  db.SSLMode,
		}, logger)
	default:
		logger.Info("Using file storage", zap.String("dir", cfg.Storage.Dir))
		return storage.NewFileStorage(cfg.Storage.Dir)
	}
}

// shutdown persists learned words and releases storage
func (a *app) shutdown(ctx context.Context) {
	a.logger.Info("Saving learning data")
	a.core.Close(ctx)
	if err := a.store.Close(); err != nil {
		a.logger.Error("Failed to close storage", zap.Error(err))
	}
	a.logger.Sync()
}
