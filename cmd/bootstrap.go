package cmd

import (
	"context"
	"fmt"

	"survey-integrity/core/config"
	"survey-integrity/core/database"
	"survey-integrity/core/logger"
	"survey-integrity/core/storage"
	"survey-integrity/feature/integrity"
	"survey-integrity/feature/integrity/store"
	"survey-integrity/feature/survey"

	"go.uber.org/zap"
)

// needs selects the optional backends a command requires.
type needs struct {
	// storage creates a storage client even when the survey is read from disk.
	storage bool
	// history fails the command when the run history database is unavailable.
	history bool
	// source overrides the configured survey source when set.
	source string
}

// runtime is the wiring shared by every command.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  storage.Client
	runs    *store.Store
	service *integrity.Service
}

// bootstrap loads the configuration and builds the integrity service.
func bootstrap(ctx context.Context, n needs) (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if n.source != "" {
		cfg.Survey.Source = n.source
		if !cfg.Survey.IsValidSource() {
			return nil, fmt.Errorf("invalid survey source %q (expected %s or %s)", n.source, survey.SourceFile, survey.SourceStorage)
		}
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	if n.storage || cfg.Survey.Source == survey.SourceStorage {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		rt.client = client
	}

	switch {
	case cfg.Database.Enabled:
		runs, err := openHistory(ctx, cfg.Database)
		if err != nil {
			if n.history {
				return nil, err
			}
			logg.Warn("Optional history database unavailable", zap.Error(err))
			break
		}
		rt.runs = runs
		logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
	case n.history:
		return nil, fmt.Errorf("%w: set DATABASE_ENABLED=true", integrity.ErrHistoryDisabled)
	}

	opener, err := cfg.Survey.Opener(rt.client, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}

	profile := survey.NewProfile(cfg.Survey)
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	rt.service = integrity.NewService(opener, profile, rt.client, cfg.Storage.Bucket, logg, rt.runs)
	return rt, nil
}

func openHistory(ctx context.Context, cfg database.Config) (*store.Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("history database: %w", err)
	}
	runs := store.New(db)
	if err := runs.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return runs, nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
	if rt.runs == nil {
		return
	}
	if sqlDB, err := rt.runs.DB().DB(); err == nil {
		_ = sqlDB.Close()
	}
}
