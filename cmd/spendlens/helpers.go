package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/engine"
	"github.com/spendlens/spendlens/internal/service"
	"github.com/spendlens/spendlens/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("failed to open the training store", err)
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, common.NewUserError("failed to run migrations", err)
	}

	return store, nil
}

// modelPath returns the configured bundle artifact location.
func modelPath() string {
	path := viper.GetString("model.path")
	if path == "" {
		path = config.DefaultModelPath()
	}
	return config.ExpandPath(path)
}

// initEngine creates the categorization engine and attempts the startup
// load. A missing artifact leaves the engine in its not-ready state, which
// is a normal condition for an untrained deployment.
func initEngine() (*engine.Service, error) {
	svc := engine.NewService(modelPath())
	if viper.IsSet("model.threshold") {
		svc.SetThreshold(viper.GetFloat64("model.threshold"))
	}

	if _, err := svc.Load(); err != nil {
		return nil, common.NewUserError("failed to load the model artifact", err)
	}
	return svc, nil
}
