package main

import (
	"context"
	"fmt"
	"time"

	"stock-forecaster/src/cache"
	"stock-forecaster/src/config"
	datasource "stock-forecaster/src/data_source"
	"stock-forecaster/src/data_source/alpaca"
	"stock-forecaster/src/data_source/yahoo"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/network"
	"stock-forecaster/src/pipeline"
	"stock-forecaster/src/storage"
)

// app holds the components shared by every command.
type app struct {
	Config   *config.Config
	Logger   *logger.Logger
	Pipeline *pipeline.Pipeline
	Store    interfaces.IRunStore
	Cache    interfaces.IHistoryCache
}

// -----------------------------------------------------------------------------

func newApp(configPath string) (*app, error) {
	conf, err := config.NewConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(conf.LogLevel))
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	networkManager := setupNetwork(conf.MConfig)

	provider, historyCache, err := setupDataSources(conf.MConfig, appLogger, networkManager)
	if err != nil {
		return nil, err
	}

	store, err := setupDatabase(conf.MConfig, appLogger)
	if err != nil {
		historyCache.Close()
		return nil, err
	}

	return &app{
		Config:   conf,
		Logger:   appLogger,
		Pipeline: pipeline.NewPipeline(conf.MConfig, provider, store),
		Store:    store,
		Cache:    historyCache,
	}, nil
}

// -----------------------------------------------------------------------------

func (a *app) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Warning("Failed to close store: %v", err)
	}
	if err := a.Cache.Close(); err != nil {
		a.Logger.Warning("Failed to close cache: %v", err)
	}
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewAsyncNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

// setupDataSources registers the providers, selects the configured one and
// puts the history cache in front of it when enabled.
func setupDataSources(config *models.MConfig, appLogger *logger.Logger, networkManager interfaces.INetworkManager) (interfaces.IMarketDataProvider, interfaces.IHistoryCache, error) {
	providers := []interfaces.IMarketDataProvider{
		yahoo.NewYahooFinanceSource(config, networkManager),
	}

	alpacaSource, err := alpaca.NewAlpacaSource(config)
	switch {
	case err == nil:
		providers = append(providers, alpacaSource)
	case config.DataSource.Provider == "alpaca":
		return nil, nil, err
	default:
		appLogger.Debug("Alpaca provider disabled: %v", err)
	}

	manager, err := datasource.NewProviderManager(providers, config.DataSource.Provider, logger.NewLogger(config, "ProviderManager"))
	if err != nil {
		return nil, nil, err
	}
	appLogger.Info("Providers %v, active %s", manager.Names(), manager.Name())

	cacheCfg := config.DataSource.Cache
	if !cacheCfg.Enabled {
		return manager, cache.NoopHistoryCache{}, nil
	}

	redisCache := cache.NewRedisHistoryCache(cacheCfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		appLogger.Warning("History cache unavailable, continuing without it: %v", err)
		redisCache.Close()
		return manager, cache.NoopHistoryCache{}, nil
	}

	ttl := time.Duration(cacheCfg.TTLSeconds) * time.Second
	return datasource.NewCachedProvider(manager, redisCache, ttl), redisCache, nil
}

// -----------------------------------------------------------------------------

// setupDatabase initializes the run store based on config
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IRunStore, error) {
	var db interfaces.IRunStore

	switch config.Storage.DBType {
	case "postgres":
		db = storage.NewPostgresRunStore(config, logger.NewLogger(config, "PostgresRunStore"))
	case "sqlite":
		db = storage.NewSQLiteRunStore(config, logger.NewLogger(config, "SQLiteRunStore"))
	default:
		return storage.NoopRunStore{}, nil
	}

	if err := db.Initialize(); err != nil {
		appLogger.Error("Failed to init run store: %v", err)
		return nil, err
	}
	if err := db.CleanupOldData(); err != nil {
		appLogger.Warning("Run cleanup failed: %v", err)
	}
	return db, nil
}
