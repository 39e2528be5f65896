// Package bootstrap wires configuration into the directory service and its
// collaborators. Both binaries share it.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raftlab/userdir/internal/cache"
	"github.com/raftlab/userdir/internal/config"
	"github.com/raftlab/userdir/internal/directory"
	"github.com/raftlab/userdir/internal/httpclient"
	"github.com/raftlab/userdir/internal/metrics"
)

// App holds the wired components.
type App struct {
	Store     cache.Store
	Directory *directory.Service

	closeStore func() error
}

// Close releases the cache store.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

// New builds the cache store, HTTP client and directory service from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*App, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("cache ready", "backend", cfg.CacheBackend, "ttl", cfg.CacheTTL)

	client := httpclient.New(httpclient.Options{
		APIKey:  cfg.API.APIKey,
		Timeout: cfg.HTTPTimeout,
		Retry: httpclient.RetryPolicy{
			MaxRetries: cfg.RetryMax,
			BaseDelay:  cfg.RetryBaseDelay,
		},
		Logger:  logger,
		Metrics: recorder,
	})

	svc, err := directory.NewService(directory.Config{
		BaseURL: cfg.API.BaseURL,
		Client:  client,
		Store:   store,
		TTL:     cfg.CacheTTL,
		Logger:  logger,
		Metrics: recorder,
	})
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, fmt.Errorf("create directory service: %w", err)
	}

	return &App{Store: store, Directory: svc, closeStore: closeStore}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (cache.Store, func() error, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.CacheBackendMemory, "":
		return cache.NewMemoryStore(cache.DefaultCleanupInterval), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
