package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/iocli"
	"github.com/iudanet/treekeeper/internal/client/remote"
	"github.com/iudanet/treekeeper/internal/client/remote/postgres"
	"github.com/iudanet/treekeeper/internal/client/repository"
	"github.com/iudanet/treekeeper/internal/client/storage/boltdb"
	"github.com/iudanet/treekeeper/internal/client/sync"
	"github.com/iudanet/treekeeper/internal/config"
	"github.com/iudanet/treekeeper/internal/models"
)

// Open wires the local store, the remote gateway and the connectivity
// watcher described by cfg.
func Open(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*Cli, error) {
	boltStorage, err := boltdb.New(ctx, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	closers := []func() error{boltStorage.Close}

	var (
		gateway remote.Gateway
		probe   connectivity.Probe
	)
	switch cfg.Remote.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.Remote.DSN, logger)
		if err != nil {
			// Без базы работаем из кэша до следующего запуска
			logger.Warn("Postgres is not reachable, starting offline", "error", err)
			gateway = offlineGateway{}
			probe = connectivity.ProbeFunc(func(context.Context) error { return err })
			break
		}
		closers = append(closers, func() error { pg.Close(); return nil })
		gateway = pg
		probe = pg
		if url := cfg.ProbeURL(); url != "" {
			probe = connectivity.NewHTTPProbe(url, cfg.Connectivity.ProbeTimeout)
		}
	default:
		gateway = remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey)
		probe = connectivity.NewHTTPProbe(cfg.ProbeURL(), cfg.Connectivity.ProbeTimeout)
	}

	probeCtx, cancel := context.WithTimeout(ctx, cfg.Connectivity.ProbeTimeout)
	watcher := connectivity.NewWatcher(probeCtx, probe, logger)
	cancel()
	closers = append(closers, func() error { watcher.Close(); return nil })

	repo := repository.New(boltStorage, gateway, watcher, logger,
		repository.WithTimeout(cfg.Remote.Timeout))
	syncService := sync.NewService(gateway, boltStorage, logger)

	c := New(io, repo, syncService, boltStorage, watcher, logger)
	c.pollInterval = cfg.Connectivity.PollInterval
	c.closers = closers
	return c, nil
}

// offlineGateway отвечает ErrUnavailable на любой вызов
type offlineGateway struct{}

func (offlineGateway) Select(context.Context, remote.Entity, remote.Query, any) error {
	return remote.ErrUnavailable
}

func (offlineGateway) SelectOne(context.Context, remote.Entity, string, any) error {
	return remote.ErrUnavailable
}

func (offlineGateway) Insert(context.Context, remote.Entity, models.FieldUpdates, any) error {
	return remote.ErrUnavailable
}

func (offlineGateway) Update(context.Context, remote.Entity, string, models.FieldUpdates) error {
	return remote.ErrUnavailable
}
