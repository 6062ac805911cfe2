package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/issue-tracker/config"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/repository"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/snapshot"
	"go.uber.org/zap"
)

// Store is the repository selected by STORE_BACKEND together with whatever
// must happen when the process stops.
type Store struct {
	Repo        repository.Repository
	Snapshotter *snapshot.Snapshotter

	closers []func()
}

// OpenStore connects the configured backend. For the memory backend with a
// snapshot path, the snapshot is loaded and the scheduler started.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Store, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		log.Info("using redis store", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
		return &Store{
			Repo:    repository.NewRedisRepository(client),
			closers: []func(){func() { _ = client.Close() }},
		}, nil

	case config.BackendPostgres:
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.ConnString()})
		if err != nil {
			return nil, err
		}
		repo := repository.NewPgRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("using postgres store")
		return &Store{
			Repo:    repo,
			closers: []func(){pool.Close},
		}, nil

	case config.BackendMemory:
		repo := repository.NewMemoryRepository()
		st := &Store{Repo: repo}
		if cfg.Snapshot.Path == "" {
			log.Info("using memory store")
			return st, nil
		}

		snap := snapshot.New(repo, cfg.Snapshot.Path, cfg.Snapshot.Schedule, log)
		if err := snap.Load(); err != nil {
			return nil, err
		}
		if err := snap.Start(); err != nil {
			return nil, err
		}
		st.Snapshotter = snap
		log.Info("using memory store with snapshots", zap.String("path", cfg.Snapshot.Path))
		return st, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Close writes the final snapshot and releases connections
func (s *Store) Close(log *zap.Logger) {
	if s.Snapshotter != nil {
		if err := s.Snapshotter.Stop(); err != nil {
			log.Error("final snapshot failed", zap.Error(err))
		}
	}
	for _, c := range s.closers {
		c()
	}
}
