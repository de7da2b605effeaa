// Package di builds the storefront's components from configuration.
package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/fondantshop/pkg/config"
	"github.com/example/fondantshop/pkg/discovery"
	"github.com/example/fondantshop/pkg/grpc"
	"github.com/example/fondantshop/pkg/repository"
	"go.uber.org/zap"
)

// Storage is an opened backend with its change signal. Signal is nil when
// the configuration has no way to announce changes to other pages.
type Storage struct {
	Backend repository.Backend
	Signal  repository.Signal
	// Mongo is set for the mongodb driver; it also holds the audit log.
	Mongo *repository.MongoRepository

	closers []func() error
}

func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStorage opens the backend named by cfg.Store.Driver. disc may be nil.
func OpenStorage(ctx context.Context, cfg *config.Config, disc discovery.Discoverer, logger *zap.Logger) (*Storage, error) {
	logger = logger.Named("storage")
	s := &Storage{}

	backend, err := openBackend(ctx, cfg, disc, s, logger)
	if err != nil {
		return nil, err
	}
	s.Backend = backend
	s.closers = append(s.closers, backend.Close)

	if sig, ok := backend.(repository.Signal); ok {
		s.Signal = sig
	} else if err := openSignal(cfg, s, logger); err != nil {
		s.Close()
		return nil, err
	}

	logger.Info("Storage opened",
		zap.String("driver", cfg.Store.Driver),
		zap.Bool("cross_tab", s.Signal != nil))
	return s, nil
}

func openBackend(ctx context.Context, cfg *config.Config, disc discovery.Discoverer, s *Storage, logger *zap.Logger) (repository.Backend, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		return repository.NewMemoryRepository(), nil

	case "redis":
		repo := repository.NewRedisRepository(&cfg.Redis, cfg.Store.SignalChannel, logger)
		if err := repo.Ping(ctx); err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return repo, nil

	case "etcd":
		return repository.NewEtcdRepository(&cfg.Etcd, logger)

	case "mysql":
		return repository.NewMySQLRepository(&cfg.MySQL)

	case "postgres":
		return repository.OpenSQLRepository(ctx, repository.DialectPostgres, cfg.Postgres.DSN)

	case "sqlite":
		return repository.OpenSQLRepository(ctx, repository.DialectSQLite, cfg.SQLite.Path)

	case "mongodb":
		repo, err := repository.NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		s.Mongo = repo
		return repo, nil

	case "firestore":
		return repository.NewFirestoreRepository(ctx, &cfg.Firestore)

	case "remote":
		return grpc.DialStore(ctx, disc, cfg.Store.RemoteAddr, logger)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openSignal(cfg *config.Config, s *Storage, logger *zap.Logger) error {
	switch cfg.Store.Signal {
	case "":
		return nil
	case "redis":
		repo := repository.NewRedisRepository(&cfg.Redis, cfg.Store.SignalChannel, logger)
		s.Signal = repo
		s.closers = append(s.closers, repo.Close)
	case "etcd":
		repo, err := repository.NewEtcdRepository(&cfg.Etcd, logger)
		if err != nil {
			return err
		}
		s.Signal = repo
		s.closers = append(s.closers, repo.Close)
	default:
		return fmt.Errorf("unknown store signal %q", cfg.Store.Signal)
	}
	return nil
}
