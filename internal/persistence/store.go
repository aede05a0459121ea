package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/repository"
)

// Prober reports whether a backing dependency is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// EmployeeStore is the record store selected by STORE_DRIVER together with
// the probes readiness should check for it.
type EmployeeStore struct {
	Repository repository.EmployeeRepository
	Probes     map[string]Prober
	close      func()
}

// Close releases whatever connection the store holds.
func (s *EmployeeStore) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenEmployeeStore builds the record store selected by STORE_DRIVER.
func OpenEmployeeStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*EmployeeStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory employee store; records are lost on restart")
		repo := repository.NewMemoryEmployeeRepository()
		return &EmployeeStore{Repository: repo, Probes: map[string]Prober{"store": repo}}, nil

	case config.StoreDriverFile:
		repo, err := repository.NewFileEmployeeRepository(cfg.Store.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open employee file %s: %w", cfg.Store.FilePath, err)
		}
		logger.Info("using file employee store", zap.String("path", cfg.Store.FilePath))
		return &EmployeeStore{Repository: repo, Probes: map[string]Prober{"store": repo}}, nil

	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), DefaultMigrationsDir, logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &EmployeeStore{
			Repository: repository.NewPostgresEmployeeRepository(pg.PoolHandle()),
			Probes:     map[string]Prober{"postgres": pg},
			close:      pg.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
