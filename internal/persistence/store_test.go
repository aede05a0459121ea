package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/domain"
)

func TestOpenEmployeeStoreFileDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "employees.json")
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverFile, FilePath: path}}

	ctx := context.Background()
	store, err := OpenEmployeeStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Repository.Create(ctx, &domain.Employee{Name: "Alice", Designation: "CEO"}))
	require.Contains(t, store.Probes, "store")
	require.NoError(t, store.Probes["store"].Ping(ctx))

	reopened, err := OpenEmployeeStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()
	employees, err := reopened.Repository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestOpenEmployeeStoreMemoryDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}}
	store, err := OpenEmployeeStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	employees, err := store.Repository.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestOpenEmployeeStoreRejectsBadConfig(t *testing.T) {
	for _, cfg := range []*config.Config{
		{Store: config.StoreConfig{Driver: "sqlite"}},
		{Store: config.StoreConfig{Driver: config.StoreDriverPostgres}},
	} {
		_, err := OpenEmployeeStore(context.Background(), cfg, zap.NewNop())
		assert.Error(t, err, cfg.Store.Driver)
	}
}
