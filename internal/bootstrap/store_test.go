package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoSim-25-26J-441/issue-tracker/config"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/domain"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/issues/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}

	st, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer st.Close(zap.NewNop())

	assert.IsType(t, &repository.MemoryRepository{}, st.Repo)
	assert.Nil(t, st.Snapshotter)
}

func TestOpenStore_MemoryWithSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "issues.json")
	cfg := &config.Config{
		Store:    config.StoreConfig{Backend: config.BackendMemory},
		Snapshot: config.SnapshotConfig{Path: path, Schedule: "0 0 0 1 1 *"},
	}

	st, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, st.Snapshotter)
	require.NoError(t, st.Repo.Create(ctx, "apitest", &domain.Issue{ID: "1", IssueTitle: "T", IssueText: "X", CreatedBy: "P"}))
	st.Close(zap.NewNop())

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close(zap.NewNop())

	issues, err := reopened.Repo.List(ctx, "apitest", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "1", issues[0].ID)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendRedis},
		Redis: config.RedisConfig{Addr: mr.Addr()},
	}

	st, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer st.Close(zap.NewNop())

	assert.IsType(t, &repository.RedisRepository{}, st.Repo)
	assert.NoError(t, st.Repo.Ping(context.Background()))
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendRedis},
		Redis: config.RedisConfig{Addr: addr},
	}
	_, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "mongo"}}
	_, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
