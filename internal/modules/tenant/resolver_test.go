package tenant

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maquidash/internal/database"
	"maquidash/internal/docstore"
)

func newTestStore(t *testing.T) docstore.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	store, err := docstore.NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestWatchEmptyTenantStaysIdle(t *testing.T) {
	store := newTestStore(t)

	r, err := Watch(store, "", nil)
	require.NoError(t, err)
	defer r.Close()

	cfg, loading, werr := r.Snapshot()
	assert.Nil(t, cfg)
	assert.False(t, loading)
	assert.NoError(t, werr)
}

func TestWatchMissingTenant(t *testing.T) {
	store := newTestStore(t)

	r, err := Watch(store, "ghost", nil)
	require.NoError(t, err)
	defer r.Close()

	cfg, loading, werr := r.Snapshot()
	assert.Nil(t, cfg)
	assert.False(t, loading, "the first emission clears loading even on absence")
	assert.ErrorIs(t, werr, ErrTenantNotFound)
}

func TestWatchFollowsConfigChanges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, docstore.ColClients, "aremko", map[string]any{
		"businessName": "Aremko",
		"businessType": "maquinaria",
	}))

	var changes []*Config
	r, err := Watch(store, "aremko", func(cfg *Config, err error) {
		changes = append(changes, cfg)
	})
	require.NoError(t, err)
	defer r.Close()

	cfg, loading, werr := r.Snapshot()
	require.NotNil(t, cfg)
	assert.False(t, loading)
	assert.NoError(t, werr)
	assert.Equal(t, "Aremko", cfg.Name)
	assert.Equal(t, "maquinaria", cfg.BusinessType)

	require.NoError(t, store.Update(ctx, docstore.ColClients, "aremko", map[string]any{
		"businessName": "Aremko SpA",
	}))

	cfg, _, _ = r.Snapshot()
	assert.Equal(t, "Aremko SpA", cfg.Name, "emissions replace the config atomically")
	require.Len(t, changes, 2)
}

func TestResolverCloseIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	r, err := Watch(store, "aremko", nil)
	require.NoError(t, err)

	r.Close()
	r.Close()

	idle, err := Watch(store, "", nil)
	require.NoError(t, err)
	idle.Close()
}

func TestRegistryUpdateSettingsMerges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, docstore.ColClients, "aremko", map[string]any{
		"businessName": "Aremko",
		"businessType": "maquinaria",
	}))

	svc := NewService(store, zerolog.Nop())
	require.NoError(t, svc.UpdateSettings(ctx, "aremko", map[string]any{"companySubtitle": "Venta y arriendo"}))

	got, err := svc.Get(ctx, "aremko")
	require.NoError(t, err)
	assert.Equal(t, "Aremko", got.BusinessName, "merge preserves untouched fields")
	assert.Equal(t, "Venta y arriendo", got.Subtitle)
}
