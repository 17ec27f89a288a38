package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maquidash/internal/database"
	"maquidash/internal/docstore"
	"maquidash/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	store, err := docstore.NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store)
}

func TestCreateDefaultsAndValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Machinery{Name: "Sin categoría"})
	assert.ErrorIs(t, err, ErrValidation)

	m, err := svc.Create(ctx, domain.Machinery{Name: "Excavadora 20t", Category: "Excavación", Active: true})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, domain.StockAvailable, m.Stock)

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Excavadora 20t", got.Name)
}

func TestListFeaturedFirstThenName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Machinery{Name: "Zanjadora", Category: "Excavación", Active: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Machinery{Name: "Grúa torre", Category: "Izaje", Active: true, Featured: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Machinery{Name: "Apisonadora", Category: "Compactación", Active: false})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Grúa torre", all[0].Name)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSearchCoversTags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Machinery{
		Name: "Retroexcavadora", Category: "Excavación", Active: true,
		Tags: []string{"obra gruesa", "movimiento de tierra"},
	})
	require.NoError(t, err)

	out, err := svc.Search(ctx, "tierra", false)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = svc.Search(ctx, "perforadora", false)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestUpdateValidatesStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, domain.Machinery{Name: "Grúa", Category: "Izaje"})
	require.NoError(t, err)

	err = svc.Update(ctx, m.ID, map[string]any{"estadoStock": "INVENTADO"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.Update(ctx, m.ID, map[string]any{"estadoStock": "AGOTADO"}))
	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StockSoldOut, got.Stock)
}

func TestSetActiveAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, domain.Machinery{Name: "Grúa", Category: "Izaje", Active: true})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, m.ID, false))
	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, svc.Delete(ctx, m.ID))
	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
