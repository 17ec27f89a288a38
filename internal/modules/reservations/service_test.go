package reservations

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

func newTestService(t *testing.T) (*Service, docstore.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	store, err := docstore.NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store), store
}

func seed(t *testing.T, store docstore.Store, id string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), "clients/acme/reservas", id, data))
}

func TestListSortsMixedDateShapes(t *testing.T) {
	svc, store := newTestService(t)
	// the stored created_at values intentionally vary in shape
	seed(t, store, "iso", map[string]any{"created_at": "2025-06-01T10:00:00Z", "cliente_nombre": "B"})
	seed(t, store, "legacy", map[string]any{"created_at": "01/01/2025", "cliente_nombre": "A"})
	seed(t, store, "ts", map[string]any{"created_at": map[string]any{"seconds": float64(1767225600)}, "cliente_nombre": "C"})
	seed(t, store, "none", map[string]any{"cliente_nombre": "D"})

	out, err := svc.List(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "ts", out[0].ID)     // 2026-01-01
	assert.Equal(t, "iso", out[1].ID)    // 2025-06-01
	assert.Equal(t, "legacy", out[2].ID) // 2025-01-01
	assert.Equal(t, "none", out[3].ID)   // missing sorts last
}

func TestSearchNoMatchIsEmpty(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, "r1", map[string]any{"cliente_nombre": "Pedro Soto"})

	out, err := svc.Search(context.Background(), "acme", "no-such-client")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = svc.Search(context.Background(), "acme", "pedro")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestUpdateStatusValidates(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, "r1", map[string]any{"estado": "PENDIENTE_PAGO"})

	err := svc.UpdateStatus(context.Background(), "acme", "r1", "INVALIDO")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.UpdateStatus(context.Background(), "acme", "r1", domain.ReservationConfirmed))
	r, err := svc.Get(context.Background(), "acme", "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, r.Status)

	err = svc.UpdateStatus(context.Background(), "acme", "ghost", domain.ReservationConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevenueSkipsCancelled(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, "r1", map[string]any{"estado": "CONFIRMADA", "precio_total": float64(100)})
	seed(t, store, "r2", map[string]any{"estado": "CANCELADA", "precio_total": float64(500)})
	seed(t, store, "r3", map[string]any{"estado": "COMPLETADA", "precio_total": float64(50)})

	total, err := svc.Revenue(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)
}

func TestTenantIsolation(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, "r1", map[string]any{"cliente_nombre": "Pedro"})
	require.NoError(t, store.Set(context.Background(), "clients/otro/reservas", "x1", map[string]any{"cliente_nombre": "Ana"}))

	out, err := svc.List(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = svc.List(context.Background(), "")
	assert.ErrorIs(t, err, docstore.ErrEmptyTenant)
}
