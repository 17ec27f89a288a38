package docstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maquidash/internal/database"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	store, err := NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := map[string]any{
		"codigo_cotizacion": "COT-001",
		"precio_cotizado":   float64(125000),
		"estado":            "NUEVA",
	}
	require.NoError(t, store.Set(ctx, "cotizaciones", "q1", data))

	doc, err := store.Get(ctx, "cotizaciones", "q1")
	require.NoError(t, err)
	assert.Equal(t, "q1", doc.ID)
	assert.Equal(t, data, doc.Data)
}

func TestSetMerges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cotizaciones", "q1", map[string]any{"estado": "NUEVA", "notas": "first"}))
	require.NoError(t, store.Set(ctx, "cotizaciones", "q1", map[string]any{"estado": "CONTACTADO"}))

	doc, err := store.Get(ctx, "cotizaciones", "q1")
	require.NoError(t, err)
	assert.Equal(t, "CONTACTADO", doc.Data["estado"])
	assert.Equal(t, "first", doc.Data["notas"], "untouched fields survive a merge")
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "cotizaciones", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRequiresExistingDoc(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), "cotizaciones", "missing", map[string]any{"estado": "VENDIDA"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cotizaciones", "q1", map[string]any{"estado": "NUEVA"}))
	require.NoError(t, store.Delete(ctx, "cotizaciones", "q1"))

	_, err := store.Get(ctx, "cotizaciones", "q1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidPathRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.List(ctx, "clients/acme")
	assert.ErrorIs(t, err, ErrInvalidPath)

	err = store.Set(ctx, "", "q1", map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSubscribeCollectionSnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cotizaciones", "q1", map[string]any{"estado": "NUEVA"}))

	var emissions [][]Document
	unsub, err := store.SubscribeCollection("cotizaciones", func(docs []Document) {
		emissions = append(emissions, docs)
	})
	require.NoError(t, err)

	// initial snapshot arrives before any further write
	require.Len(t, emissions, 1)
	assert.Len(t, emissions[0], 1)

	require.NoError(t, store.Set(ctx, "cotizaciones", "q2", map[string]any{"estado": "NUEVA"}))
	require.Len(t, emissions, 2)
	assert.Len(t, emissions[1], 2, "every emission is a total snapshot")

	unsub()
	require.NoError(t, store.Set(ctx, "cotizaciones", "q3", map[string]any{"estado": "NUEVA"}))
	assert.Len(t, emissions, 2, "no emissions after unsubscribe")

	// second call is a no-op, not a panic
	unsub()
}

func TestSubscribeDocExistence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type emission struct {
		doc    Document
		exists bool
	}
	var emissions []emission
	unsub, err := store.SubscribeDoc("clients", "acme", func(doc Document, exists bool) {
		emissions = append(emissions, emission{doc, exists})
	})
	require.NoError(t, err)
	defer unsub()

	require.Len(t, emissions, 1)
	assert.False(t, emissions[0].exists, "missing doc is a state, not an error")

	require.NoError(t, store.Set(ctx, "clients", "acme", map[string]any{"businessName": "Acme"}))
	require.Len(t, emissions, 2)
	assert.True(t, emissions[1].exists)
	assert.Equal(t, "Acme", emissions[1].doc.Data["businessName"])

	require.NoError(t, store.Delete(ctx, "clients", "acme"))
	require.Len(t, emissions, 3)
	assert.False(t, emissions[2].exists)
}

func TestBulkBatchCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bulk := store.Bulk()
	for i := 0; i < MaxBatchOps; i++ {
		bulk.Set("clients/acme/reservas", fmt.Sprintf("r%04d", i), map[string]any{"n": i})
	}
	batches, err := bulk.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, batches)

	bulk = store.Bulk()
	for i := 0; i < MaxBatchOps+1; i++ {
		bulk.Set("clients/acme/huespedes", fmt.Sprintf("h%04d", i), map[string]any{"n": i})
	}
	batches, err = bulk.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, batches)

	docs, err := store.List(ctx, "clients/acme/huespedes")
	require.NoError(t, err)
	assert.Len(t, docs, MaxBatchOps+1)
}
