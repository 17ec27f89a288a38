package conversations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maquidash/internal/database"
	"maquidash/internal/docstore"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, phone, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+": "+message)
	return nil
}

func newTestService(t *testing.T) (*Service, docstore.Store, *fakeSender) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Connect(dsn)
	require.NoError(t, err)

	store, err := docstore.NewSQLStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sender := &fakeSender{}
	return NewService(store, sender, zerolog.Nop()), store, sender
}

func seed(t *testing.T, store docstore.Store, phone string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), "clients/acme/conversaciones", phone, data))
}

func TestListOrdersByLastActivity(t *testing.T) {
	svc, store, _ := newTestService(t)
	seed(t, store, "+561", map[string]any{"ultimoMensaje": "viejo", "ultimaFecha": "2025-01-01"})
	seed(t, store, "+562", map[string]any{"ultimoMensaje": "nuevo", "ultimaFecha": "2025-06-01"})
	seed(t, store, "+563", map[string]any{"ultimoMensaje": "sin fecha"})

	out, err := svc.List(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "+562", out[0].Phone)
	assert.Equal(t, "+561", out[1].Phone)
	assert.Equal(t, "+563", out[2].Phone, "missing dates sort last")
}

func TestGetFillsPhoneFromDocID(t *testing.T) {
	svc, store, _ := newTestService(t)
	seed(t, store, "+561", map[string]any{"ultimoMensaje": "hola"})

	conv, err := svc.Get(context.Background(), "acme", "+561")
	require.NoError(t, err)
	assert.Equal(t, "+561", conv.Phone)

	_, err = svc.Get(context.Background(), "acme", "+999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAgentPaused(t *testing.T) {
	svc, store, _ := newTestService(t)
	seed(t, store, "+561", map[string]any{"agentePausado": false})

	require.NoError(t, svc.SetAgentPaused(context.Background(), "acme", "+561", true))

	conv, err := svc.Get(context.Background(), "acme", "+561")
	require.NoError(t, err)
	assert.True(t, conv.AgentPaused)
}

func TestSendMessageAppendsLocally(t *testing.T) {
	svc, store, sender := newTestService(t)
	seed(t, store, "+561", map[string]any{"ultimoMensaje": "pregunta", "unread": true})

	err := svc.SendMessage(context.Background(), "acme", "+561", "respuesta")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	conv, err := svc.Get(context.Background(), "acme", "+561")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "model", conv.Messages[0].Role)
	assert.Equal(t, "respuesta", conv.Messages[0].Parts[0].Text)
	assert.Equal(t, "respuesta", conv.LastMessage)
	assert.False(t, conv.Unread)
}

func TestSendMessageFailureWritesNothing(t *testing.T) {
	svc, store, sender := newTestService(t)
	sender.err = errors.New("backend down")
	seed(t, store, "+561", map[string]any{"ultimoMensaje": "pregunta"})

	err := svc.SendMessage(context.Background(), "acme", "+561", "respuesta")
	require.Error(t, err)

	conv, gerr := svc.Get(context.Background(), "acme", "+561")
	require.NoError(t, gerr)
	assert.Empty(t, conv.Messages, "the local copy is only written after a successful relay")
	assert.Equal(t, "pregunta", conv.LastMessage)
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.SendMessage(context.Background(), "acme", "+561", "   ")
	assert.Error(t, err)
}
