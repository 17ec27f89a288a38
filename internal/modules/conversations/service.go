package conversations

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
	"maquidash/internal/pkg/dates"
)

const collection = "conversaciones"

var ErrNotFound = errors.New("conversation not found")

// Sender delivers an outbound WhatsApp message. Satisfied by relay.Client.
type Sender interface {
	SendMessage(ctx context.Context, phone, message string) error
}

type Service struct {
	store  docstore.Store
	sender Sender
	log    zerolog.Logger
}

func NewService(store docstore.Store, sender Sender, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		sender: sender,
		log:    log.With().Str("component", "conversations").Logger(),
	}
}

func (s *Service) scoped(tenantID string) (*docstore.Scoped, error) {
	return docstore.NewScoped(s.store, tenantID)
}

// List returns the tenant's conversations, most recent activity first.
func (s *Service) List(ctx context.Context, tenantID string) ([]domain.Conversation, error) {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return nil, err
	}
	docs, err := sc.ListOrdered(ctx, collection, "ultimaFecha", true)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Conversation, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decode(doc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastDate.SortKey() > out[j].LastDate.SortKey()
	})
	return out, nil
}

// Get loads one conversation by phone number, which doubles as its document
// ID.
func (s *Service) Get(ctx context.Context, tenantID, phone string) (*domain.Conversation, error) {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return nil, err
	}
	doc, err := sc.Get(ctx, collection, phone)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	conv := decode(doc)
	return &conv, nil
}

// SetAgentPaused toggles the automated agent for a single conversation. The
// agent checks this flag before replying, so a pause takes effect on the
// next inbound message.
func (s *Service) SetAgentPaused(ctx context.Context, tenantID, phone string, paused bool) error {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	err = sc.Update(ctx, collection, phone, map[string]any{"agentePausado": paused})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) MarkRead(ctx context.Context, tenantID, phone string) error {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	err = sc.Update(ctx, collection, phone, map[string]any{"unread": false})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SendMessage relays a text to the client and appends it to the local
// history so the panel reflects it without waiting for the agent backend
// to write its own copy.
func (s *Service) SendMessage(ctx context.Context, tenantID, phone, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("message is empty")
	}
	if err := s.sender.SendMessage(ctx, phone, text); err != nil {
		return err
	}

	conv, err := s.Get(ctx, tenantID, phone)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		conv = &domain.Conversation{Phone: phone}
	}

	now := dates.Parse(time.Now())
	conv.Messages = append(conv.Messages, domain.Message{
		Role:      domain.MessageRoleModel,
		Parts:     []domain.MessagePart{{Text: text}},
		Timestamp: now,
		Type:      "text",
	})
	conv.LastMessage = text
	conv.LastDate = now
	conv.Unread = false

	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	data, err := docstore.ToData(conv)
	if err != nil {
		return err
	}
	// omitempty drops false flags from the merge payload; clearing the
	// unread marker needs the field present.
	data["unread"] = false
	return sc.Set(ctx, collection, phone, data)
}

func decode(doc docstore.Document) domain.Conversation {
	var conv domain.Conversation
	if err := doc.DataTo(&conv); err != nil {
		conv = domain.Conversation{}
	}
	if conv.Phone == "" {
		conv.Phone = doc.ID
	}
	return conv
}
