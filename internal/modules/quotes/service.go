package quotes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
	"maquidash/internal/pkg/dates"
)

// Service owns the global quotes collection and the live pipeline board.
type Service struct {
	store docstore.Store
	log   zerolog.Logger

	mu    sync.Mutex
	board *Board
	unsub docstore.Unsubscribe

	// onBoard fires with a board snapshot after every rebuild or
	// optimistic mutation; the websocket stream hangs off it.
	onBoard func(*Board)
}

func NewService(store docstore.Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "quotes").Logger(),
		board: BuildBoard(nil),
	}
}

// Start opens the live subscription feeding the board. Close releases it.
func (s *Service) Start() error {
	unsub, err := s.store.SubscribeCollection(docstore.ColQuotes, func(docs []docstore.Document) {
		all := decodeQuotes(docs)
		s.mu.Lock()
		s.board = BuildBoard(all)
		snapshot := s.board.clone()
		cb := s.onBoard
		s.mu.Unlock()
		if cb != nil {
			cb(snapshot)
		}
	})
	if err != nil {
		return err
	}
	s.unsub = unsub
	return nil
}

func (s *Service) Close() {
	if s.unsub != nil {
		s.unsub()
	}
}

// OnBoard registers the board push hook. Must be set before Start.
func (s *Service) OnBoard(fn func(*Board)) { s.onBoard = fn }

// Board returns a snapshot safe to render or serialize.
func (s *Service) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.clone()
}

// MoveQuote is the drag operation: optimistic local move first, then the
// single-field status write when the column changed. A failed write rolls
// the optimistic move back so local and remote state cannot drift until
// the next snapshot.
func (s *Service) MoveQuote(ctx context.Context, id string, from, to domain.QuoteStatus, toIndex int) error {
	s.mu.Lock()
	cmd, err := s.board.move(id, from, to, toIndex)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if cmd == nil {
		// Same column, same position: no store write is issued.
		s.mu.Unlock()
		return nil
	}
	cmd.Apply()
	snapshot := s.board.clone()
	cb := s.onBoard
	s.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}

	if !cmd.StateChanged() {
		return nil
	}

	if err := s.store.Update(ctx, docstore.ColQuotes, id, map[string]any{"estado": string(to)}); err != nil {
		s.log.Error().Err(err).Str("quote", id).Msg("status write failed, rolling back")
		s.mu.Lock()
		cmd.Rollback()
		snapshot := s.board.clone()
		s.mu.Unlock()
		if cb != nil {
			cb(snapshot)
		}
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.Quote, error) {
	docs, err := s.store.List(ctx, docstore.ColQuotes)
	if err != nil {
		return nil, err
	}
	return decodeQuotes(docs), nil
}

// Search filters quotes by a case-insensitive substring across the fixed
// text fields. An empty term matches everything; no matches is an empty
// slice, never an error.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Quote, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Quote, 0, len(all))
	for _, q := range all {
		if matchesSearch(term, q.Code, q.Machinery, q.ClientName, q.ClientCompany, q.ClientEmail) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Quote, error) {
	doc, err := s.store.Get(ctx, docstore.ColQuotes, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	q := decodeQuote(doc)
	return &q, nil
}

func (s *Service) Create(ctx context.Context, q domain.Quote) (*domain.Quote, error) {
	if q.ClientName == "" || q.Machinery == "" {
		return nil, ErrValidation
	}
	if q.Status == "" {
		q.Status = domain.QuoteNew
	}
	if !q.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	q.ID = uuid.NewString()
	if q.Code == "" {
		q.Code = "COT-" + strings.ToUpper(q.ID[:8])
	}
	if q.CreatedAt.IsMissing() {
		q.CreatedAt = dates.Parse(time.Now().UTC().Format(time.RFC3339))
	}

	data, err := docstore.ToData(q)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, docstore.ColQuotes, q.ID, data); err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateStatus is the non-drag status edit; same validation, no board
// bookkeeping since the snapshot refresh handles it.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.QuoteStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.ColQuotes, id, map[string]any{"estado": string(status)})
}

func (s *Service) Update(ctx context.Context, id string, fields map[string]any) error {
	if raw, ok := fields["estado"]; ok {
		if st, ok := raw.(string); !ok || !domain.QuoteStatus(st).Valid() {
			return ErrInvalidStatus
		}
	}
	delete(fields, "id")
	err := s.store.Update(ctx, docstore.ColQuotes, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Delete is irreversible; the confirmation step lives at the API surface.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, docstore.ColQuotes, id)
}

// PipelineValue sums the quoted price across all quotes.
func (s *Service) PipelineValue(ctx context.Context) (float64, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, q := range all {
		total += q.QuotedPrice
	}
	return total, nil
}

func matchesSearch(term string, fields ...string) bool {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func decodeQuotes(docs []docstore.Document) []domain.Quote {
	out := make([]domain.Quote, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decodeQuote(doc))
	}
	return out
}

func decodeQuote(doc docstore.Document) domain.Quote {
	var q domain.Quote
	if err := doc.DataTo(&q); err != nil {
		// Undecodable records still render as a card with an ID.
		q = domain.Quote{}
	}
	q.ID = doc.ID
	return q
}
