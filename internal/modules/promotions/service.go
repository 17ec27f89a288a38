package promotions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
	"maquidash/internal/pkg/dates"
)

const collection = "promociones"

var (
	ErrNotFound   = errors.New("promotion not found")
	ErrValidation = errors.New("validation error")
)

type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

func (s *Service) scoped(tenantID string) (*docstore.Scoped, error) {
	return docstore.NewScoped(s.store, tenantID)
}

func (s *Service) List(ctx context.Context, tenantID string) ([]domain.Promotion, error) {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return nil, err
	}
	docs, err := sc.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Promotion, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decode(doc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.SortKey() > out[j].CreatedAt.SortKey()
	})
	return out, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*domain.Promotion, error) {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return nil, err
	}
	doc, err := sc.Get(ctx, collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p := decode(doc)
	return &p, nil
}

func (s *Service) Create(ctx context.Context, tenantID string, p domain.Promotion) (*domain.Promotion, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, ErrValidation
	}
	sc, err := s.scoped(tenantID)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = dates.Parse(time.Now())
	p.SendHistory = nil

	data, err := docstore.ToData(p)
	if err != nil {
		return nil, err
	}
	if err := sc.Set(ctx, collection, p.ID, data); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, tenantID, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return ErrValidation
	}
	delete(fields, "id")
	delete(fields, "historialEnvios")

	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	err = sc.Update(ctx, collection, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	return sc.Delete(ctx, collection, id)
}

// RecordSend appends one entry to the promotion's send history after a
// broadcast, keeping totals even when some recipients failed.
func (s *Service) RecordSend(ctx context.Context, tenantID, id string, recipients, sent, failed int) error {
	p, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	p.SendHistory = append(p.SendHistory, domain.SendRecord{
		SentAt:     dates.Parse(time.Now()),
		Recipients: recipients,
		Sent:       sent,
		Failed:     failed,
	})

	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	data, err := docstore.ToData(p)
	if err != nil {
		return err
	}
	return sc.Set(ctx, collection, id, data)
}

func decode(doc docstore.Document) domain.Promotion {
	var p domain.Promotion
	if err := doc.DataTo(&p); err != nil {
		p = domain.Promotion{}
	}
	p.ID = doc.ID
	return p
}
