package reservations

import (
	"context"
	"errors"
	"sort"
	"strings"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
)

const collection = "reservas"

var (
	ErrNotFound   = errors.New("reservation not found")
	ErrValidation = errors.New("validation error")
)

// Service reads the tenant-scoped legacy reservation collection. Kept while
// the pipeline pages finish migrating off it; reads dominate, the only
// write is the status edit.
type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

func (s *Service) scoped(tenantID string) (*docstore.Scoped, error) {
	return docstore.NewScoped(s.store, tenantID)
}

// List returns the tenant's reservations ordered newest first. Server-side
// ordering is requested but records carry mixed created_at shapes, so the
// decoded dates drive a second sort.
func (s *Service) List(ctx context.Context, tenantID string) ([]domain.Reservation, error) {
	sc, err := s.scoped(tenantID)
	if err != nil {
		return nil, err
	}
	docs, err := sc.ListOrdered(ctx, collection, "created_at", true)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decode(doc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.SortKey() > out[j].CreatedAt.SortKey()
	})
	return out, nil
}

// Search filters by case-insensitive substring over the client fields and
// the unit name. Empty term matches everything.
func (s *Service) Search(ctx context.Context, tenantID, term string) ([]domain.Reservation, error) {
	all, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return all, nil
	}
	out := make([]domain.Reservation, 0, len(all))
	for _, r := range all {
		for _, f := range []string{r.Code, r.Unit, r.ClientName, r.ClientPhone, r.ClientEmail} {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (*domain.Reservation, error) {
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
	r := decode(doc)
	return &r, nil
}

func (s *Service) UpdateStatus(ctx context.Context, tenantID, id string, status domain.ReservationStatus) error {
	switch status {
	case domain.ReservationPendingPayment, domain.ReservationConfirmed,
		domain.ReservationCompleted, domain.ReservationCancelled:
	default:
		return ErrValidation
	}
	sc, err := s.scoped(tenantID)
	if err != nil {
		return err
	}
	err = sc.Update(ctx, collection, id, map[string]any{"estado": string(status)})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Revenue sums total prices over non-cancelled reservations.
func (s *Service) Revenue(ctx context.Context, tenantID string) (float64, error) {
	all, err := s.List(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range all {
		if r.Status == domain.ReservationCancelled {
			continue
		}
		total += r.TotalPrice
	}
	return total, nil
}

func decode(doc docstore.Document) domain.Reservation {
	var r domain.Reservation
	if err := doc.DataTo(&r); err != nil {
		r = domain.Reservation{}
	}
	r.ID = doc.ID
	return r
}
