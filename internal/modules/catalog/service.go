package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
)

var (
	ErrNotFound   = errors.New("machinery not found")
	ErrValidation = errors.New("validation error")
)

// Service manages the shared machinery catalog. The collection is global:
// every tenant sells from the same list, so nothing here is scoped.
type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// List returns catalog items, optionally restricted to active ones, sorted
// featured first then by name.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Machinery, error) {
	docs, err := s.store.List(ctx, docstore.ColMachinery)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Machinery, 0, len(docs))
	for _, doc := range docs {
		m := decode(doc)
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// Search filters by case-insensitive substring over name, category,
// description and tags.
func (s *Service) Search(ctx context.Context, term string, activeOnly bool) ([]domain.Machinery, error) {
	all, err := s.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return all, nil
	}
	out := make([]domain.Machinery, 0, len(all))
	for _, m := range all {
		if matches(m, term) {
			out = append(out, m)
		}
	}
	return out, nil
}

func matches(m domain.Machinery, term string) bool {
	for _, f := range []string{m.Name, m.Category, m.Description} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Machinery, error) {
	doc, err := s.store.Get(ctx, docstore.ColMachinery, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m := decode(doc)
	return &m, nil
}

func (s *Service) Create(ctx context.Context, m domain.Machinery) (*domain.Machinery, error) {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Category) == "" {
		return nil, ErrValidation
	}
	if m.Stock == "" {
		m.Stock = domain.StockAvailable
	}
	if !validStock(m.Stock) {
		return nil, ErrValidation
	}
	m.ID = uuid.NewString()

	data, err := docstore.ToData(m)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, docstore.ColMachinery, m.ID, data); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return ErrValidation
	}
	if raw, ok := fields["estadoStock"]; ok {
		stock, _ := raw.(string)
		if !validStock(domain.StockStatus(stock)) {
			return ErrValidation
		}
	}
	delete(fields, "id")

	err := s.store.Update(ctx, docstore.ColMachinery, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SetActive soft-hides an item from tenant-facing listings without losing
// its quote history references.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	err := s.store.Update(ctx, docstore.ColMachinery, id, map[string]any{"activa": active})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, docstore.ColMachinery, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func validStock(s domain.StockStatus) bool {
	switch s {
	case domain.StockAvailable, domain.StockOnOrder, domain.StockSoldOut:
		return true
	}
	return false
}

func decode(doc docstore.Document) domain.Machinery {
	var m domain.Machinery
	if err := doc.DataTo(&m); err != nil {
		m = domain.Machinery{}
	}
	m.ID = doc.ID
	return m
}
