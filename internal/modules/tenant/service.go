package tenant

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
)

// Service is the tenant registry: listing, lookups and settings writes.
type Service struct {
	store docstore.Store
	log   zerolog.Logger
}

func NewService(store docstore.Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log.With().Str("component", "tenant").Logger()}
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	docs, err := s.store.List(ctx, docstore.ColClients)
	if err != nil {
		return nil, err
	}
	tenants := make([]domain.Tenant, 0, len(docs))
	for _, doc := range docs {
		var t domain.Tenant
		if err := doc.DataTo(&t); err != nil {
			s.log.Warn().Err(err).Str("tenant", doc.ID).Msg("skipping undecodable tenant")
			continue
		}
		t.ID = doc.ID
		tenants = append(tenants, t)
	}
	return tenants, nil
}

func (s *Service) Get(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	doc, err := s.store.Get(ctx, docstore.ColClients, tenantID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	var t domain.Tenant
	if err := doc.DataTo(&t); err != nil {
		return nil, err
	}
	t.ID = doc.ID
	return &t, nil
}

// UpdateSettings merges display settings onto the tenant document.
func (s *Service) UpdateSettings(ctx context.Context, tenantID string, settings map[string]any) error {
	if _, err := s.Get(ctx, tenantID); err != nil {
		return err
	}
	delete(settings, "id")
	return s.store.Set(ctx, docstore.ColClients, tenantID, settings)
}

// UpdateNomenclature replaces the UI label overrides for the tenant.
func (s *Service) UpdateNomenclature(ctx context.Context, tenantID string, nomenclature map[string]any) error {
	if _, err := s.Get(ctx, tenantID); err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.ColClients, tenantID, map[string]any{
		"nomenclature": nomenclature,
	})
}
