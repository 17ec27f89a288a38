package admin

import (
	"context"
	"errors"
	"strings"

	"maquidash/internal/docstore"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrTenantExists = errors.New("tenant already exists")
)

// Service provisions tenants. Migration is a separate concern on Migrator;
// the HTTP layer composes both.
type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// CreateTenant registers a new client workspace. The ID becomes the
// namespace segment under clients/, so it is validated like one.
func (s *Service) CreateTenant(ctx context.Context, id, businessName, businessType string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") || strings.TrimSpace(businessName) == "" {
		return ErrValidation
	}

	_, err := s.store.Get(ctx, docstore.ColClients, id)
	if err == nil {
		return ErrTenantExists
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	return s.store.Set(ctx, docstore.ColClients, id, map[string]any{
		"businessName": businessName,
		"businessType": businessType,
		"active":       true,
	})
}
