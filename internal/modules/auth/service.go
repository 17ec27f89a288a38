package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
	jwtsvc "maquidash/internal/pkg/jwt"
)

// Service is the session manager: it authenticates identities, issues
// session tokens and resolves which tenants an identity may access.
//
// Tenant resolution is synchronous and request-scoped here, so the
// stale-resolution race the reactive UI had cannot occur.
type Service struct {
	store      docstore.Store
	provider   Provider
	jwt        *jwtsvc.Service
	revoker    TokenRevoker // nil when no session backing service exists
	adminEmail string
	log        zerolog.Logger
}

type LoginResult struct {
	UID   string
	Email string
	Admin bool
	Token string
}

func NewService(store docstore.Store, provider Provider, jwt *jwtsvc.Service, revoker TokenRevoker, adminEmail string, log zerolog.Logger) *Service {
	return &Service{
		store:      store,
		provider:   provider,
		jwt:        jwt,
		revoker:    revoker,
		adminEmail: adminEmail,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	id, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	admin := s.IsAdmin(id.Email)
	token, err := s.jwt.GenerateToken(id.UID, id.Email, admin)
	if err != nil {
		return nil, newError(CategoryUnknown, err)
	}

	return &LoginResult{UID: id.UID, Email: id.Email, Admin: admin, Token: token}, nil
}

// Logout revokes server-side sessions. No-op when no backing session
// service is configured.
func (s *Service) Logout(ctx context.Context, uid string) error {
	if s.revoker == nil {
		return nil
	}
	return s.revoker.RevokeRefreshTokens(ctx, uid)
}

// IsAdmin is the strict check: exact match on the administrator address.
func (s *Service) IsAdmin(email string) bool {
	return email == s.adminEmail
}

// ResolveTenants returns the tenants the identity may access. The admin
// address, or any email containing "admin" (a deliberately looser check
// than IsAdmin, carried from the original behavior), sees every tenant.
// Other identities see their profile allow-list; a missing profile grants
// access to all tenants. Failures are logged and absorbed: the caller
// always gets a list, possibly empty, never an error.
func (s *Service) ResolveTenants(ctx context.Context, email, uid string) []domain.Tenant {
	if email == s.adminEmail || strings.Contains(email, "admin") {
		return s.allTenants(ctx)
	}

	profileDoc, err := s.store.Get(ctx, docstore.ColUsers, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		// Permissive fallback: no profile document means access to every
		// tenant. Flagged loudly so the broadening stays visible.
		s.log.Warn().Str("uid", uid).Msg("no profile document, falling back to all tenants")
		return s.allTenants(ctx)
	}
	if err != nil {
		s.log.Error().Err(err).Str("uid", uid).Msg("profile fetch failed")
		return []domain.Tenant{}
	}

	var profile domain.UserProfile
	if err := profileDoc.DataTo(&profile); err != nil {
		s.log.Error().Err(err).Str("uid", uid).Msg("profile decode failed")
		return []domain.Tenant{}
	}

	tenants := make([]domain.Tenant, 0, len(profile.Tenants))
	for _, tenantID := range profile.Tenants {
		doc, err := s.store.Get(ctx, docstore.ColClients, tenantID)
		if err != nil {
			// Allow-listed IDs that no longer resolve are dropped.
			s.log.Warn().Err(err).Str("tenant", tenantID).Msg("allow-listed tenant did not resolve")
			continue
		}
		tenants = append(tenants, decodeTenant(doc))
	}
	return tenants
}

func (s *Service) allTenants(ctx context.Context) []domain.Tenant {
	docs, err := s.store.List(ctx, docstore.ColClients)
	if err != nil {
		s.log.Error().Err(err).Msg("tenant list failed")
		return []domain.Tenant{}
	}
	tenants := make([]domain.Tenant, 0, len(docs))
	for _, doc := range docs {
		tenants = append(tenants, decodeTenant(doc))
	}
	return tenants
}

func decodeTenant(doc docstore.Document) domain.Tenant {
	var t domain.Tenant
	if err := doc.DataTo(&t); err != nil {
		return domain.Tenant{ID: doc.ID}
	}
	t.ID = doc.ID
	return t
}
