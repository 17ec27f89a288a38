package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidPath = errors.New("invalid collection path")
	ErrEmptyTenant = errors.New("empty tenant id")
)

// Document is one record from the store, its ID separated from its fields.
type Document struct {
	ID   string
	Data map[string]any
}

// Unsubscribe releases a live subscription. Exactly one call is required per
// subscribe; calling it again is a no-op.
type Unsubscribe func()

// BulkWriter stages merge-writes and commits them in chunks below the
// store's per-batch operation ceiling. Chunks are applied sequentially and
// are NOT atomic as a whole: a mid-commit failure leaves a partial write.
type BulkWriter interface {
	Set(path, id string, data map[string]any)
	// Commit returns how many batches were applied, including the one that
	// failed when err != nil.
	Commit(ctx context.Context) (int, error)
}

// Store is the document database client. One instance is constructed at
// process start and injected everywhere; its lifetime equals the process.
//
// Collection subscriptions deliver a total snapshot on every change, the
// latest emission wins, and callers must not assume a write they just issued
// is reflected in the very next emission.
type Store interface {
	List(ctx context.Context, path string) ([]Document, error)
	// ListOrdered requests server-side ordering by field. Records are not
	// guaranteed to carry a uniformly typed order field, so callers still
	// re-sort client-side.
	ListOrdered(ctx context.Context, path, field string, desc bool) ([]Document, error)
	Get(ctx context.Context, path, id string) (Document, error)
	// Set merges data into the document, creating it if absent.
	Set(ctx context.Context, path, id string, data map[string]any) error
	// Update writes only the given fields.
	Update(ctx context.Context, path, id string, fields map[string]any) error
	Delete(ctx context.Context, path, id string) error
	SubscribeCollection(path string, fn func([]Document)) (Unsubscribe, error)
	// SubscribeDoc delivers the document and whether it exists. A missing
	// document is a distinct state, not an error.
	SubscribeDoc(path, id string, fn func(Document, bool)) (Unsubscribe, error)
	Bulk() BulkWriter
	Close() error
}

// Global collections shared across all tenants.
const (
	ColClients     = "clients"
	ColUsers       = "users"
	ColQuotes      = "cotizaciones"
	ColMachinery   = "maquinarias"
	ColGlobalConf  = "config"
	DocCompanyConf = "company_settings"
)

// TenantPath roots a collection under the tenant namespace.
func TenantPath(tenantID, collection string) string {
	return ColClients + "/" + tenantID + "/" + collection
}

// ValidCollectionPath reports whether path addresses a collection: an odd
// number of non-empty segments.
func ValidCollectionPath(path string) bool {
	if path == "" {
		return false
	}
	segs := strings.Split(path, "/")
	for _, s := range segs {
		if s == "" {
			return false
		}
	}
	return len(segs)%2 == 1
}

// Scoped wraps a Store so that every read and write stays under
// clients/{tenantID}/. It is the only way feature services touch
// tenant-owned collections.
type Scoped struct {
	store    Store
	tenantID string
}

func NewScoped(store Store, tenantID string) (*Scoped, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, ErrEmptyTenant
	}
	if strings.Contains(tenantID, "/") {
		return nil, fmt.Errorf("%w: tenant id %q", ErrInvalidPath, tenantID)
	}
	return &Scoped{store: store, tenantID: tenantID}, nil
}

func (s *Scoped) TenantID() string { return s.tenantID }

func (s *Scoped) path(collection string) string {
	return TenantPath(s.tenantID, collection)
}

func (s *Scoped) List(ctx context.Context, collection string) ([]Document, error) {
	return s.store.List(ctx, s.path(collection))
}

func (s *Scoped) ListOrdered(ctx context.Context, collection, field string, desc bool) ([]Document, error) {
	return s.store.ListOrdered(ctx, s.path(collection), field, desc)
}

func (s *Scoped) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.store.Get(ctx, s.path(collection), id)
}

func (s *Scoped) Set(ctx context.Context, collection, id string, data map[string]any) error {
	return s.store.Set(ctx, s.path(collection), id, data)
}

func (s *Scoped) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.store.Update(ctx, s.path(collection), id, fields)
}

func (s *Scoped) Delete(ctx context.Context, collection, id string) error {
	return s.store.Delete(ctx, s.path(collection), id)
}

func (s *Scoped) SubscribeCollection(collection string, fn func([]Document)) (Unsubscribe, error) {
	return s.store.SubscribeCollection(s.path(collection), fn)
}

func (s *Scoped) SubscribeDoc(collection, id string, fn func(Document, bool)) (Unsubscribe, error) {
	return s.store.SubscribeDoc(s.path(collection), id, fn)
}
