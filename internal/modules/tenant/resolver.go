package tenant

import (
	"errors"
	"sync"

	"maquidash/internal/docstore"
)

var ErrTenantNotFound = errors.New("tenant not found")

// Config is the live tenant configuration exposed to the UI tree. Every
// subscription emission replaces it atomically.
type Config struct {
	Name         string         `json:"companyName"`
	Subtitle     string         `json:"companySubtitle,omitempty"`
	BusinessType string         `json:"businessType,omitempty"`
	Nomenclature map[string]any `json:"nomenclature,omitempty"`
}

// Resolver watches one tenant's configuration document. A missing document
// is an explicit "tenant not found" state, distinct from still-loading. An
// empty tenant ID leaves the resolver permanently idle: not loading, no
// data, no subscription.
type Resolver struct {
	mu      sync.RWMutex
	config  *Config
	loading bool
	err     error

	unsub docstore.Unsubscribe

	onChange func(*Config, error)
}

// Watch opens the subscription. onChange may be nil; when set it fires on
// every emission after the internal state has been replaced.
func Watch(store docstore.Store, tenantID string, onChange func(*Config, error)) (*Resolver, error) {
	r := &Resolver{onChange: onChange}
	if tenantID == "" {
		return r, nil
	}

	r.loading = true
	unsub, err := store.SubscribeDoc(docstore.ColClients, tenantID, r.apply)
	if err != nil {
		r.loading = false
		r.err = err
		return r, err
	}
	r.unsub = unsub
	return r, nil
}

func (r *Resolver) apply(doc docstore.Document, exists bool) {
	var cfg *Config
	var err error
	if exists {
		decoded := decodeConfig(doc.Data)
		cfg = &decoded
	} else {
		err = ErrTenantNotFound
	}

	r.mu.Lock()
	r.config = cfg
	r.err = err
	r.loading = false
	r.mu.Unlock()

	if r.onChange != nil {
		r.onChange(cfg, err)
	}
}

// Snapshot returns the current configuration, whether the first emission is
// still pending, and the error state. config is nil both while loading and
// when the tenant does not exist; err distinguishes the two.
func (r *Resolver) Snapshot() (*Config, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config, r.loading, r.err
}

// Close releases the subscription. Safe to call more than once, and on an
// idle resolver.
func (r *Resolver) Close() {
	if r.unsub != nil {
		r.unsub()
	}
}

func decodeConfig(data map[string]any) Config {
	cfg := Config{}
	cfg.Name, _ = data["businessName"].(string)
	cfg.Subtitle, _ = data["companySubtitle"].(string)
	cfg.BusinessType, _ = data["businessType"].(string)
	if n, ok := data["nomenclature"].(map[string]any); ok {
		cfg.Nomenclature = n
	}
	return cfg
}
