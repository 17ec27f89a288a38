package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"maquidash/internal/docstore"
)

// MigratedCollections is the fixed set of root collections copied into a
// tenant during onboarding. Order matters only for log readability.
var MigratedCollections = []string{
	"reservas",
	"cabanas",
	"conversaciones",
	"promociones",
	"huespedes",
	"gastos",
	"config",
	"configuracion",
	"servicios_adicionales",
	"feedback",
}

// MigrationReport summarizes one migration run.
type MigrationReport struct {
	Tenant      string         `json:"tenant"`
	Documents   int            `json:"documents"`
	Batches     int            `json:"batches"`
	PerSource   map[string]int `json:"perSource"`
	BackupPath  string         `json:"backupPath,omitempty"`
	Aliased     []string       `json:"aliased,omitempty"`
	DurationSec float64        `json:"durationSec"`
}

// Migrator copies legacy root-level collections under clients/{tenant}/.
// Writes are merge-sets in sequential batches; a mid-run failure leaves a
// partial copy and the run is simply repeated, merges make it idempotent.
type Migrator struct {
	store docstore.Store
	log   zerolog.Logger
}

func NewMigrator(store docstore.Store, log zerolog.Logger) *Migrator {
	return &Migrator{store: store, log: log.With().Str("component", "migration").Logger()}
}

// Run copies the given collections (all of MigratedCollections when nil)
// into the tenant's namespace. When backupPath is non-empty the source data
// is dumped to a JSON file before any write.
func (m *Migrator) Run(ctx context.Context, tenantID string, collections []string, backupPath string) (*MigrationReport, error) {
	if _, err := docstore.NewScoped(m.store, tenantID); err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		collections = MigratedCollections
	}

	start := time.Now()
	report := &MigrationReport{Tenant: tenantID, PerSource: map[string]int{}}
	sources := map[string][]docstore.Document{}

	for _, col := range collections {
		docs, err := m.store.List(ctx, col)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", col, err)
		}
		// Old deployments wrote conversations under "chats"; fold them into
		// the canonical collection when it is empty.
		if col == "conversaciones" && len(docs) == 0 {
			docs, err = m.store.List(ctx, "chats")
			if err != nil {
				return nil, fmt.Errorf("read chats: %w", err)
			}
			if len(docs) > 0 {
				report.Aliased = append(report.Aliased, "chats->conversaciones")
			}
		}
		sources[col] = docs
		report.PerSource[col] = len(docs)
		report.Documents += len(docs)
	}

	if backupPath != "" {
		if err := writeBackup(backupPath, sources); err != nil {
			return nil, fmt.Errorf("backup: %w", err)
		}
		report.BackupPath = backupPath
	}

	bulk := m.store.Bulk()
	for _, col := range collections {
		target := docstore.TenantPath(tenantID, col)
		for _, doc := range sources[col] {
			bulk.Set(target, doc.ID, doc.Data)
		}
	}

	batches, err := bulk.Commit(ctx)
	report.Batches = batches
	report.DurationSec = time.Since(start).Seconds()
	if err != nil {
		m.log.Error().Err(err).Str("tenant", tenantID).Int("batches", batches).
			Msg("migration failed mid-commit, copy is partial")
		return report, err
	}

	m.log.Info().Str("tenant", tenantID).Int("documents", report.Documents).
		Int("batches", batches).Msg("migration complete")
	return report, nil
}

func writeBackup(path string, sources map[string][]docstore.Document) error {
	dump := map[string]map[string]map[string]any{}
	for col, docs := range sources {
		dump[col] = map[string]map[string]any{}
		for _, doc := range docs {
			dump[col][doc.ID] = doc.Data
		}
	}
	raw, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
