package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"maquidash/internal/config"
	"maquidash/internal/database"
	"maquidash/internal/docstore"
	"maquidash/internal/modules/admin"
)

// One-shot copy of the legacy root collections into a tenant namespace.
//
//	migrate -tenant aremko [-collections reservas,config] [-backup backup.json]
func main() {
	var (
		tenantID    = flag.String("tenant", "", "target tenant id (required)")
		collections = flag.String("collections", "", "comma-separated subset, default all")
		backupPath  = flag.String("backup", "", "write a JSON dump of the source data first")
		timeout     = flag.Duration("timeout", 10*time.Minute, "overall deadline")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if *tenantID == "" {
		log.Fatal().Msg("-tenant is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var store docstore.Store
	if cfg.UseFirestore() {
		fb, err := docstore.NewFirebase(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init failed")
		}
		store = fb.Store
	} else {
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "maquidash.db"
		}
		db, err := database.Connect(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("database connect failed")
		}
		store, err = docstore.NewSQLStore(db)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
	}
	defer store.Close()

	var subset []string
	if *collections != "" {
		for _, c := range strings.Split(*collections, ",") {
			if c = strings.TrimSpace(c); c != "" {
				subset = append(subset, c)
			}
		}
	}

	report, err := admin.NewMigrator(store, log).Run(ctx, *tenantID, subset, *backupPath)
	if err != nil {
		if report != nil {
			log.Error().Int("batches", report.Batches).Msg("partial copy written before failure")
		}
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().
		Str("tenant", report.Tenant).
		Int("documents", report.Documents).
		Int("batches", report.Batches).
		Strs("aliased", report.Aliased).
		Msg("done")
}
