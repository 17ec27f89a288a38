package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"maquidash/internal/config"
	"maquidash/internal/database"
	"maquidash/internal/docstore"
	"maquidash/internal/middleware"
	"maquidash/internal/modules/admin"
	"maquidash/internal/modules/auth"
	"maquidash/internal/modules/catalog"
	"maquidash/internal/modules/conversations"
	"maquidash/internal/modules/promotions"
	"maquidash/internal/modules/quotes"
	"maquidash/internal/modules/relay"
	"maquidash/internal/modules/reservations"
	"maquidash/internal/modules/stats"
	"maquidash/internal/modules/tenant"
	jwtsvc "maquidash/internal/pkg/jwt"
	"maquidash/internal/stream"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is empty")
	}

	ctx := context.Background()

	var (
		store    docstore.Store
		provider auth.Provider
		revoker  auth.TokenRevoker
	)
	if cfg.UseFirestore() {
		fb, err := docstore.NewFirebase(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init failed")
		}
		store = fb.Store
		provider = auth.NewFirebaseProvider(cfg.FirebaseWebAPIKey, nil)
		revoker = fb.Auth
		log.Info().Msg("using hosted document store")
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
		provider = auth.NewLocalProvider(store)
		log.Info().Str("dsn", dsn).Msg("using local document store")
	}
	defer store.Close()

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	authService := auth.NewService(store, provider, j, revoker, cfg.AdminEmail, log)
	authHandler := auth.NewHandler(authService)

	tenantService := tenant.NewService(store, log)
	tenantHandler := tenant.NewHandler(tenantService)

	quoteService := quotes.NewService(store, log)
	quoteHandler := quotes.NewHandler(quoteService)

	reservationService := reservations.NewService(store)
	reservationHandler := reservations.NewHandler(reservationService)

	relayClient := relay.NewClient(cfg.BackendURL, log)
	relayHandler := relay.NewHandler(relayClient)

	conversationService := conversations.NewService(store, relayClient, log)
	conversationHandler := conversations.NewHandler(conversationService)

	catalogService := catalog.NewService(store)
	catalogHandler := catalog.NewHandler(catalogService)

	promotionService := promotions.NewService(store)
	promotionHandler := promotions.NewHandler(promotionService)

	statsService := stats.NewService(quoteService)
	statsHandler := stats.NewHandler(statsService)

	adminService := admin.NewService(store)
	migrator := admin.NewMigrator(store, log)
	adminHandler := admin.NewHandler(adminService, migrator)

	hub := stream.NewHub(log)
	defer hub.Close()
	streamHandler := stream.NewHandler(hub, j, store, log)

	// The board service holds a live subscription; every rebuild is pushed
	// to connected dashboards as a full snapshot.
	quoteService.OnBoard(func(b *quotes.Board) {
		hub.Broadcast(stream.Event{Type: "pipeline", Data: b.Columns})
	})
	if err := quoteService.Start(); err != nil {
		log.Fatal().Err(err).Msg("pipeline subscription failed")
	}
	defer quoteService.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	streamHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterRoutes(protected)
			tenantHandler.RegisterRoutes(protected)
			quoteHandler.RegisterRoutes(protected)
			reservationHandler.RegisterRoutes(protected)
			conversationHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			promotionHandler.RegisterRoutes(protected)
			statsHandler.RegisterRoutes(protected)
			relayHandler.RegisterRoutes(protected)

			adminOnly := protected.Group("/")
			adminOnly.Use(middleware.RequireAdmin())
			{
				adminHandler.RegisterRoutes(adminOnly)
			}
		}
	}

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
