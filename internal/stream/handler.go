package stream

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"maquidash/internal/docstore"
	"maquidash/internal/modules/tenant"
	"maquidash/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict to the dashboard origin once the deploy domains settle.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades dashboard clients onto the hub. Browsers cannot set an
// Authorization header on the upgrade request, so the token rides a query
// parameter.
type Handler struct {
	hub *Hub
	jwt   *jwt.Service
	store docstore.Store
	log   zerolog.Logger
}

func NewHandler(hub *Hub, jwtService *jwt.Service, store docstore.Store, log zerolog.Logger) *Handler {
	return &Handler{
		hub:   hub,
		jwt:   jwtService,
		store: store,
		log:   log.With().Str("component", "stream").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/dashboard", h.Connect)
}

func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	h.hub.Register(id, conn)
	h.log.Debug().Str("conn", id).Str("email", claims.Email).Msg("dashboard connected")

	// Each connection may follow one tenant's configuration; changes are
	// pushed to that connection only.
	resolver, err := tenant.Watch(h.store, c.Query("tenant"), func(cfg *tenant.Config, err error) {
		if err != nil {
			h.hub.SendTo(id, Event{Type: "tenant-config", Data: nil})
			return
		}
		h.hub.SendTo(id, Event{Type: "tenant-config", Data: cfg})
	})
	if err != nil {
		h.log.Warn().Err(err).Str("conn", id).Msg("tenant watch failed")
	}

	defer func() {
		resolver.Close()
		h.hub.Unregister(id)
		h.log.Debug().Str("conn", id).Msg("dashboard disconnected")
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	go pingLoop(conn)

	// The stream is push-only; the read loop only drains control frames and
	// detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}
