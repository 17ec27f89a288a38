package domain

import "maquidash/internal/pkg/dates"

// Message roles mirror what the WhatsApp agent writes.
const (
	MessageRoleUser  = "user"
	MessageRoleModel = "model"
)

type MessagePart struct {
	Text string `json:"text"`
}

type Message struct {
	Role      string         `json:"role"`
	Parts     []MessagePart  `json:"parts"`
	Timestamp dates.FlexDate `json:"timestamp"`
	Type      string         `json:"type,omitempty"` // "text" or "image"
	ImageURL  string         `json:"image_url,omitempty"`
}

// Conversation is tenant-scoped and keyed by phone number.
type Conversation struct {
	Phone       string         `json:"telefono"`
	LastMessage string         `json:"ultimoMensaje,omitempty"`
	LastDate    dates.FlexDate `json:"ultimaFecha,omitempty"`
	Messages    []Message      `json:"mensajes,omitempty"`
	AgentPaused bool           `json:"agentePausado,omitempty"`
	Unread      bool           `json:"unread,omitempty"`
}
