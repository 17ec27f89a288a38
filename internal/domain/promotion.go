package domain

import "maquidash/internal/pkg/dates"

// SendRecord is one entry in a promotion's send history.
type SendRecord struct {
	SentAt     dates.FlexDate `json:"enviadoEn"`
	Recipients int            `json:"destinatarios"`
	Sent       int            `json:"enviados"`
	Failed     int            `json:"fallidos"`
}

// Promotion is tenant-scoped marketing content pushed over WhatsApp.
type Promotion struct {
	ID          string         `json:"id"`
	Title       string         `json:"titulo"`
	Description string         `json:"descripcion"`
	ImageURL    string         `json:"imagenUrl,omitempty"`
	Active      bool           `json:"activa"`
	CreatedAt   dates.FlexDate `json:"creadaEn"`
	SendHistory []SendRecord   `json:"historialEnvios,omitempty"`
}
