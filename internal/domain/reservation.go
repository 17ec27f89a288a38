package domain

import "maquidash/internal/pkg/dates"

type ReservationStatus string

const (
	ReservationPendingPayment ReservationStatus = "PENDIENTE_PAGO"
	ReservationConfirmed      ReservationStatus = "CONFIRMADA"
	ReservationCompleted      ReservationStatus = "COMPLETADA"
	ReservationCancelled      ReservationStatus = "CANCELADA"
)

// Reservation ("reserva") is the tenant-scoped legacy sibling of Quote,
// kept while the pipeline pages finish migrating.
type Reservation struct {
	ID          string            `json:"id"`
	Code        string            `json:"codigo_reserva,omitempty"`
	Unit        string            `json:"cabana,omitempty"` // legacy field name
	ClientName  string            `json:"cliente_nombre,omitempty"`
	ClientPhone string            `json:"cliente_telefono,omitempty"`
	ClientEmail string            `json:"cliente_email,omitempty"`
	StartDate   dates.FlexDate    `json:"fecha_inicio,omitempty"`
	EndDate     dates.FlexDate    `json:"fecha_fin,omitempty"`
	Status      ReservationStatus `json:"estado,omitempty"`
	Origin      string            `json:"origen,omitempty"`
	CreatedAt   dates.FlexDate    `json:"created_at,omitempty"`
	TotalPrice  float64           `json:"precio_total,omitempty"`
}
