package domain

import "maquidash/internal/pkg/dates"

type QuoteStatus string

const (
	QuoteNew         QuoteStatus = "NUEVA"
	QuoteContacted   QuoteStatus = "CONTACTADO"
	QuoteNegotiating QuoteStatus = "NEGOCIANDO"
	QuoteSold        QuoteStatus = "VENDIDA"
	QuoteLost        QuoteStatus = "PERDIDA"
)

// QuoteStatuses is the fixed column order of the pipeline board.
var QuoteStatuses = []QuoteStatus{
	QuoteNew, QuoteContacted, QuoteNegotiating, QuoteSold, QuoteLost,
}

func (s QuoteStatus) Valid() bool {
	for _, v := range QuoteStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Quote ("cotización") lives in the global quotes collection, shared across
// tenants. Status transitions are user-driven; any state may be set to any
// other.
type Quote struct {
	ID            string         `json:"id"`
	Code          string         `json:"codigo_cotizacion"`
	Machinery     string         `json:"maquinaria"`
	MachineryID   string         `json:"maquinaria_id,omitempty"`
	ClientName    string         `json:"cliente_nombre"`
	ClientCompany string         `json:"cliente_empresa,omitempty"`
	ClientEmail   string         `json:"cliente_email"`
	ClientPhone   string         `json:"cliente_telefono,omitempty"`
	Status        QuoteStatus    `json:"estado"`
	Origin        string         `json:"origen,omitempty"`
	CreatedAt     dates.FlexDate `json:"created_at"`
	FollowUpAt    dates.FlexDate `json:"fecha_seguimiento,omitempty"`
	ClientBudget  float64        `json:"presupuesto_cliente,omitempty"`
	QuotedPrice   float64        `json:"precio_cotizado,omitempty"`
	Notes         string         `json:"notas,omitempty"`
}
