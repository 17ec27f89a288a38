package quotes

import "maquidash/internal/domain"

type CreateQuoteRequest struct {
	Code          string  `json:"codigo_cotizacion"`
	Machinery     string  `json:"maquinaria" binding:"required"`
	MachineryID   string  `json:"maquinaria_id"`
	ClientName    string  `json:"cliente_nombre" binding:"required"`
	ClientCompany string  `json:"cliente_empresa"`
	ClientEmail   string  `json:"cliente_email"`
	ClientPhone   string  `json:"cliente_telefono"`
	Status        string  `json:"estado"`
	Origin        string  `json:"origen"`
	FollowUpAt    string  `json:"fecha_seguimiento"`
	ClientBudget  float64 `json:"presupuesto_cliente"`
	QuotedPrice   float64 `json:"precio_cotizado"`
	Notes         string  `json:"notas"`
}

type MoveQuoteRequest struct {
	From  string `json:"from" binding:"required"`
	To    string `json:"to" binding:"required"`
	Index int    `json:"index"`
}

// BoardColumn is one serialized kanban column with its header aggregates.
type BoardColumn struct {
	Status string         `json:"estado"`
	Count  int            `json:"count"`
	Value  float64        `json:"valor"`
	Items  []domain.Quote `json:"items"`
}

func boardColumns(b *Board) []BoardColumn {
	cols := make([]BoardColumn, 0, len(domain.QuoteStatuses))
	for _, status := range domain.QuoteStatuses {
		items := b.Columns[status]
		value := 0.0
		for _, q := range items {
			value += q.QuotedPrice
		}
		cols = append(cols, BoardColumn{
			Status: string(status),
			Count:  len(items),
			Value:  value,
			Items:  items,
		})
	}
	return cols
}
