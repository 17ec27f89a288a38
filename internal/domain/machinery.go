package domain

type StockStatus string

const (
	StockAvailable StockStatus = "DISPONIBLE"
	StockOnOrder   StockStatus = "BAJO_PEDIDO"
	StockSoldOut   StockStatus = "AGOTADO"
)

// Machinery is a global catalog item, shared across all tenants.
type Machinery struct {
	ID             string      `json:"id"`
	Name           string      `json:"nombre"`
	Category       string      `json:"categoria"`
	Description    string      `json:"descripcion"`
	TechSpecs      string      `json:"especificacionesTecnicas,omitempty"`
	Usage          string      `json:"usoEquipo,omitempty"`
	Dimensions     string      `json:"dimensiones,omitempty"`
	Variants       []string    `json:"variantes,omitempty"`
	Images         []string    `json:"imagenes,omitempty"`
	PDFURL         string      `json:"pdfUrl,omitempty"`
	PDFText        string      `json:"pdfTextoExtraido,omitempty"`
	ReferencePrice float64     `json:"precioReferencia,omitempty"`
	Stock          StockStatus `json:"estadoStock"`
	Featured       bool        `json:"destacado,omitempty"`
	Active         bool        `json:"activa"`
	Tags           []string    `json:"tags,omitempty"`
}
