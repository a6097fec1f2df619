package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Los importes se guardan como números JSON, no como cadenas.
	decimal.MarshalJSONWithoutQuotes = true
}

// Unidades de las líneas de servicio.
const (
	UnitHour  = "hour"
	UnitPiece = "piece"
	UnitDay   = "day"
	UnitFlat  = "flat"
)

// Document es un presupuesto o una factura. Los campos propios de cada tipo
// (validityDate para presupuestos; dueDate, associatedQuote y chorusPro para
// facturas) quedan vacíos en el otro.
type Document struct {
	ID              string               `json:"id"`
	Type            Kind                 `json:"type"`
	Numero          string               `json:"numero"`
	Date            string               `json:"date" validate:"required,datetime=2006-01-02"`
	ValidityDate    string               `json:"validityDate,omitempty"`
	DueDate         string               `json:"dueDate,omitempty"`
	Status          string               `json:"status"`
	Object          string               `json:"object,omitempty"`
	Customer        Customer             `json:"customer"`
	Services        []ServiceLine        `json:"services" validate:"required,min=1,unique=ID,dive"`
	Totals          Totals               `json:"totals"`
	Notes           string               `json:"notes,omitempty"`
	AssociatedQuote string               `json:"associatedQuote,omitempty"`
	ChorusPro       *ClearinghouseStatus `json:"chorusPro,omitempty"`
	CreatedAt       string               `json:"createdAt,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EditedAt        string               `json:"editedAt,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ServiceLine es una línea de la tabla de servicios.
type ServiceLine struct {
	ID          int64           `json:"id" validate:"gt=0"`
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit        string          `json:"unit" validate:"oneof=hour piece day flat"`
	UnitPriceHT decimal.Decimal `json:"unitPriceHT" validate:"gte=0"`
	TotalHT     decimal.Decimal `json:"totalHT" validate:"gte=0"`
}

// Totals agrupa los importes agregados del documento.
type Totals struct {
	TotalHT  decimal.Decimal `json:"totalHT" validate:"gte=0"`
	VAT      decimal.Decimal `json:"VAT" validate:"gte=0"`
	VATRate  decimal.Decimal `json:"VATRate" validate:"gte=0"`
	TotalTTC decimal.Decimal `json:"totalTTC" validate:"gte=0"`
}

// ClearinghouseStatus refleja el envío de la factura a la plataforma pública (Chorus Pro).
type ClearinghouseStatus struct {
	IsSent        bool     `json:"isSent"`
	DateSending   *string  `json:"dateSending"`
	DepositNumber *string  `json:"depositNumber"`
	Status        string   `json:"status" validate:"oneof=draft sent accepted rejected"`
	Errors        []string `json:"errors"`
}

// CreatedTime devuelve createdAt parseado; ok=false si está vacío o no es RFC 3339.
func (d *Document) CreatedTime() (time.Time, bool) {
	if d.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Year es el año de partición del documento (año de createdAt).
// fallback se usa cuando createdAt no está definido.
func (d *Document) Year(fallback time.Time) int {
	if t, ok := d.CreatedTime(); ok {
		return t.Year()
	}
	return fallback.Year()
}
