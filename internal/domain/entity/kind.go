package entity

import (
	"fmt"
	"strings"
)

// Kind distingue los dos tipos de documento: presupuesto (quote) y factura (invoice).
type Kind string

const (
	KindQuote   Kind = "quote"
	KindInvoice Kind = "invoice"
)

// Kinds lista los tipos soportados en orden estable.
var Kinds = []Kind{KindQuote, KindInvoice}

// ParseKind acepta el nombre canónico, su plural y los nombres del formato heredado.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quote", "quotes", "devis":
		return KindQuote, nil
	case "invoice", "invoices", "facture", "factures":
		return KindInvoice, nil
	}
	return "", fmt.Errorf("tipo de documento desconocido: %q", s)
}

// Valid indica si k es uno de los tipos soportados.
func (k Kind) Valid() bool {
	return k == KindQuote || k == KindInvoice
}

// Prefix devuelve el prefijo del número de documento.
func (k Kind) Prefix() string {
	if k == KindInvoice {
		return "I"
	}
	return "Q"
}

// Title es el rótulo impreso en la cabecera del PDF.
func (k Kind) Title() string {
	if k == KindInvoice {
		return "INVOICE"
	}
	return "QUOTE"
}

// Plural se usa como nombre de carpeta en el almacenamiento por archivos.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Estados de documento.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
	StatusPaid     = "paid"
	StatusOverdue  = "overdue"
	StatusRejected = "rejected"
)

// Statuses devuelve los estados admitidos para el tipo de documento.
func (k Kind) Statuses() []string {
	if k == KindInvoice {
		return []string{StatusDraft, StatusSent, StatusPaid, StatusOverdue}
	}
	return []string{StatusDraft, StatusSent, StatusAccepted, StatusRefused}
}

// ClearinghouseStatuses estados del envío a la plataforma de facturación pública.
var ClearinghouseStatuses = []string{StatusDraft, StatusSent, StatusAccepted, StatusRejected}
