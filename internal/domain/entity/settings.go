package entity

// Billing textos legales y parámetros de facturación, más los contadores de numeración.
type Billing struct {
	PaymentTerms       string `json:"paymentTerms"`
	LatePenalties      string `json:"latePenalties"`
	LegalNotice        string `json:"legalNotice"`
	OutputFolder       string `json:"outputFolder,omitempty"`
	PaymentMeans       string `json:"paymentMeans,omitempty"`
	VATExemptionNotice string `json:"vatExemptionNotice,omitempty"`
	Currency           string `json:"currency,omitempty"`

	// Solo el secuenciador modifica estos contadores.
	LatestQuoteNumber   int64 `json:"latestQuoteNumber"`
	LatestInvoiceNumber int64 `json:"latestInvoiceNumber"`
}

// Settings es el registro de configuración del negocio.
type Settings struct {
	Company Company     `json:"company"`
	Billing Billing     `json:"billing"`
	RIB     BankDetails `json:"rib"`
}

// DefaultCurrency se imprime cuando la configuración no define moneda.
const DefaultCurrency = "€"

// DefaultSettings configuración inicial cuando aún no existe registro.
func DefaultSettings() *Settings {
	return &Settings{
		Billing: Billing{
			Currency:           DefaultCurrency,
			VATExemptionNotice: "TVA non applicable, art. 293 B du CGI",
		},
	}
}

// SequenceState contadores de numeración (último número confirmado por tipo).
type SequenceState struct {
	Quote   int64
	Invoice int64
}

// Counter devuelve el contador del tipo indicado.
func (s SequenceState) Counter(k Kind) int64 {
	if k == KindInvoice {
		return s.Invoice
	}
	return s.Quote
}

// Sequence extrae el estado de numeración del registro.
func (s *Settings) Sequence() SequenceState {
	return SequenceState{Quote: s.Billing.LatestQuoteNumber, Invoice: s.Billing.LatestInvoiceNumber}
}

// SetCounter fija el contador del tipo indicado.
func (s *Settings) SetCounter(k Kind, n int64) {
	if k == KindInvoice {
		s.Billing.LatestInvoiceNumber = n
		return
	}
	s.Billing.LatestQuoteNumber = n
}

// RenderConfig es el subconjunto de Settings que necesita el motor de maquetación.
type RenderConfig struct {
	Company  Company
	Billing  Billing
	Bank     BankDetails
	Logo     []byte // contenido del logo ya leído; vacío = sin logo
	Currency string
}

// RenderConfig construye la configuración de maquetación a partir del registro.
func (s *Settings) RenderConfig(logo []byte) RenderConfig {
	currency := s.Billing.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return RenderConfig{
		Company:  s.Company,
		Billing:  s.Billing,
		Bank:     s.RIB,
		Logo:     logo,
		Currency: currency,
	}
}
