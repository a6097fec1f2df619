package entity

// Company identidad del emisor impresa en cabecera y pie de los documentos.
type Company struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CompanyID   string `json:"companyId"` // SIRET
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Logo        string `json:"logo,omitempty"` // ruta del archivo de logo
}

// BankDetails datos bancarios (RIB) impresos en las facturas.
type BankDetails struct {
	IBAN string `json:"iban"`
	BIC  string `json:"bic"`
	Bank string `json:"bank"`
}
