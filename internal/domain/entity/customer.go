package entity

// Tipos de cliente.
const (
	ClientIndividual = "individual"
	ClientBusiness   = "business"
	ClientGovernment = "government"
)

// Customer representa el destinatario del documento, tal como se guarda dentro del mismo.
type Customer struct {
	CustomerName string `json:"customerName" validate:"required"`
	CompanyName  string `json:"companyName" validate:"required"`
	CompanyID    string `json:"companyId,omitempty"` // SIRET; obligatorio para clientes business
	Address      string `json:"address" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"postcode"`
	City         string `json:"city" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	ClientType   string `json:"clientType" validate:"oneof=individual business government"`
}

// DisplayName devuelve el nombre más representativo del cliente.
func (c Customer) DisplayName() string {
	if c.CustomerName != "" {
		return c.CustomerName
	}
	return c.CompanyName
}
