package facturx_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/infrastructure/facturx"
)

func invoice() *entity.Document {
	return &entity.Document{
		ID: "I000042", Type: entity.KindInvoice, Numero: "I000042",
		Date: "2026-03-02", DueDate: "2026-04-01", Status: entity.StatusSent,
		Object:          "Refonte du site",
		AssociatedQuote: "Q000017",
		Customer: entity.Customer{
			CustomerName: "Paul Girard", CompanyName: "Girard & Fils", CompanyID: "987 654 321 00012",
			Address: "5 quai Saint-Antoine", PostalCode: "69002", City: "Lyon",
			Email: "paul@girard.fr", ClientType: entity.ClientBusiness,
		},
		Services: []entity.ServiceLine{{
			ID: 1, Description: "Développement", Quantity: decimal.NewFromInt(2), Unit: entity.UnitDay,
			UnitPriceHT: decimal.NewFromInt(100), TotalHT: decimal.NewFromInt(200),
		}},
		Totals: entity.Totals{
			TotalHT: decimal.NewFromInt(200), VAT: decimal.Zero,
			VATRate: decimal.Zero, TotalTTC: decimal.NewFromInt(200),
		},
	}
}

func settings() *entity.Settings {
	s := entity.DefaultSettings()
	s.Company = entity.Company{
		CompanyName: "Atelier Dupont", CompanyID: "12345678901234", Address: "3 place Bellecour",
		PostalCode: "69002", City: "Lyon", Email: "contact@atelier.fr",
	}
	s.Billing.PaymentTerms = "Paiement à 30 jours"
	s.RIB.IBAN = "FR76 3000 6000 0112 3456 7890 189"
	return s
}

func parse(t *testing.T, b []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(b))
	return doc
}

func text(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, path)
	return el.Text()
}

const (
	root       = "./rsm:CrossIndustryInvoice"
	tx         = root + "/rsm:SupplyChainTradeTransaction"
	settlement = tx + "/ram:ApplicableHeaderTradeSettlement"
	summation  = settlement + "/ram:SpecifiedTradeSettlementHeaderMonetarySummation"
)

func TestBuilder_Build_FacturaExenta(t *testing.T) {
	out, err := facturx.NewBuilder().Build(invoice(), settings())
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Equal(t, facturx.ProfileBasicWL,
		text(t, doc, root+"/rsm:ExchangedDocumentContext/ram:GuidelineSpecifiedDocumentContextParameter/ram:ID"))
	assert.Equal(t, "I000042", text(t, doc, root+"/rsm:ExchangedDocument/ram:ID"))
	assert.Equal(t, "380", text(t, doc, root+"/rsm:ExchangedDocument/ram:TypeCode"))
	assert.Equal(t, "20260302", text(t, doc, root+"/rsm:ExchangedDocument/ram:IssueDateTime/udt:DateTimeString"))

	agreement := tx + "/ram:ApplicableHeaderTradeAgreement"
	assert.Equal(t, "Atelier Dupont", text(t, doc, agreement+"/ram:SellerTradeParty/ram:Name"))
	assert.Equal(t, "123456789", text(t, doc, agreement+"/ram:SellerTradeParty/ram:SpecifiedLegalOrganization/ram:ID"))
	assert.Equal(t, "Girard & Fils", text(t, doc, agreement+"/ram:BuyerTradeParty/ram:Name"))
	assert.Equal(t, "987654321", text(t, doc, agreement+"/ram:BuyerTradeParty/ram:SpecifiedLegalOrganization/ram:ID"))

	assert.Equal(t, "EUR", text(t, doc, settlement+"/ram:InvoiceCurrencyCode"))
	assert.Equal(t, "FR7630006000011234567890189",
		text(t, doc, settlement+"/ram:SpecifiedTradeSettlementPaymentMeans/ram:PayeePartyCreditorFinancialAccount/ram:IBANID"))
	assert.Equal(t, "E", text(t, doc, settlement+"/ram:ApplicableTradeTax/ram:CategoryCode"))
	assert.Equal(t, "TVA non applicable, art. 293 B du CGI", text(t, doc, settlement+"/ram:ApplicableTradeTax/ram:ExemptionReason"))
	assert.Equal(t, "20260401", text(t, doc, settlement+"/ram:SpecifiedTradePaymentTerms/ram:DueDateDateTime/udt:DateTimeString"))

	assert.Equal(t, "200.00", text(t, doc, summation+"/ram:LineTotalAmount"))
	assert.Equal(t, "0.00", text(t, doc, summation+"/ram:TaxTotalAmount"))
	assert.Equal(t, "EUR", doc.FindElement(summation+"/ram:TaxTotalAmount").SelectAttrValue("currencyID", ""))
	assert.Equal(t, "200.00", text(t, doc, summation+"/ram:GrandTotalAmount"))
	assert.Equal(t, "200.00", text(t, doc, summation+"/ram:DuePayableAmount"))
}

func TestBuilder_Build_TipoGeneral(t *testing.T) {
	inv := invoice()
	inv.Totals.VATRate = decimal.NewFromInt(20)
	inv.Totals.VAT = decimal.NewFromInt(40)
	inv.Totals.TotalTTC = decimal.NewFromInt(240)

	out, err := facturx.NewBuilder().Build(inv, settings())
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Equal(t, "S", text(t, doc, settlement+"/ram:ApplicableTradeTax/ram:CategoryCode"))
	assert.Equal(t, "20", text(t, doc, settlement+"/ram:ApplicableTradeTax/ram:RateApplicablePercent"))
	assert.Nil(t, doc.FindElement(settlement+"/ram:ApplicableTradeTax/ram:ExemptionReason"))
	assert.Equal(t, "240.00", text(t, doc, summation+"/ram:GrandTotalAmount"))
}

func TestBuilder_Build_ParticularSinIBAN(t *testing.T) {
	inv := invoice()
	inv.Customer.ClientType = entity.ClientIndividual
	s := settings()
	s.RIB.IBAN = ""

	out, err := facturx.NewBuilder().Build(inv, s)
	require.NoError(t, err)
	doc := parse(t, out)

	agreement := tx + "/ram:ApplicableHeaderTradeAgreement"
	assert.Equal(t, "Paul Girard", text(t, doc, agreement+"/ram:BuyerTradeParty/ram:Name"))
	assert.Nil(t, doc.FindElement(agreement+"/ram:BuyerTradeParty/ram:SpecifiedLegalOrganization"))
	assert.Nil(t, doc.FindElement(settlement+"/ram:SpecifiedTradeSettlementPaymentMeans"))
}

func TestBuilder_Build_RechazaPresupuestos(t *testing.T) {
	q := invoice()
	q.Type = entity.KindQuote
	_, err := facturx.NewBuilder().Build(q, settings())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = facturx.NewBuilder().Build(nil, settings())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCurrencyCode(t *testing.T) {
	tests := map[string]string{"": "EUR", "€": "EUR", "$": "USD", "£": "GBP", "chf": "CHF", "XPF": "XPF", "euros": "EUR"}
	for in, want := range tests {
		assert.Equal(t, want, facturx.CurrencyCode(in), in)
	}
}

func TestSIREN(t *testing.T) {
	assert.Equal(t, "123456789", facturx.SIREN("12345678901234"))
	assert.Equal(t, "123456789", facturx.SIREN("123 456 789"))
	assert.Equal(t, "", facturx.SIREN("12345"))
	assert.Equal(t, "", facturx.SIREN("ABCDEFGHI"))
}
