// Package facturx serializa facturas al XML UN/CEFACT Cross Industry Invoice
// (CII D16B) del perfil Factur-X BASIC WL.
package facturx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	appbilling "github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// Namespaces CII D16B.
const (
	NsRsm = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NsRam = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NsUdt = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NsQdt = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"

	// ProfileBasicWL identificador de la guía Factur-X BASIC WL.
	ProfileBasicWL = "urn:factur-x.eu:1p0:basicwl"

	typeCodeInvoice   = "380"
	dateFormat102     = "102" // AAAAMMDD
	schemeSIREN       = "0002"
	paymentCreditTran = "58" // transferencia SEPA
	countryFR         = "FR"
)

// Builder implementa billing.ElectronicInvoiceBuilder.
type Builder struct {
	profile string
}

var _ appbilling.ElectronicInvoiceBuilder = (*Builder)(nil)

// NewBuilder crea el constructor con el perfil BASIC WL.
func NewBuilder() *Builder {
	return &Builder{profile: ProfileBasicWL}
}

// Build genera el XML de la factura. Solo acepta documentos de tipo factura.
func (b *Builder) Build(doc *entity.Document, settings *entity.Settings) ([]byte, error) {
	if doc == nil || settings == nil {
		return nil, fmt.Errorf("facturx: %w: faltan documento o configuración", domain.ErrInvalidInput)
	}
	if doc.Type != entity.KindInvoice {
		return nil, fmt.Errorf("facturx: %w: solo las facturas se exportan (tipo %q)", domain.ErrInvalidInput, doc.Type)
	}
	currency := CurrencyCode(settings.Billing.Currency)

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := x.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NsRsm)
	root.CreateAttr("xmlns:qdt", NsQdt)
	root.CreateAttr("xmlns:ram", NsRam)
	root.CreateAttr("xmlns:udt", NsUdt)

	// ---- Contexto: perfil
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter").CreateElement("ram:ID").SetText(b.profile)

	// ---- Cabecera del documento
	hdr := root.CreateElement("rsm:ExchangedDocument")
	hdr.CreateElement("ram:ID").SetText(doc.Numero)
	hdr.CreateElement("ram:TypeCode").SetText(typeCodeInvoice)
	writeDate(hdr.CreateElement("ram:IssueDateTime"), doc.Date)
	for _, note := range notes(doc, settings) {
		hdr.CreateElement("ram:IncludedNote").CreateElement("ram:Content").SetText(note)
	}

	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")

	// ---- Acuerdo: vendedor y comprador
	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")
	writeSeller(agreement.CreateElement("ram:SellerTradeParty"), settings.Company)
	writeBuyer(agreement.CreateElement("ram:BuyerTradeParty"), doc.Customer)

	tx.CreateElement("ram:ApplicableHeaderTradeDelivery")

	// ---- Liquidación
	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	settlement.CreateElement("ram:InvoiceCurrencyCode").SetText(currency)
	if iban := compact(settings.RIB.IBAN); iban != "" {
		pm := settlement.CreateElement("ram:SpecifiedTradeSettlementPaymentMeans")
		pm.CreateElement("ram:TypeCode").SetText(paymentCreditTran)
		pm.CreateElement("ram:PayeePartyCreditorFinancialAccount").CreateElement("ram:IBANID").SetText(iban)
	}
	writeTax(settlement.CreateElement("ram:ApplicableTradeTax"), doc.Totals, settings.Billing.VATExemptionNotice)

	terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
	if settings.Billing.PaymentTerms != "" {
		terms.CreateElement("ram:Description").SetText(settings.Billing.PaymentTerms)
	}
	if doc.DueDate != "" {
		writeDate(terms.CreateElement("ram:DueDateDateTime"), doc.DueDate)
	}

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(amount(doc.Totals.TotalHT))
	sum.CreateElement("ram:TaxBasisTotalAmount").SetText(amount(doc.Totals.TotalHT))
	tax := sum.CreateElement("ram:TaxTotalAmount")
	tax.CreateAttr("currencyID", currency)
	tax.SetText(amount(doc.Totals.VAT))
	sum.CreateElement("ram:GrandTotalAmount").SetText(amount(doc.Totals.TotalTTC))
	sum.CreateElement("ram:DuePayableAmount").SetText(amount(doc.Totals.TotalTTC))

	x.Indent(2)
	out, err := x.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("facturx: serializar: %w", err)
	}
	return out, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func writeSeller(el *etree.Element, c entity.Company) {
	el.CreateElement("ram:Name").SetText(c.CompanyName)
	if siren := SIREN(c.CompanyID); siren != "" {
		id := el.CreateElement("ram:SpecifiedLegalOrganization").CreateElement("ram:ID")
		id.CreateAttr("schemeID", schemeSIREN)
		id.SetText(siren)
	}
	writeAddress(el, c.PostalCode, c.Address, c.City)
	writeEmail(el, c.Email)
}

func writeBuyer(el *etree.Element, c entity.Customer) {
	name := c.CompanyName
	if c.ClientType == entity.ClientIndividual || name == "" {
		name = c.CustomerName
	}
	el.CreateElement("ram:Name").SetText(name)
	if c.ClientType != entity.ClientIndividual {
		if siren := SIREN(c.CompanyID); siren != "" {
			id := el.CreateElement("ram:SpecifiedLegalOrganization").CreateElement("ram:ID")
			id.CreateAttr("schemeID", schemeSIREN)
			id.SetText(siren)
		}
	}
	writeAddress(el, c.PostalCode, c.Address, c.City)
	writeEmail(el, c.Email)
}

func writeAddress(el *etree.Element, postcode, line, city string) {
	addr := el.CreateElement("ram:PostalTradeAddress")
	if postcode != "" {
		addr.CreateElement("ram:PostcodeCode").SetText(postcode)
	}
	if line != "" {
		addr.CreateElement("ram:LineOne").SetText(line)
	}
	if city != "" {
		addr.CreateElement("ram:CityName").SetText(city)
	}
	addr.CreateElement("ram:CountryID").SetText(countryFR)
}

func writeEmail(el *etree.Element, email string) {
	if email == "" {
		return
	}
	uri := el.CreateElement("ram:URIUniversalCommunication").CreateElement("ram:URIID")
	uri.CreateAttr("schemeID", "EM")
	uri.SetText(email)
}

// writeTax una sola categoría de IVA: exenta (E) con tipo cero, normal (S) en otro caso.
func writeTax(el *etree.Element, t entity.Totals, exemption string) {
	el.CreateElement("ram:CalculatedAmount").SetText(amount(t.VAT))
	el.CreateElement("ram:TypeCode").SetText("VAT")
	category := "S"
	if t.VATRate.IsZero() {
		category = "E"
		if exemption == "" {
			exemption = "Exonération de TVA"
		}
		el.CreateElement("ram:ExemptionReason").SetText(exemption)
	}
	el.CreateElement("ram:BasisAmount").SetText(amount(t.TotalHT))
	el.CreateElement("ram:CategoryCode").SetText(category)
	el.CreateElement("ram:RateApplicablePercent").SetText(t.VATRate.String())
}

func writeDate(el *etree.Element, isoDate string) {
	ds := el.CreateElement("udt:DateTimeString")
	ds.CreateAttr("format", dateFormat102)
	ds.SetText(strings.ReplaceAll(isoDate, "-", ""))
}

func notes(doc *entity.Document, settings *entity.Settings) []string {
	var out []string
	if doc.Object != "" {
		out = append(out, doc.Object)
	}
	if doc.AssociatedQuote != "" {
		out = append(out, "Quote "+doc.AssociatedQuote)
	}
	if doc.Notes != "" {
		out = append(out, doc.Notes)
	}
	if settings.Billing.LatePenalties != "" {
		out = append(out, settings.Billing.LatePenalties)
	}
	return out
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// CurrencyCode código ISO 4217 a partir de la moneda configurada (símbolo o código).
func CurrencyCode(currency string) string {
	c := strings.TrimSpace(currency)
	switch c {
	case "", "€":
		return "EUR"
	case "$":
		return "USD"
	case "£":
		return "GBP"
	case "CHF", "Fr.":
		return "CHF"
	}
	if len(c) == 3 {
		return strings.ToUpper(c)
	}
	return "EUR"
}

// SIREN primeros 9 dígitos de un SIRET (o el propio SIREN); "" si no lo es.
func SIREN(id string) string {
	digits := compact(id)
	for _, r := range digits {
		if r < '0' || r > '9' {
			return ""
		}
	}
	switch len(digits) {
	case 9:
		return digits
	case 14:
		return digits[:9]
	default:
		return ""
	}
}

func compact(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
