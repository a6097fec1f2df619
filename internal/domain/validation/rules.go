package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// Tolerance diferencia máxima admitida entre un importe declarado y el calculado.
var Tolerance = decimal.New(1, -2)

// ── Etapa 2: reglas de negocio condicionales ─────────────────────────────────

func checkBusinessRules(doc *entity.Document) []ValidationError {
	var errs []ValidationError
	if doc.Customer.ClientType == entity.ClientBusiness && strings.TrimSpace(doc.Customer.CompanyID) == "" {
		errs = append(errs, businessRule("customer.companyId", "company id (SIRET) is required for business customers"))
	}
	return errs
}

// ── Etapa 3: aritmética por línea ─────────────────────────────────────────────

func checkLines(doc *entity.Document) []ValidationError {
	var errs []ValidationError
	for i, line := range doc.Services {
		expected := line.Quantity.Mul(line.UnitPriceHT).Round(2)
		if !withinTolerance(line.TotalHT, expected) {
			errs = append(errs, businessRule(
				fmt.Sprintf("services.%d.totalHT", i),
				fmt.Sprintf("line %d total (%s) does not match quantity × unit price (%s)",
					i+1, line.TotalHT.StringFixed(2), expected.StringFixed(2)),
			))
		}
	}
	return errs
}

// ── Etapa 4: totales agregados ────────────────────────────────────────────────

func checkTotals(doc *entity.Document) []ValidationError {
	var errs []ValidationError

	sum := decimal.Zero
	for _, line := range doc.Services {
		sum = sum.Add(line.TotalHT)
	}
	if !withinTolerance(doc.Totals.TotalHT, sum) {
		errs = append(errs, businessRule("totals.totalHT",
			fmt.Sprintf("net total (%s) does not match the sum of service lines (%s)",
				doc.Totals.TotalHT.StringFixed(2), sum.StringFixed(2))))
	}

	gross := doc.Totals.TotalHT.Add(doc.Totals.VAT)
	if !withinTolerance(doc.Totals.TotalTTC, gross) {
		errs = append(errs, businessRule("totals.totalTTC",
			fmt.Sprintf("gross total (%s) does not match net total + VAT (%s)",
				doc.Totals.TotalTTC.StringFixed(2), gross.StringFixed(2))))
	}
	return errs
}

func withinTolerance(actual, expected decimal.Decimal) bool {
	return actual.Sub(expected).Abs().LessThanOrEqual(Tolerance)
}
