// Package validation comprueba que un presupuesto o factura es correcto en forma
// y coherente aritméticamente. Es puro: sin E/S ni estado mutable compartido.
//
// Etapas, en orden:
//
//  1. Estructural: tipos JSON y esquema (obligatorios, enumerados, formato del
//     número, rangos, email, código postal, fechas, ids de línea únicos).
//     Cualquier error estructural corta la validación.
//  2. Reglas de negocio: cliente business ⇒ customer.companyId.
//  3. Aritmética por línea: totalHT ≈ quantity × unitPriceHT.
//  4. Totales: totalHT ≈ Σ líneas; totalTTC ≈ totalHT + VAT.
//
// Dentro de cada etapa se ejecutan todas las comprobaciones.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// Validate valida el documento JSON crudo como del tipo kind.
func Validate(kind entity.Kind, raw []byte) Result {
	if !kind.Valid() {
		return fail(structural("type", fmt.Sprintf("unknown document kind %q", kind)))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return fail(structural(RootPath, "document is not valid JSON: "+err.Error()))
	}
	if dec.More() {
		return fail(structural(RootPath, "unexpected data after the document"))
	}

	var errs []ValidationError
	documentShape.walk("", tree, &errs)
	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	var doc entity.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fail(structural(RootPath, err.Error()))
	}
	return ValidateDocument(kind, &doc)
}

// ValidateDocument valida un documento ya decodificado (etapas 1b a 4).
func ValidateDocument(kind entity.Kind, doc *entity.Document) Result {
	if !kind.Valid() {
		return fail(structural("type", fmt.Sprintf("unknown document kind %q", kind)))
	}
	if doc == nil {
		return fail(structural(RootPath, "document is missing"))
	}

	if errs := checkSchema(kind, doc); len(errs) > 0 {
		return Result{Errors: errs}
	}

	errs := make([]ValidationError, 0)
	errs = append(errs, checkBusinessRules(doc)...)
	errs = append(errs, checkLines(doc)...)
	errs = append(errs, checkTotals(doc)...)
	return Result{Errors: errs}
}

func fail(e ValidationError) Result {
	return Result{Errors: []ValidationError{e}}
}
