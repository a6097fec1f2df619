package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/numbering"
)

// ── Esquema (etiquetas validate) ──────────────────────────────────────────────

const dateLayout = "2006-01-02"

var postalCodeRe = regexp.MustCompile(`^\d{5}$`)

type kindKey struct{}

var (
	schemaOnce sync.Once
	schema     *validator.Validate
)

// validatorInstance construye una única vez el validador; es seguro para uso concurrente.
func validatorInstance() *validator.Validate {
	schemaOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Las rutas de error usan los nombres JSON, no los del struct.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Importes y cantidades se comparan como float64 en las etiquetas gt/gte.
		v.RegisterCustomTypeFunc(func(fv reflect.Value) any {
			if d, ok := fv.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("postcode", func(fl validator.FieldLevel) bool {
			return postalCodeRe.MatchString(fl.Field().String())
		})

		v.RegisterStructValidationCtx(documentRules, entity.Document{})
		schema = v
	})
	return schema
}

// documentRules reglas estructurales que dependen del tipo de documento.
func documentRules(ctx context.Context, sl validator.StructLevel) {
	doc, ok := sl.Current().Interface().(entity.Document)
	if !ok {
		return
	}
	kind, _ := ctx.Value(kindKey{}).(entity.Kind)

	if doc.Type != kind {
		sl.ReportError(doc.Type, "type", "Type", "kind", string(kind))
	}
	if !numbering.IsWellFormed(kind, doc.Numero) {
		sl.ReportError(doc.Numero, "numero", "Numero", "numero", kind.Prefix())
	}
	if statuses := kind.Statuses(); !slices.Contains(statuses, doc.Status) {
		sl.ReportError(doc.Status, "status", "Status", "oneof", strings.Join(statuses, " "))
	}

	switch kind {
	case entity.KindQuote:
		requireDate(sl, doc.ValidityDate, "validityDate", "ValidityDate")
	case entity.KindInvoice:
		requireDate(sl, doc.DueDate, "dueDate", "DueDate")
	}
}

func requireDate(sl validator.StructLevel, value, name, structName string) {
	if value == "" {
		sl.ReportError(value, name, structName, "required", "")
		return
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		sl.ReportError(value, name, structName, "datetime", dateLayout)
	}
}

// checkSchema ejecuta la etapa 1b sobre el documento ya decodificado.
func checkSchema(kind entity.Kind, doc *entity.Document) []ValidationError {
	ctx := context.WithValue(context.Background(), kindKey{}, kind)
	err := validatorInstance().StructCtx(ctx, doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{structural(RootPath, err.Error())}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, structural(fieldPath(fe.Namespace()), describe(fe)))
	}
	return out
}

// fieldPath convierte "Document.services[0].quantity" en "services.0.quantity".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		if fe.Param() == "0" {
			return name + " must not be negative"
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", name, fe.Param())
	case "email":
		return name + " must be a valid email address"
	case "postcode":
		return name + " must contain exactly 5 digits"
	case "datetime":
		if strings.Contains(fe.Param(), "T") {
			return name + " must be an RFC 3339 timestamp"
		}
		return name + " must be a date formatted YYYY-MM-DD"
	case "unique":
		return "service line ids must be unique"
	case "numero":
		return fmt.Sprintf("numero must be %s followed by %d digits", fe.Param(), numbering.Digits)
	case "kind":
		return fmt.Sprintf("type must be %q", fe.Param())
	}
	return fmt.Sprintf("%s failed the %q check", name, fe.Tag())
}
