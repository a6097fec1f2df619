package validation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ── Forma JSON ────────────────────────────────────────────────────────────────
//
// Primera pasada estructural sobre el JSON crudo: comprueba los tipos
// primitivos antes de decodificar en entity.Document, donde un "2" en lugar
// de 2 se perdería o haría fallar la decodificación completa.

type jsonType int

const (
	typeString jsonType = iota
	typeNumber
	typeInteger
	typeBool
	typeObject
	typeArray
)

func (t jsonType) String() string {
	switch t {
	case typeString:
		return "string"
	case typeNumber:
		return "number"
	case typeInteger:
		return "integer"
	case typeBool:
		return "boolean"
	case typeObject:
		return "object"
	default:
		return "array"
	}
}

type field struct {
	name     string
	shape    *shape
	required bool // la clave debe estar presente
}

type shape struct {
	typ      jsonType
	nullable bool
	fields   []field // typeObject; claves desconocidas se ignoran
	elem     *shape  // typeArray
}

func str() *shape { return &shape{typ: typeString} }
func number() *shape { return &shape{typ: typeNumber} }
func integer() *shape { return &shape{typ: typeInteger} }
func boolean() *shape { return &shape{typ: typeBool} }
func object(fields ...field) *shape { return &shape{typ: typeObject, fields: fields} }
func array(elem *shape) *shape { return &shape{typ: typeArray, elem: elem} }
func nullable(s *shape) *shape { s.nullable = true; return s }
func f(name string, s *shape) field { return field{name: name, shape: s} }
func req(name string, s *shape) field { return field{name: name, shape: s, required: true} }

var documentShape = object(
	f("id", str()),
	f("type", str()),
	f("numero", str()),
	f("date", str()),
	f("validityDate", str()),
	f("dueDate", str()),
	f("status", str()),
	f("object", str()),
	req("customer", object(
		f("customerName", str()),
		f("companyName", str()),
		f("companyId", str()),
		f("address", str()),
		f("postalCode", str()),
		f("city", str()),
		f("email", str()),
		f("phoneNumber", str()),
		f("clientType", str()),
	)),
	req("services", array(object(
		req("id", integer()),
		f("description", str()),
		req("quantity", number()),
		f("unit", str()),
		req("unitPriceHT", number()),
		req("totalHT", number()),
	))),
	req("totals", object(
		req("totalHT", number()),
		req("VAT", number()),
		req("VATRate", number()),
		req("totalTTC", number()),
	)),
	f("notes", str()),
	f("associatedQuote", str()),
	f("chorusPro", nullable(object(
		req("isSent", boolean()),
		f("dateSending", nullable(str())),
		f("depositNumber", nullable(str())),
		f("status", str()),
		f("errors", array(str())),
	))),
	f("createdAt", str()),
	f("editedAt", str()),
)

// walk recorre v según s y acumula un error por cada valor de tipo incorrecto
// y por cada clave obligatoria ausente. El resto de ausencias las reporta el esquema.
func (s *shape) walk(path string, v any, errs *[]ValidationError) {
	if v == nil {
		if !s.nullable {
			*errs = append(*errs, structural(orRoot(path), fmt.Sprintf("expected %s, got null", s.typ)))
		}
		return
	}
	switch s.typ {
	case typeString:
		if _, ok := v.(string); !ok {
			*errs = append(*errs, mismatch(path, s.typ, v))
		}
	case typeBool:
		if _, ok := v.(bool); !ok {
			*errs = append(*errs, mismatch(path, s.typ, v))
		}
	case typeNumber, typeInteger:
		n, ok := v.(json.Number)
		if !ok {
			*errs = append(*errs, mismatch(path, s.typ, v))
			return
		}
		if s.typ == typeInteger {
			if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
				*errs = append(*errs, structural(path, fmt.Sprintf("expected integer, got %s", n)))
			}
			return
		}
		if _, err := decimal.NewFromString(n.String()); err != nil {
			*errs = append(*errs, structural(path, fmt.Sprintf("invalid number %s", n)))
		}
	case typeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			*errs = append(*errs, mismatch(path, s.typ, v))
			return
		}
		for _, fl := range s.fields {
			child, present := obj[fl.name]
			if !present {
				if fl.required {
					*errs = append(*errs, structural(join(path, fl.name), fl.name+" is required"))
				}
				continue
			}
			fl.shape.walk(join(path, fl.name), child, errs)
		}
	case typeArray:
		arr, ok := v.([]any)
		if !ok {
			*errs = append(*errs, mismatch(path, s.typ, v))
			return
		}
		for i, item := range arr {
			s.elem.walk(join(path, strconv.Itoa(i)), item, errs)
		}
	}
}

func mismatch(path string, want jsonType, v any) ValidationError {
	return structural(orRoot(path), fmt.Sprintf("expected %s, got %s", want, typeName(v)))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func orRoot(path string) string {
	if path == "" {
		return RootPath
	}
	return path
}
