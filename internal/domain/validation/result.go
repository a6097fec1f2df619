package validation

import (
	"fmt"
	"strings"

	"github.com/Toutiscope/Facturation/internal/domain"
)

// ErrorKind distingue errores de forma/tipo de los de reglas de negocio.
type ErrorKind string

const (
	KindStructural   ErrorKind = "structural"
	KindBusinessRule ErrorKind = "business_rule"
)

// RootPath se usa cuando el error afecta al documento completo.
const RootPath = "document"

// ValidationError un error localizado por su ruta con puntos (p. ej. services.0.totalHT).
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// Result informe de validación. Lista vacía ⇔ documento válido.
type Result struct {
	Errors []ValidationError `json:"errors"`
}

// Valid indica si el documento superó todas las etapas.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err devuelve nil si el resultado es válido y *Error en caso contrario.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Errors: r.Errors}
}

// Has indica si existe algún error del tipo dado en la ruta.
func (r Result) Has(kind ErrorKind, path string) bool {
	for _, e := range r.Errors {
		if e.Kind == kind && e.Path == path {
			return true
		}
	}
	return false
}

// Error envuelve un informe no válido para propagarlo como error.
// errors.Is(err, domain.ErrInvalidInput) es verdadero.
type Error struct {
	Errors []ValidationError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		parts = append(parts, ve.Error())
	}
	return fmt.Sprintf("documento inválido (%d errores): %s", len(e.Errors), strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error { return domain.ErrInvalidInput }

func structural(path, msg string) ValidationError {
	return ValidationError{Kind: KindStructural, Path: path, Message: msg}
}

func businessRule(path, msg string) ValidationError {
	return ValidationError{Kind: KindBusinessRule, Path: path, Message: msg}
}
