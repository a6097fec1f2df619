// Package numbering formatea y analiza los números de documento (Q000042, I000042).
// Es puro: el estado de la secuencia vive en el secuenciador de la capa de aplicación.
package numbering

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// Digits ancho fijo de la parte numérica.
const Digits = 6

// Max es el mayor contador representable con Digits cifras.
const Max = 999999

var (
	// ErrMalformed el número no respeta el formato prefijo + 6 dígitos.
	ErrMalformed = errors.New("número de documento mal formado")
	// ErrExhausted la secuencia llegó a Max.
	ErrExhausted = errors.New("secuencia de numeración agotada")
)

var patterns = map[entity.Kind]*regexp.Regexp{
	entity.KindQuote:   regexp.MustCompile(`^Q\d{6}$`),
	entity.KindInvoice: regexp.MustCompile(`^I\d{6}$`),
}

// Format construye el número para el contador n.
func Format(kind entity.Kind, n int64) (string, error) {
	if n < 1 || n > Max {
		return "", fmt.Errorf("%w: %d", ErrExhausted, n)
	}
	return fmt.Sprintf("%s%0*d", kind.Prefix(), Digits, n), nil
}

// Next devuelve el número siguiente a counter.
func Next(kind entity.Kind, counter int64) (string, error) {
	return Format(kind, counter+1)
}

// Parse extrae la parte numérica de un número bien formado.
func Parse(kind entity.Kind, numero string) (int64, error) {
	if !IsWellFormed(kind, numero) {
		return 0, fmt.Errorf("%w: %q (esperado %s%06d)", ErrMalformed, numero, kind.Prefix(), 1)
	}
	n, err := strconv.ParseInt(numero[len(kind.Prefix()):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return n, nil
}

// IsWellFormed indica si numero cumple ^<prefijo>\d{6}$ para el tipo.
func IsWellFormed(kind entity.Kind, numero string) bool {
	re, ok := patterns[kind]
	return ok && re.MatchString(numero)
}
