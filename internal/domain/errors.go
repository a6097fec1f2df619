package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrNotSupported = errors.New("operación no soportada")

	// ErrLayoutOverflow: un bloque atómico no cabe ni en una página vacía.
	ErrLayoutOverflow = errors.New("bloque demasiado alto para una página")

	// ErrSequencerInconsistency: se intentó confirmar un número mal formado.
	ErrSequencerInconsistency = errors.New("número de documento inconsistente con la secuencia")
)
