package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/numbering"
)

// Sequencer es el único que modifica los contadores de numeración.
//
// Commit solo avanza el contador si el número confirmado es mayor que el
// actual: reconfirmar un número (reguardado de un documento editado) o
// confirmar uno antiguo fuera de orden no tiene efecto. No garantiza una
// numeración sin huecos bajo concurrencia real.
type Sequencer struct {
	store SequenceStore
	log   zerolog.Logger
}

// NewSequencer construye el secuenciador.
func NewSequencer(store SequenceStore, log zerolog.Logger) *Sequencer {
	return &Sequencer{store: store, log: log}
}

// PeekNext devuelve el próximo número sin modificar el estado.
func (s *Sequencer) PeekNext(ctx context.Context, kind entity.Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, kind)
	}
	state, err := s.store.LoadSequence(ctx)
	if err != nil {
		return "", fmt.Errorf("cargar secuencia: %w", err)
	}
	return numbering.Next(kind, state.Counter(kind))
}

// Commit registra que numero fue usado. Un número mal formado devuelve
// domain.ErrSequencerInconsistency y deja el estado intacto.
func (s *Sequencer) Commit(ctx context.Context, kind entity.Kind, numero string) error {
	n, err := numbering.Parse(kind, numero)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSequencerInconsistency, err)
	}
	state, err := s.store.LoadSequence(ctx)
	if err != nil {
		return fmt.Errorf("cargar secuencia: %w", err)
	}
	current := state.Counter(kind)
	if n <= current {
		return nil
	}
	if err := s.store.AdvanceSequence(ctx, kind, n); err != nil {
		return fmt.Errorf("avanzar secuencia: %w", err)
	}
	s.log.Debug().Str("kind", string(kind)).Int64("from", current).Int64("to", n).Msg("secuencia avanzada")
	return nil
}

// IsWellFormed comprueba el formato prefijo + 6 dígitos.
func (s *Sequencer) IsWellFormed(kind entity.Kind, numero string) bool {
	return numbering.IsWellFormed(kind, numero)
}
