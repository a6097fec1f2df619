package repository

import (
	"context"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// SettingsRepository define el puerto de persistencia del registro de configuración.
// Save no modifica los contadores de numeración; solo AdvanceSequence lo hace.
type SettingsRepository interface {
	Load(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
	LoadSequence(ctx context.Context) (entity.SequenceState, error)
	// AdvanceSequence fija el contador a max(actual, n) de forma atómica.
	AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error
}
