package filestore

import (
	"context"

	"github.com/Toutiscope/Facturation/internal/application/legacy"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

var _ legacy.TxRunner = (*UnitOfWork)(nil)

// UnitOfWork entrega los repositorios de archivos tal cual: cada escritura es atómica por sí sola,
// pero no hay rollback de las anteriores si fn falla.
type UnitOfWork struct {
	docs     repository.DocumentRepository
	settings repository.SettingsRepository
}

// NewUnitOfWork construye la unidad de trabajo.
func NewUnitOfWork(docs repository.DocumentRepository, settings repository.SettingsRepository) *UnitOfWork {
	return &UnitOfWork{docs: docs, settings: settings}
}

// Run ejecuta fn con los repositorios.
func (u *UnitOfWork) Run(ctx context.Context, fn func(
	docs repository.DocumentRepository,
	settings repository.SettingsRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(u.docs, u.settings)
}
