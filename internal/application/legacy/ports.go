package legacy

import (
	"context"

	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios atados a una misma unidad de trabajo.
// En PostgreSQL es una transacción; en el almacenamiento por archivos no hay rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docs repository.DocumentRepository,
		settings repository.SettingsRepository,
	) error) error
}
