package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// SettingsUseCase lectura y actualización del registro de configuración.
type SettingsUseCase struct {
	repo repository.SettingsRepository
	log  zerolog.Logger
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, log zerolog.Logger) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, log: log}
}

// Get devuelve la configuración actual.
func (uc *SettingsUseCase) Get(ctx context.Context) (*entity.Settings, error) {
	return uc.repo.Load(ctx)
}

// Update guarda la configuración. Los contadores recibidos se ignoran: solo el
// secuenciador los modifica, así que la respuesta refleja los almacenados.
func (uc *SettingsUseCase) Update(ctx context.Context, in *entity.Settings) (*entity.Settings, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: configuración vacía", domain.ErrInvalidInput)
	}
	current, err := uc.repo.LoadSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar secuencia: %w", err)
	}
	next := *in
	next.Billing.LatestQuoteNumber = current.Quote
	next.Billing.LatestInvoiceNumber = current.Invoice
	if next.Billing.Currency == "" {
		next.Billing.Currency = entity.DefaultCurrency
	}

	if err := uc.repo.Save(ctx, &next); err != nil {
		uc.log.Error().Err(err).Msg("guardar configuración")
		return nil, fmt.Errorf("guardar configuración: %w", err)
	}
	uc.log.Info().Str("company", next.Company.CompanyName).Msg("configuración actualizada")
	return &next, nil
}
