package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// ExchangeUseCase intercambio electrónico de facturas: XML Factur-X y envío
// a la plataforma pública. Solo aplica a facturas.
type ExchangeUseCase struct {
	docs      repository.DocumentRepository
	settings  repository.SettingsRepository
	builder   ElectronicInvoiceBuilder
	submitter ClearinghouseSubmitter
	log       zerolog.Logger
}

// NewExchangeUseCase construye el caso de uso.
func NewExchangeUseCase(
	docs repository.DocumentRepository,
	settings repository.SettingsRepository,
	builder ElectronicInvoiceBuilder,
	submitter ClearinghouseSubmitter,
	log zerolog.Logger,
) *ExchangeUseCase {
	return &ExchangeUseCase{
		docs:      docs,
		settings:  settings,
		builder:   builder,
		submitter: submitter,
		log:       log,
	}
}

// ExportFacturX devuelve el XML CII de la factura y su nombre de archivo.
func (uc *ExchangeUseCase) ExportFacturX(ctx context.Context, id string) ([]byte, string, error) {
	inv, settings, err := uc.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	xml, err := uc.builder.Build(inv, settings)
	if err != nil {
		return nil, "", fmt.Errorf("facturx: construir XML: %w", err)
	}
	uc.log.Info().Str("numero", inv.Numero).Int("bytes", len(xml)).Msg("factur-x exportado")
	return xml, inv.Numero + "-facturx.xml", nil
}

// SubmitToClearinghouse genera el XML y lo envía; si el envío tiene éxito,
// guarda el estado devuelto en la factura.
func (uc *ExchangeUseCase) SubmitToClearinghouse(ctx context.Context, id string) (*entity.ClearinghouseStatus, error) {
	// ── 1. Cargar factura + XML ───────────────────────────────────────────────
	inv, settings, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	xml, err := uc.builder.Build(inv, settings)
	if err != nil {
		return nil, fmt.Errorf("clearinghouse: construir XML: %w", err)
	}

	// ── 2. Enviar ─────────────────────────────────────────────────────────────
	status, err := uc.submitter.Submit(ctx, inv, xml)
	if err != nil {
		uc.log.Warn().Err(err).Str("numero", inv.Numero).Msg("envío a la plataforma fallido")
		return nil, fmt.Errorf("clearinghouse: %w", err)
	}

	// ── 3. Persistir estado ───────────────────────────────────────────────────
	inv.ChorusPro = status
	if err := uc.docs.Put(ctx, inv); err != nil {
		return nil, fmt.Errorf("clearinghouse: guardar estado: %w", err)
	}
	return status, nil
}

func (uc *ExchangeUseCase) load(ctx context.Context, id string) (*entity.Document, *entity.Settings, error) {
	inv, err := uc.docs.Get(ctx, entity.KindInvoice, id)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener factura: %w", err)
	}
	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	return inv, settings, nil
}
