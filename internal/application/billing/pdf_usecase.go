package billing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
	"github.com/Toutiscope/Facturation/internal/domain/repository"
)

// PDFUseCase genera el PDF de un presupuesto o factura y el registro anual.
// El documento se maqueta primero (PageComposer) y se pinta después (PagePainter).
type PDFUseCase struct {
	docs     repository.DocumentRepository
	settings repository.SettingsRepository
	composer PageComposer
	painter  PagePainter
	register RegisterGenerator
	metrics  Recorder
	log      zerolog.Logger
	readFile func(string) ([]byte, error)
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	docs repository.DocumentRepository,
	settings repository.SettingsRepository,
	composer PageComposer,
	painter PagePainter,
	register RegisterGenerator,
	metrics Recorder,
	log zerolog.Logger,
) *PDFUseCase {
	return &PDFUseCase{
		docs:     docs,
		settings: settings,
		composer: composer,
		painter:  painter,
		register: register,
		metrics:  recorderOrNoop(metrics),
		log:      log,
		readFile: os.ReadFile,
	}
}

// ExportPDF carga el documento y la configuración, maqueta y pinta.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrNotFound          si el documento no existe.
//   - *layout.OverflowError       si la tabla de servicios no cabe en una página.
func (uc *PDFUseCase) ExportPDF(ctx context.Context, kind entity.Kind, id string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar documento ───────────────────────────────────────────────────
	doc, err := uc.docs.Get(ctx, kind, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}

	pdfBytes, err = uc.Render(ctx, doc)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, Filename(doc), nil
}

// Render maqueta y pinta un documento ya cargado (y validado).
func (uc *PDFUseCase) Render(ctx context.Context, doc *entity.Document) ([]byte, error) {
	kind := doc.Type

	// ── 1. Cargar configuración y logo ────────────────────────────────────────
	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar configuración: %w", err)
	}
	cfg := settings.RenderConfig(uc.loadLogo(settings.Company.Logo))

	// ── 2. Maquetar ───────────────────────────────────────────────────────────
	pages, err := uc.composer.Layout(doc, cfg)
	if err != nil {
		if errors.Is(err, domain.ErrLayoutOverflow) {
			uc.metrics.LayoutOverflow(kind)
			uc.log.Warn().Err(err).Str("numero", doc.Numero).Msg("el documento no cabe en la página")
		}
		return nil, fmt.Errorf("pdf: maquetar: %w", err)
	}

	// ── 3. Pintar ─────────────────────────────────────────────────────────────
	out, err := uc.painter.Paint(pages, layout.Info{
		Title:   kind.Title() + " " + doc.Numero,
		Author:  settings.Company.CompanyName,
		Subject: doc.Object,
	})
	if err != nil {
		return nil, fmt.Errorf("pdf: pintar: %w", err)
	}

	uc.metrics.DocumentRendered(kind, len(pages))
	uc.log.Info().Str("kind", string(kind)).Str("numero", doc.Numero).Int("pages", len(pages)).Msg("pdf generado")
	return out, nil
}

// OutputFolder carpeta de exportación configurada (vacía si no hay).
func (uc *PDFUseCase) OutputFolder(ctx context.Context) (string, error) {
	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	return settings.Billing.OutputFolder, nil
}

// ExportRegister genera el registro de documentos de un año: una línea por
// documento más número de documentos y suma de los totales TTC.
func (uc *PDFUseCase) ExportRegister(ctx context.Context, kind entity.Kind, year int) ([]byte, string, error) {
	if year <= 0 {
		return nil, "", fmt.Errorf("%w: año requerido", domain.ErrInvalidInput)
	}
	docs, err := uc.docs.List(ctx, kind, repository.DocumentFilter{Year: year})
	if err != nil {
		return nil, "", fmt.Errorf("registro: listar documentos: %w", err)
	}
	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("registro: cargar configuración: %w", err)
	}
	cfg := settings.RenderConfig(nil)

	report := BuildRegister(kind, year, settings.Company, cfg.Currency, docs)
	out, err := uc.register.GenerateRegister(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("registro: generar: %w", err)
	}
	filename := fmt.Sprintf("%s-%d.pdf", kind.Plural(), year)
	uc.log.Info().Str("kind", string(kind)).Int("year", year).Int("count", report.Count).Msg("registro generado")
	return out, filename, nil
}

// BuildRegister agrega los documentos en filas del registro en orden cronológico.
func BuildRegister(kind entity.Kind, year int, company entity.Company, currency string, docs []*entity.Document) RegisterReport {
	rows := make([]RegisterRow, 0, len(docs))
	sum := decimal.Zero
	// List devuelve los más recientes primero; el registro va en orden de emisión.
	for i := len(docs) - 1; i >= 0; i-- {
		d := docs[i]
		sum = sum.Add(d.Totals.TotalTTC)
		rows = append(rows, RegisterRow{
			Numero:   d.Numero,
			Date:     layout.FormatDate(d.Date),
			Customer: d.Customer.DisplayName(),
			Status:   d.Status,
			Total:    layout.FormatMoney(d.Totals.TotalTTC, currency),
		})
	}
	return RegisterReport{
		Kind:    kind,
		Year:    year,
		Company: company,
		Rows:    rows,
		Count:   len(rows),
		Sum:     layout.FormatMoney(sum, currency),
	}
}

// Filename nombre de exportación: <numero>-<cliente>.pdf.
func Filename(doc *entity.Document) string {
	name := slug.Make(doc.Customer.DisplayName())
	if name == "" {
		return doc.Numero + ".pdf"
	}
	return doc.Numero + "-" + name + ".pdf"
}

// loadLogo un logo ilegible no impide generar el PDF: se omite con un aviso.
func (uc *PDFUseCase) loadLogo(path string) []byte {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	data, err := uc.readFile(path)
	if err != nil {
		uc.log.Warn().Err(err).Str("path", path).Msg("no se pudo leer el logo")
		return nil
	}
	return data
}
