package billing

import (
	"context"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
)

// SequenceStore persistencia de los contadores de numeración (subconjunto de SettingsRepository).
type SequenceStore interface {
	LoadSequence(ctx context.Context) (entity.SequenceState, error)
	AdvanceSequence(ctx context.Context, kind entity.Kind, n int64) error
}

// PageComposer primera fase del PDF: geometría de páginas (layout.Engine).
type PageComposer interface {
	Layout(doc *entity.Document, cfg entity.RenderConfig) ([]layout.Page, error)
}

// PagePainter segunda fase del PDF: convierte páginas en bytes.
type PagePainter interface {
	Paint(pages []layout.Page, info layout.Info) ([]byte, error)
}

// RegisterRow una línea del registro de documentos.
type RegisterRow struct {
	Numero   string
	Date     string
	Customer string
	Status   string
	Total    string
}

// RegisterReport datos del registro anual de presupuestos o facturas.
type RegisterReport struct {
	Kind    entity.Kind
	Year    int
	Company entity.Company
	Rows    []RegisterRow
	Count   int
	Sum     string
}

// RegisterGenerator genera el PDF del registro (p. ej. con Maroto).
type RegisterGenerator interface {
	GenerateRegister(ctx context.Context, report RegisterReport) ([]byte, error)
}

// ElectronicInvoiceBuilder serializa una factura al XML de factura electrónica (Factur-X / CII).
type ElectronicInvoiceBuilder interface {
	Build(doc *entity.Document, settings *entity.Settings) ([]byte, error)
}

// ClearinghouseSubmitter envía una factura a la plataforma pública de facturación.
type ClearinghouseSubmitter interface {
	Submit(ctx context.Context, doc *entity.Document, xml []byte) (*entity.ClearinghouseStatus, error)
}

// Recorder métricas del flujo de documentos.
type Recorder interface {
	ValidationCompleted(kind entity.Kind, valid bool)
	DocumentSaved(kind entity.Kind)
	DocumentRendered(kind entity.Kind, pages int)
	LayoutOverflow(kind entity.Kind)
}

type noopRecorder struct{}

func (noopRecorder) ValidationCompleted(entity.Kind, bool) {}
func (noopRecorder) DocumentSaved(entity.Kind) {}
func (noopRecorder) DocumentRendered(entity.Kind, int) {}
func (noopRecorder) LayoutOverflow(entity.Kind) {}

func recorderOrNoop(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
