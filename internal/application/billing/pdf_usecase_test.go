package billing_test

import (
	"context"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
)

// halfEm mide cada carácter como medio cuerpo de letra.
type halfEm struct{}

func (halfEm) StringWidth(s string, st layout.TextStyle) float64 {
	return float64(utf8.RuneCountInString(s)) * st.Size * 0.5
}

type pdfFixture struct {
	uc       *billing.PDFUseCase
	docs     *memDocs
	settings *memSettings
	painter  *stubPainter
	register *stubRegister
	metrics  *countingRecorder
}

func newPDFFixture() *pdfFixture {
	f := &pdfFixture{
		docs:     newMemDocs(),
		settings: newMemSettings(),
		painter:  &stubPainter{},
		register: &stubRegister{},
		metrics:  &countingRecorder{},
	}
	engine := layout.NewEngine(halfEm{}, layout.DefaultOptions())
	f.uc = billing.NewPDFUseCase(f.docs, f.settings, engine, f.painter, f.register, f.metrics, zerolog.Nop())
	return f
}

func TestPDFUseCase_ExportPDF(t *testing.T) {
	f := newPDFFixture()
	ctx := context.Background()
	doc := newQuote("Q000001")
	doc.ID = doc.Numero
	doc.Object = "Refonte du site vitrine"
	require.NoError(t, f.docs.Put(ctx, doc))

	out, filename, err := f.uc.ExportPDF(ctx, entity.KindQuote, "Q000001")
	require.NoError(t, err)

	assert.NotEmpty(t, out)
	assert.Equal(t, "Q000001-jeanne-martin.pdf", filename)
	assert.Equal(t, "QUOTE Q000001", f.painter.info.Title)
	assert.Equal(t, "Atelier Dupont", f.painter.info.Author)
	assert.Equal(t, "Refonte du site vitrine", f.painter.info.Subject)
	require.Len(t, f.painter.pages, 1)
	assert.Equal(t, 1, f.metrics.rendered)
	assert.Equal(t, 1, f.metrics.pages)
}

func TestPDFUseCase_ExportPDF_LogoAusenteSeIgnora(t *testing.T) {
	f := newPDFFixture()
	ctx := context.Background()
	s, _ := f.settings.Load(ctx)
	s.Company.Logo = "/nonexistent/logo.png"
	require.NoError(t, f.settings.Save(ctx, s))

	doc := newInvoice("I000001")
	doc.ID = doc.Numero
	require.NoError(t, f.docs.Put(ctx, doc))

	_, _, err := f.uc.ExportPDF(ctx, entity.KindInvoice, "I000001")
	require.NoError(t, err)
	for _, p := range f.painter.pages {
		for _, it := range p.Items {
			_, isImage := it.(layout.Image)
			assert.False(t, isImage)
		}
	}
}

func TestPDFUseCase_ExportPDF_NoEncontrado(t *testing.T) {
	f := newPDFFixture()
	_, _, err := f.uc.ExportPDF(context.Background(), entity.KindQuote, "Q000404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPDFUseCase_ExportPDF_Desborde(t *testing.T) {
	f := newPDFFixture()
	ctx := context.Background()
	doc := newQuote("Q000007")
	doc.ID = doc.Numero
	doc.Services = nil
	for i := 1; i <= 40; i++ {
		doc.Services = append(doc.Services, entity.ServiceLine{
			ID: int64(i), Description: fmt.Sprintf("Prestation %d", i), Quantity: d("1"),
			Unit: entity.UnitFlat, UnitPriceHT: d("10"), TotalHT: d("10"),
		})
	}
	require.NoError(t, f.docs.Put(ctx, doc))

	_, _, err := f.uc.ExportPDF(ctx, entity.KindQuote, "Q000007")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLayoutOverflow)

	var oerr *layout.OverflowError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, 1, f.metrics.overflows)
	assert.Zero(t, f.metrics.rendered)
	assert.Nil(t, f.painter.pages, "no se pinta nada")
}

func TestPDFUseCase_ExportRegister(t *testing.T) {
	f := newPDFFixture()
	ctx := context.Background()

	for i, total := range []string{"200", "150.50", "49.50"} {
		doc := newInvoice(fmt.Sprintf("I%06d", i+1))
		doc.ID = doc.Numero
		doc.Totals.TotalTTC = d(total)
		doc.CreatedAt = fmt.Sprintf("2026-0%d-01T10:00:00Z", i+1)
		require.NoError(t, f.docs.Put(ctx, doc))
	}
	old := newInvoice("I000009")
	old.ID = old.Numero
	old.CreatedAt = "2025-12-31T10:00:00Z"
	require.NoError(t, f.docs.Put(ctx, old))

	out, filename, err := f.uc.ExportRegister(ctx, entity.KindInvoice, 2026)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, "invoices-2026.pdf", filename)

	report := f.register.report
	assert.Equal(t, 3, report.Count)
	assert.Equal(t, "400.00 €", report.Sum)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "I000001", report.Rows[0].Numero, "orden de emisión")
	assert.Equal(t, "02/03/2026", report.Rows[0].Date)
	assert.Equal(t, "Jeanne Martin", report.Rows[0].Customer)

	_, _, err = f.uc.ExportRegister(ctx, entity.KindInvoice, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFilename(t *testing.T) {
	doc := newQuote("Q000012")
	assert.Equal(t, "Q000012-jeanne-martin.pdf", billing.Filename(doc))

	doc.Customer.CustomerName = "Élodie Durand-Lefèvre"
	assert.Equal(t, "Q000012-elodie-durand-lefevre.pdf", billing.Filename(doc))

	doc.Customer.CustomerName = ""
	doc.Customer.CompanyName = ""
	assert.Equal(t, "Q000012.pdf", billing.Filename(doc))
}
