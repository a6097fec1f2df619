package pdf

import (
	"sync"

	"github.com/phpdave11/gofpdf"

	"github.com/Toutiscope/Facturation/internal/domain/layout"
)

// FontMetrics implementa layout.Measurer con las métricas de las fuentes
// estándar de gofpdf, las mismas que usa GofpdfPainter. Seguro para uso concurrente.
type FontMetrics struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

var _ layout.Measurer = (*FontMetrics)(nil)

// NewFontMetrics construye el medidor.
func NewFontMetrics() *FontMetrics {
	pdf := gofpdf.New("P", "pt", "A4", "")
	return &FontMetrics{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// StringWidth ancho en puntos de s con la fuente, estilo y tamaño indicados.
func (m *FontMetrics) StringWidth(s string, st layout.TextStyle) float64 {
	if s == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(st.Family, fontStyle(st), st.Size)
	return m.pdf.GetStringWidth(m.tr(s))
}
