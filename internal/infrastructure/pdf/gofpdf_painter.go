// Package pdf convierte las páginas calculadas por el motor de maquetación en
// un archivo PDF (gofpdf) y genera el registro anual de documentos (Maroto v2).
package pdf

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/phpdave11/gofpdf"
	"github.com/rs/zerolog"

	appbilling "github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
)

const producer = "Facturation"

// GofpdfPainter implementa billing.PagePainter dibujando cada primitiva con gofpdf.
// Usa las fuentes estándar del PDF codificadas en cp1252.
type GofpdfPainter struct {
	log zerolog.Logger
}

var _ appbilling.PagePainter = (*GofpdfPainter)(nil)

// NewGofpdfPainter construye el pintor.
func NewGofpdfPainter(log zerolog.Logger) *GofpdfPainter {
	return &GofpdfPainter{log: log}
}

// Paint devuelve los bytes del PDF con una página por cada layout.Page.
func (p *GofpdfPainter) Paint(pages []layout.Page, info layout.Info) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf: sin páginas que pintar")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pages[0].Width, Ht: pages[0].Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetTitle(info.Title, true)
	pdf.SetAuthor(info.Author, true)
	pdf.SetSubject(info.Subject, true)
	pdf.SetCreator(producer, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	c := &canvas{pdf: pdf, tr: tr, log: p.log, images: map[string]*gofpdf.ImageInfoType{}}

	for _, page := range pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, it := range page.Items {
			switch v := it.(type) {
			case layout.Rect:
				c.rect(v)
			case layout.Line:
				c.line(v)
			case layout.Text:
				c.text(v)
			case layout.Image:
				c.image(v)
			}
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("pdf: página %d: %w", page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// ── Dibujo ────────────────────────────────────────────────────────────────────

type canvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	log    zerolog.Logger
	images map[string]*gofpdf.ImageInfoType
}

func (c *canvas) text(t layout.Text) {
	if t.Content == "" {
		return
	}
	c.pdf.SetFont(t.Style.Family, fontStyle(t.Style), t.Style.Size)
	c.pdf.SetTextColor(int(t.Style.Color.R), int(t.Style.Color.G), int(t.Style.Color.B))
	s := c.tr(t.Content)
	w := t.MaxWidth
	if w <= 0 {
		w = c.pdf.GetStringWidth(s)
	}
	c.pdf.SetXY(t.X, t.Y)
	c.pdf.CellFormat(w, t.Style.LineHeight(), s, "", 0, alignStr(t.Style.Align), false, 0, "")
}

func (c *canvas) rect(r layout.Rect) {
	style := ""
	if r.Fill != nil {
		c.pdf.SetFillColor(int(r.Fill.R), int(r.Fill.G), int(r.Fill.B))
		style += "F"
	}
	if r.Stroke != nil {
		c.pdf.SetDrawColor(int(r.Stroke.R), int(r.Stroke.G), int(r.Stroke.B))
		c.pdf.SetLineWidth(lineWidth(r.LineWidth))
		style += "D"
	}
	if style == "" {
		return
	}
	if r.Radius <= 0 {
		c.pdf.Rect(r.X, r.Y, r.W, r.H, style)
		return
	}
	c.roundedRect(r.X, r.Y, r.W, r.H, math.Min(r.Radius, math.Min(r.W, r.H)/2), style)
}

// kappa aproxima un cuarto de círculo con una curva de Bézier cúbica.
const kappa = 0.5523

func (c *canvas) roundedRect(x, y, w, h, r float64, style string) {
	k := r * kappa
	p := c.pdf
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CurveBezierCubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CurveBezierCubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CurveBezierCubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CurveBezierCubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.ClosePath()
	p.DrawPath(style)
}

func (c *canvas) line(l layout.Line) {
	c.pdf.SetDrawColor(int(l.Stroke.R), int(l.Stroke.G), int(l.Stroke.B))
	c.pdf.SetLineWidth(lineWidth(l.Width))
	c.pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
}

// image escala la imagen dentro de MaxW × MaxH conservando proporciones.
// Una imagen ilegible se omite con un aviso.
func (c *canvas) image(im layout.Image) {
	typ := ImageType(im.Data)
	if typ == "" {
		c.log.Warn().Int("bytes", len(im.Data)).Msg("formato de imagen no soportado, se omite")
		return
	}
	sum := sha1.Sum(im.Data)
	name := hex.EncodeToString(sum[:])

	info, ok := c.images[name]
	if !ok {
		info = c.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(im.Data))
		if err := c.pdf.Error(); err != nil || info == nil {
			c.log.Warn().Err(err).Msg("imagen ilegible, se omite")
			c.pdf.ClearError()
			return
		}
		c.images[name] = info
	}

	w, h := Fit(info.Width(), info.Height(), im.MaxW, im.MaxH)
	c.pdf.ImageOptions(name, im.X, im.Y, w, h, false, gofpdf.ImageOptions{ImageType: typ}, 0, "")
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// ImageType detecta PNG, JPG o GIF por los bytes iniciales; "" si no se reconoce.
func ImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "GIF"
	default:
		return ""
	}
}

// Fit reduce w × h para que quepa en maxW × maxH sin deformar. Nunca amplía.
func Fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := math.Min(1, math.Min(maxW/w, maxH/h))
	return w * scale, h * scale
}

func fontStyle(st layout.TextStyle) string {
	s := ""
	if st.Bold {
		s += "B"
	}
	if st.Italic {
		s += "I"
	}
	return s
}

func alignStr(a layout.Align) string {
	switch a {
	case layout.AlignCenter:
		return "CM"
	case layout.AlignRight:
		return "RM"
	default:
		return "LM"
	}
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return 0.5
	}
	return w
}
