// Package layout calcula la geometría de las páginas de un presupuesto o factura.
//
// Es la primera de dos fases: Layout produce páginas de primitivas posicionadas
// (texto, rectángulos, líneas, imágenes) sin ninguna dependencia del motor PDF;
// un pintor las convierte después en bytes. Layout es puro y determinista.
//
//	┌──────────────────────────────────────────────┐
//	│  logo + emisor        │  título, nº, fechas  │
//	│                       │  [ cliente ]         │
//	│  ──────────────────────────────────────────  │
//	│  Objeto (opcional)                           │
//	│  ╭─────────┬─────┬──────┬────────┬───────╮   │
//	│  │ Descr.  │ Qty │ Unit │ P.unit │ Total │   │
//	│  ╰─────────┴─────┴──────┴────────┴───────╯   │
//	│  medios de pago          [ totales ]         │
//	│  notas                                       │
//	│                                              │
//	│  condiciones / penalidades / legal / banco   │
//	│  franja de identidad (solo última página)    │
//	└──────────────────────────────────────────────┘
package layout

import (
	"fmt"

	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// Tamaño A4 en puntos y margen por defecto.
const (
	A4Width       = 595.0
	A4Height      = 842.0
	DefaultMargin = 50.0
)

// Options tamaño de página y márgenes. Los valores cero toman el valor por defecto.
type Options struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
}

// DefaultOptions A4 con márgenes de 50pt.
func DefaultOptions() Options {
	return UniformMargins(DefaultMargin)
}

// UniformMargins A4 con el mismo margen en los cuatro lados.
func UniformMargins(margin float64) Options {
	return Options{
		PageWidth:    A4Width,
		PageHeight:   A4Height,
		MarginTop:    margin,
		MarginRight:  margin,
		MarginBottom: margin,
		MarginLeft:   margin,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PageWidth <= 0 {
		o.PageWidth = def.PageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = def.PageHeight
	}
	if o.MarginTop <= 0 {
		o.MarginTop = def.MarginTop
	}
	if o.MarginRight <= 0 {
		o.MarginRight = def.MarginRight
	}
	if o.MarginBottom <= 0 {
		o.MarginBottom = def.MarginBottom
	}
	if o.MarginLeft <= 0 {
		o.MarginLeft = def.MarginLeft
	}
	return o
}

// OverflowError un bloque atómico es más alto que el cuerpo de una página vacía.
type OverflowError struct {
	Block     string
	Height    float64
	Available float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("layout: el bloque %q mide %.1fpt y la página solo admite %.1fpt", e.Block, e.Height, e.Available)
}

func (e *OverflowError) Unwrap() error { return domain.ErrLayoutOverflow }

// Engine motor de maquetación. No guarda estado entre llamadas.
type Engine struct {
	m    Measurer
	opts Options
}

// NewEngine construye el motor con el medidor de fuentes indicado.
func NewEngine(m Measurer, opts Options) *Engine {
	return &Engine{m: m, opts: opts.withDefaults()}
}

// Options devuelve las opciones efectivas (con valores por defecto aplicados).
func (e *Engine) Options() Options { return e.opts }

func (e *Engine) contentWidth() float64 {
	return e.opts.PageWidth - e.opts.MarginLeft - e.opts.MarginRight
}

func (e *Engine) top() float64 { return e.opts.MarginTop }
func (e *Engine) bottom() float64 { return e.opts.PageHeight - e.opts.MarginBottom }

func (e *Engine) bodyHeight() float64 { return e.bottom() - e.top() }

// Layout calcula las páginas del documento. El documento debe haber pasado la validación.
func (e *Engine) Layout(doc *entity.Document, cfg entity.RenderConfig) ([]Page, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: %w: documento nil", domain.ErrInvalidInput)
	}
	if cfg.Currency == "" {
		cfg.Currency = entity.DefaultCurrency
	}

	c := &composer{e: e}
	c.newPage()

	// ── 1. Cabecera (altura = max de ambas columnas) ──
	if err := c.place(e.header(doc, cfg)); err != nil {
		return nil, err
	}

	// ── 2. Objeto ──
	if err := c.place(e.objectLine(doc)); err != nil {
		return nil, err
	}

	// ── 3. Tabla de servicios ──
	if err := c.place(e.serviceTable(doc, cfg)); err != nil {
		return nil, err
	}

	// ── 4. Totales ──
	if err := c.place(e.totals(doc, cfg)); err != nil {
		return nil, err
	}

	// ── 5. Notas ──
	if err := c.place(e.notes(doc)); err != nil {
		return nil, err
	}

	// ── 6. Pie anclado abajo + franja de identidad ──
	if err := c.placeFooter(e.footer(doc, cfg), e.identityStrip(cfg)); err != nil {
		return nil, err
	}

	e.numberPages(c.pages)
	return c.pages, nil
}

// ── Composición ───────────────────────────────────────────────────────────────

// block contenido atómico en coordenadas locales (0,0 = esquina superior izquierda del área de contenido).
type block struct {
	name   string
	height float64
	items  []Primitive
}

func (b *block) add(items ...Primitive) {
	b.items = append(b.items, items...)
}

func (b *block) addAt(dx, dy float64, items ...Primitive) {
	for _, it := range items {
		b.items = append(b.items, it.translate(dx, dy))
	}
}

// sectionGap espacio vertical entre bloques consecutivos.
const sectionGap = 18.0

type composer struct {
	e     *Engine
	pages []Page
	y     float64
}

func (c *composer) newPage() {
	c.pages = append(c.pages, Page{
		Number: len(c.pages) + 1,
		Width:  c.e.opts.PageWidth,
		Height: c.e.opts.PageHeight,
	})
	c.y = c.e.top()
}

func (c *composer) emit(b block, y float64) {
	page := &c.pages[len(c.pages)-1]
	for _, it := range b.items {
		page.Items = append(page.Items, it.translate(c.e.opts.MarginLeft, y))
	}
}

// place coloca el bloque en la posición actual o, si no cabe, al inicio de una página nueva.
func (c *composer) place(b block) error {
	if b.height <= 0 {
		return nil
	}
	if b.height > c.e.bodyHeight() {
		return &OverflowError{Block: b.name, Height: b.height, Available: c.e.bodyHeight()}
	}
	if c.y+b.height > c.e.bottom() {
		c.newPage()
	}
	c.emit(b, c.y)
	c.y += b.height + sectionGap
	return nil
}

// placeFooter ancla el pie justo encima de la franja de identidad de la última página.
func (c *composer) placeFooter(footer, strip block) error {
	limit := c.e.bottom() - strip.height
	available := c.e.bodyHeight() - strip.height
	if footer.height > available {
		return &OverflowError{Block: footer.name, Height: footer.height, Available: available}
	}
	if c.y+footer.height > limit {
		c.newPage()
	}
	if footer.height > 0 {
		c.emit(footer, limit-footer.height)
	}
	c.emit(strip, limit)
	c.y = c.e.bottom()
	return nil
}

// numberPages añade "n / N" en el margen inferior de cada página.
func (e *Engine) numberPages(pages []Page) {
	st := styleSmall
	st.Align = AlignRight
	st.Color = colorMuted
	y := e.bottom() + (e.opts.MarginBottom-st.LineHeight())/2
	for i := range pages {
		pages[i].Items = append(pages[i].Items, Text{
			Content:  fmt.Sprintf("%d / %d", i+1, len(pages)),
			X:        e.opts.MarginLeft,
			Y:        y,
			MaxWidth: e.contentWidth(),
			Style:    st,
			Role:     RolePageNumber,
		})
	}
}
