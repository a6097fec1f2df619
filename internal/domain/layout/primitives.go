package layout

// ── Primitivas posicionadas ──────────────────────────────────────────────────
//
// Coordenadas en puntos (1/72 pulgada), origen arriba a la izquierda.

// Color RGB de 8 bits por canal.
type Color struct {
	R, G, B uint8
}

var (
	colorText   = Color{R: 30, G: 41, B: 59}    // #1e293b
	colorMuted  = Color{R: 100, G: 116, B: 139} // #64748b
	colorBorder = Color{R: 226, G: 232, B: 240} // #e2e8f0
	colorRowAlt = Color{R: 248, G: 250, B: 252} // #f8fafc
	colorHeader = Color{R: 241, G: 245, B: 249} // #f1f5f9
)

func colorPtr(c Color) *Color { return &c }

// Align alineación horizontal del texto dentro de MaxWidth.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle fuente, tamaño, color y alineación de una línea de texto.
type TextStyle struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
	Color  Color
	Align  Align
}

// LineSpacing factor entre el tamaño de fuente y la altura de línea.
const LineSpacing = 1.2

// LineHeight altura de una línea de texto con este estilo.
func (s TextStyle) LineHeight() float64 {
	return s.Size * LineSpacing
}

// Role marca textos con una función concreta en la página.
type Role string

const (
	RoleBody       Role = ""
	RoleIdentity   Role = "identity"
	RolePageNumber Role = "page-number"
)

// Primitive es una de Text, Rect, Line o Image.
type Primitive interface {
	translate(dx, dy float64) Primitive
}

// Text una sola línea ya cortada; Y es el borde superior de la línea.
type Text struct {
	Content  string
	X, Y     float64
	MaxWidth float64
	Style    TextStyle
	Role     Role
}

// Rect rectángulo con relleno y/o borde opcionales; Radius > 0 redondea las esquinas.
type Rect struct {
	X, Y, W, H float64
	Fill       *Color
	Stroke     *Color
	LineWidth  float64
	Radius     float64
}

// Line segmento recto.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         Color
	Width          float64
}

// Image imagen que el pintor escala, conservando proporciones, dentro de MaxW × MaxH.
type Image struct {
	Data       []byte
	X, Y       float64
	MaxW, MaxH float64
}

func (t Text) translate(dx, dy float64) Primitive {
	t.X += dx
	t.Y += dy
	return t
}

func (r Rect) translate(dx, dy float64) Primitive {
	r.X += dx
	r.Y += dy
	return r
}

func (l Line) translate(dx, dy float64) Primitive {
	l.X1 += dx
	l.X2 += dx
	l.Y1 += dy
	l.Y2 += dy
	return l
}

func (i Image) translate(dx, dy float64) Primitive {
	i.X += dx
	i.Y += dy
	return i
}

// Page lista ordenada de primitivas; el orden es el orden de pintado.
type Page struct {
	Number int
	Width  float64
	Height float64
	Items  []Primitive
}

// Texts devuelve los textos de la página en orden.
func (p Page) Texts() []Text {
	var out []Text
	for _, it := range p.Items {
		if t, ok := it.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// Info metadatos del archivo PDF.
type Info struct {
	Title   string
	Author  string
	Subject string
}
