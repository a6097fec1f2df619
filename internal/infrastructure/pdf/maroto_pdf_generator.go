package pdf

// Registro anual de presupuestos o facturas (Maroto v2).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón social + SIRET  │  REGISTRO <tipo> <año>     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Número | Fecha | Cliente | Estado | Total TTC       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: número de documentos / suma                       │
//	└─────────────────────────────────────────────────────────────┘

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/Toutiscope/Facturation/internal/application/billing"
	"github.com/Toutiscope/Facturation/internal/domain/layout"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 41, Blue: 59}
	colorGray    = &props.Color{Red: 100, Green: 116, Blue: 139}
	colorRule    = &props.Color{Red: 226, Green: 232, Blue: 240}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoRegisterGenerator implementa billing.RegisterGenerator usando Maroto v2.
type MarotoRegisterGenerator struct{}

var _ appbilling.RegisterGenerator = (*MarotoRegisterGenerator)(nil)

// NewMarotoRegisterGenerator construye el generador.
func NewMarotoRegisterGenerator() *MarotoRegisterGenerator { return &MarotoRegisterGenerator{} }

// GenerateRegister genera el PDF del registro y devuelve sus bytes.
func (g *MarotoRegisterGenerator) GenerateRegister(ctx context.Context, report appbilling.RegisterReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(registerTitle(report), true).
		WithAuthor(report.Company.CompanyName, true).
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   colorGray,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(4))

	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	if len(report.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No documents for this period.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range tableRows(report.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar registro: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func registerTitle(report appbilling.RegisterReport) string {
	return fmt.Sprintf("%s REGISTER %d", report.Kind.Title(), report.Year)
}

// headerRow: emisor (izq) y título del registro (der).
func headerRow(report appbilling.RegisterReport) core.Row {
	c := report.Company
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(c.CompanyName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SIRET: "+nonEmpty(layout.FormatSIRET(c.CompanyID), "—"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New(strings.TrimSpace(c.PostalCode+" "+c.City), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(registerTitle(report), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d document(s)", report.Count), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("No.", 2, align.Left),
		h("Date", 2, align.Left),
		h("Customer", 4, align.Left),
		h("Status", 2, align.Center),
		h("Total incl. VAT", 2, align.Right),
	)
}

// tableRows: una fila por documento, separadas por una línea fina.
func tableRows(rows []appbilling.RegisterRow) []core.Row {
	result := make([]core.Row, 0, 2*len(rows))
	for _, r := range rows {
		result = append(result,
			row.New(7).Add(
				col.New(2).Add(text.New(r.Numero, props.Text{Size: 8, Top: 1.5, Left: 1})),
				col.New(2).Add(text.New(r.Date, props.Text{Size: 8, Top: 1.5, Left: 1})),
				col.New(4).Add(text.New(r.Customer, props.Text{Size: 8, Top: 1.5, Left: 1})),
				col.New(2).Add(text.New(r.Status, props.Text{Size: 8, Align: align.Center, Top: 1.5})),
				col.New(2).Add(text.New(r.Total, props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
			),
			line.NewRow(0.5, props.Line{Color: colorRule, Thickness: 0.2}),
		)
	}
	return result
}

// totalsRow: número de documentos y suma alineados a la derecha.
func totalsRow(report appbilling.RegisterReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Documents:"),
			text.New("Total:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", report.Count), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(report.Sum, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
