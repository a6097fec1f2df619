package layout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Toutiscope/Facturation/internal/domain/entity"
)

// ── Estilos ───────────────────────────────────────────────────────────────────

const fontFamily = "Helvetica"

var (
	styleTitle   = TextStyle{Family: fontFamily, Size: 20, Bold: true, Color: colorText, Align: AlignRight}
	styleNumber  = TextStyle{Family: fontFamily, Size: 11, Bold: true, Color: colorText, Align: AlignRight}
	styleMeta    = TextStyle{Family: fontFamily, Size: 9, Color: colorMuted, Align: AlignRight}
	styleCompany = TextStyle{Family: fontFamily, Size: 12, Bold: true, Color: colorText}
	styleLabel   = TextStyle{Family: fontFamily, Size: 9, Bold: true, Color: colorText}
	styleBody    = TextStyle{Family: fontFamily, Size: 9, Color: colorText}
	styleSmall   = TextStyle{Family: fontFamily, Size: 8, Color: colorMuted}
	styleCell    = TextStyle{Family: fontFamily, Size: 9, Color: colorText}
	styleTotal   = TextStyle{Family: fontFamily, Size: 11, Bold: true, Color: colorText}
	styleNotice  = TextStyle{Family: fontFamily, Size: 7.5, Italic: true, Color: colorMuted, Align: AlignRight}
)

// ── Medidas ───────────────────────────────────────────────────────────────────

const (
	headerColumnGap   = 20.0
	headerRuleGap     = 14.0
	logoMaxWidth      = 120.0
	logoMaxHeight     = 60.0
	customerBoxPad    = 8.0
	tableHeaderHeight = 25.0
	minRowHeight      = 24.0
	cellPadding       = 6.0
	totalsBoxWidth    = 200.0
	totalsRowHeight   = 22.0
	totalsBoxPad      = 6.0
	totalsBoxHeight   = 3*totalsRowHeight + 2*totalsBoxPad
	totalsSideGap     = 20.0
	footerRuleGap     = 10.0
	footerSectionGap  = 6.0
	identityStripH    = 34.0
	cornerRadius      = 4.0
)

// columnRatios descripción, cantidad, unidad, precio unitario, total.
var columnRatios = [5]float64{0.40, 0.12, 0.15, 0.18, 0.15}

// ── Pila vertical de texto ────────────────────────────────────────────────────

// stack acumula líneas de texto de arriba abajo dentro de un ancho fijo.
type stack struct {
	e     *Engine
	width float64
	y     float64
	items []Primitive
}

func (e *Engine) newStack(width float64) *stack {
	return &stack{e: e, width: width}
}

// text añade el texto cortado al ancho de la pila; no hace nada si está vacío.
func (s *stack) text(content string, st TextStyle) {
	if strings.TrimSpace(content) == "" {
		return
	}
	lh := st.LineHeight()
	for _, ln := range wrap(s.e.m, content, s.width, st) {
		if ln != "" {
			s.items = append(s.items, Text{Content: ln, X: 0, Y: s.y, MaxWidth: s.width, Style: st})
		}
		s.y += lh
	}
}

func (s *stack) gap(h float64) { s.y += h }

// embed inserta otra pila desplazada.
func (s *stack) embed(inner *stack, dx, dy float64) {
	for _, it := range inner.items {
		s.items = append(s.items, it.translate(dx, dy))
	}
}

func (s *stack) block(name string) block {
	return block{name: name, height: s.y, items: s.items}
}

// ── Cabecera ──────────────────────────────────────────────────────────────────

func (e *Engine) header(doc *entity.Document, cfg entity.RenderConfig) block {
	w := e.contentWidth()
	colW := (w - headerColumnGap) / 2

	left := e.companyColumn(cfg, colW)
	right := e.documentColumn(doc, colW)
	h := max(left.y, right.y)

	b := block{name: "header", height: h + headerRuleGap}
	b.addAt(0, 0, left.items...)
	b.addAt(colW+headerColumnGap, 0, right.items...)
	ruleY := h + headerRuleGap/2
	b.add(Line{X1: 0, Y1: ruleY, X2: w, Y2: ruleY, Stroke: colorBorder, Width: 1})
	return b
}

func (e *Engine) companyColumn(cfg entity.RenderConfig, width float64) *stack {
	s := e.newStack(width)
	if len(cfg.Logo) > 0 {
		s.items = append(s.items, Image{Data: cfg.Logo, X: 0, Y: 0, MaxW: min(logoMaxWidth, width), MaxH: logoMaxHeight})
		s.gap(logoMaxHeight + 8)
	}
	co := cfg.Company
	s.text(co.CompanyName, styleCompany)
	s.gap(2)
	s.text(co.Address, styleBody)
	s.text(joinNonEmpty(" ", co.PostalCode, co.City), styleBody)
	if co.CompanyID != "" {
		s.text("SIRET: "+FormatSIRET(co.CompanyID), styleBody)
	}
	s.text(co.Email, styleBody)
	s.text(FormatPhone(co.PhoneNumber), styleBody)
	return s
}

func (e *Engine) documentColumn(doc *entity.Document, width float64) *stack {
	s := e.newStack(width)
	s.text(doc.Type.Title(), styleTitle)
	s.gap(2)
	s.text("No. "+doc.Numero, styleNumber)
	s.text("Date: "+FormatDate(doc.Date), styleMeta)
	switch doc.Type {
	case entity.KindQuote:
		s.text("Valid until: "+FormatDate(doc.ValidityDate), styleMeta)
	case entity.KindInvoice:
		s.text("Due date: "+FormatDate(doc.DueDate), styleMeta)
		if doc.AssociatedQuote != "" {
			s.text("Quote ref.: "+doc.AssociatedQuote, styleMeta)
		}
	}
	s.gap(12)

	// Bloque del cliente enmarcado.
	cu := doc.Customer
	inner := e.newStack(width - 2*customerBoxPad)
	inner.text("CUSTOMER", styleSmall)
	inner.text(cu.CustomerName, styleLabel)
	if cu.CompanyName != "" && cu.CompanyName != cu.CustomerName {
		inner.text(cu.CompanyName, styleBody)
	}
	if cu.CompanyID != "" {
		inner.text("SIRET: "+FormatSIRET(cu.CompanyID), styleBody)
	}
	inner.text(cu.Address, styleBody)
	inner.text(joinNonEmpty(" ", cu.PostalCode, cu.City), styleBody)
	inner.text(cu.Email, styleBody)
	inner.text(FormatPhone(cu.PhoneNumber), styleBody)

	boxH := inner.y + 2*customerBoxPad
	s.items = append(s.items, Rect{
		X: 0, Y: s.y, W: width, H: boxH,
		Fill: colorPtr(colorRowAlt), Stroke: colorPtr(colorBorder), LineWidth: 0.75, Radius: cornerRadius,
	})
	s.embed(inner, customerBoxPad, s.y+customerBoxPad)
	s.gap(boxH)
	return s
}

// ── Objeto ────────────────────────────────────────────────────────────────────

func (e *Engine) objectLine(doc *entity.Document) block {
	s := e.newStack(e.contentWidth())
	if strings.TrimSpace(doc.Object) != "" {
		s.text("Subject: "+doc.Object, styleLabel)
	}
	return s.block("object")
}

// ── Tabla de servicios ────────────────────────────────────────────────────────

func columns(width float64) (xs, ws [5]float64) {
	x := 0.0
	for i, r := range columnRatios {
		xs[i] = x
		ws[i] = width * r
		x += ws[i]
	}
	return xs, ws
}

func (e *Engine) serviceTable(doc *entity.Document, cfg entity.RenderConfig) block {
	w := e.contentWidth()
	xs, ws := columns(w)
	lh := styleCell.LineHeight()
	labelLH := styleLabel.LineHeight()

	var fills, rules, texts []Primitive

	// Fila de cabecera: crece si alguna etiqueta no cabe en una línea.
	headers := [5]string{"Description", "Qty", "Unit", "Unit price", "Net amount"}
	var labels [5][]string
	headerH := tableHeaderHeight
	for i, label := range headers {
		labels[i] = e.cellLines(label, ws[i]-2*cellPadding, styleLabel)
		headerH = max(headerH, float64(len(labels[i]))*labelLH+2*cellPadding)
	}
	fills = append(fills, Rect{X: 0, Y: 0, W: w, H: headerH, Fill: colorPtr(colorHeader)})
	for i, lines := range labels {
		st := styleLabel
		st.Align = columnAlign(i)
		top := (headerH - float64(len(lines))*labelLH) / 2
		for k, ln := range lines {
			texts = append(texts, Text{Content: ln, X: xs[i] + cellPadding, Y: top + float64(k)*labelLH, MaxWidth: ws[i] - 2*cellPadding, Style: st})
		}
	}
	rules = append(rules, Line{X1: 0, Y1: headerH, X2: w, Y2: headerH, Stroke: colorBorder, Width: 1})

	// Filas de datos: la altura la marca la celda con más líneas.
	y := headerH
	for i, line := range doc.Services {
		cells := [5]string{
			line.Description,
			FormatQuantity(line.Quantity),
			unitLabel(line.Unit),
			FormatMoney(line.UnitPriceHT, cfg.Currency),
			FormatMoney(line.TotalHT, cfg.Currency),
		}
		var cols [5][]string
		rowLines := 1
		for col, content := range cells {
			if col == 0 {
				cols[col] = wrap(e.m, content, ws[col]-2*cellPadding, styleCell)
			} else {
				cols[col] = e.cellLines(content, ws[col]-2*cellPadding, styleCell)
			}
			rowLines = max(rowLines, len(cols[col]))
		}
		h := max(minRowHeight, float64(rowLines)*lh+2*cellPadding)

		if i%2 == 1 {
			fills = append(fills, Rect{X: 0, Y: y, W: w, H: h, Fill: colorPtr(colorRowAlt)})
		}
		if i > 0 {
			rules = append(rules, Line{X1: 0, Y1: y, X2: w, Y2: y, Stroke: colorBorder, Width: 0.5})
		}
		for col, lines := range cols {
			st := styleCell
			st.Align = columnAlign(col)
			for k, ln := range lines {
				if ln == "" {
					continue
				}
				texts = append(texts, Text{Content: ln, X: xs[col] + cellPadding, Y: y + cellPadding + float64(k)*lh, MaxWidth: ws[col] - 2*cellPadding, Style: st})
			}
		}
		y += h
	}

	// Separadores verticales a toda la altura de la tabla.
	for i := 1; i < len(xs); i++ {
		rules = append(rules, Line{X1: xs[i], Y1: 0, X2: xs[i], Y2: y, Stroke: colorBorder, Width: 0.5})
	}

	b := block{name: "service table", height: y}
	b.add(fills...)
	b.add(rules...)
	b.add(texts...)
	b.add(Rect{X: 0, Y: 0, W: w, H: y, Stroke: colorPtr(colorBorder), LineWidth: 1, Radius: cornerRadius})
	return b
}

// cellLines deja el valor en una línea si cabe; si no, lo corta al ancho de la celda.
func (e *Engine) cellLines(s string, width float64, st TextStyle) []string {
	if e.m.StringWidth(s, st) <= width {
		return []string{s}
	}
	return wrap(e.m, s, width, st)
}

func columnAlign(col int) Align {
	switch col {
	case 0:
		return AlignLeft
	case 2:
		return AlignCenter
	}
	return AlignRight
}

func unitLabel(unit string) string {
	switch unit {
	case entity.UnitHour:
		return "hour"
	case entity.UnitPiece:
		return "piece"
	case entity.UnitDay:
		return "day"
	case entity.UnitFlat:
		return "flat rate"
	}
	return unit
}

// ── Totales ───────────────────────────────────────────────────────────────────

func (e *Engine) totals(doc *entity.Document, cfg entity.RenderConfig) block {
	w := e.contentWidth()
	boxX := w - totalsBoxWidth
	t := doc.Totals

	b := block{name: "totals"}
	b.add(Rect{X: boxX, Y: 0, W: totalsBoxWidth, H: totalsBoxHeight, Fill: colorPtr(colorHeader), Stroke: colorPtr(colorBorder), LineWidth: 0.75, Radius: cornerRadius})

	rows := []struct {
		label string
		value decimal.Decimal
		style TextStyle
	}{
		{"Total excl. VAT", t.TotalHT, styleBody},
		{"VAT (" + FormatRate(t.VATRate) + ")", t.VAT, styleBody},
		{"Total incl. VAT", t.TotalTTC, styleTotal},
	}
	innerW := totalsBoxWidth - 2*totalsBoxPad
	for i, r := range rows {
		rowY := totalsBoxPad + float64(i)*totalsRowHeight
		textY := rowY + (totalsRowHeight-r.style.LineHeight())/2
		if i == len(rows)-1 {
			b.add(Line{X1: boxX + totalsBoxPad, Y1: rowY, X2: boxX + totalsBoxWidth - totalsBoxPad, Y2: rowY, Stroke: colorBorder, Width: 0.75})
		}
		valueStyle := r.style
		valueStyle.Align = AlignRight
		b.add(
			Text{Content: r.label, X: boxX + totalsBoxPad, Y: textY, MaxWidth: innerW, Style: r.style},
			Text{Content: FormatMoney(r.value, cfg.Currency), X: boxX + totalsBoxPad, Y: textY, MaxWidth: innerW, Style: valueStyle},
		)
	}
	height := totalsBoxHeight

	// Mención de exención de IVA bajo el recuadro.
	if t.VATRate.IsZero() && cfg.Billing.VATExemptionNotice != "" {
		notice := e.newStack(totalsBoxWidth)
		notice.text(cfg.Billing.VATExemptionNotice, styleNotice)
		b.addAt(boxX, totalsBoxHeight+4, notice.items...)
		height += 4 + notice.y
	}

	// Medios de pago aceptados (solo presupuestos), a la izquierda del recuadro.
	if doc.Type == entity.KindQuote && strings.TrimSpace(cfg.Billing.PaymentMeans) != "" {
		means := e.newStack(boxX - totalsSideGap)
		means.text("Accepted payment methods", styleLabel)
		means.gap(2)
		means.text(cfg.Billing.PaymentMeans, styleBody)
		b.add(means.items...)
		height = max(height, means.y)
	}

	b.height = height
	return b
}

// ── Notas ─────────────────────────────────────────────────────────────────────

func (e *Engine) notes(doc *entity.Document) block {
	s := e.newStack(e.contentWidth())
	if strings.TrimSpace(doc.Notes) != "" {
		s.text("Notes", styleLabel)
		s.gap(2)
		s.text(doc.Notes, styleBody)
	}
	return s.block("notes")
}

// ── Pie ───────────────────────────────────────────────────────────────────────

// footer bloques condicionales; altura 0 si no hay nada que mostrar.
func (e *Engine) footer(doc *entity.Document, cfg entity.RenderConfig) block {
	w := e.contentWidth()
	s := e.newStack(w)
	s.gap(footerRuleGap)
	start := s.y
	invoice := doc.Type == entity.KindInvoice
	bl := cfg.Billing

	section := func(title, body string, st TextStyle) {
		if strings.TrimSpace(body) == "" {
			return
		}
		if s.y > start {
			s.gap(footerSectionGap)
		}
		if title != "" {
			s.text(title, styleLabel)
		}
		s.text(body, st)
	}

	if invoice {
		section("Payment terms", bl.PaymentTerms, styleBody)
		section("", bl.LatePenalties, styleSmall)
	}
	section("", bl.LegalNotice, styleSmall)
	if invoice && strings.TrimSpace(cfg.Bank.IBAN) != "" {
		bank := "IBAN: " + FormatIBAN(cfg.Bank.IBAN)
		if cfg.Bank.BIC != "" {
			bank += "\nBIC: " + cfg.Bank.BIC
		}
		if cfg.Bank.Bank != "" {
			bank += "\nBank: " + cfg.Bank.Bank
		}
		section("Bank details", bank, styleBody)
	}

	if s.y == start {
		return block{name: "footer"}
	}
	b := s.block("footer")
	b.add(Line{X1: 0, Y1: footerRuleGap / 2, X2: w, Y2: footerRuleGap / 2, Stroke: colorBorder, Width: 0.75})
	return b
}

// identityStrip franja de altura fija con la identidad del emisor.
func (e *Engine) identityStrip(cfg entity.RenderConfig) block {
	w := e.contentWidth()
	co := cfg.Company
	st := styleSmall
	st.Align = AlignCenter

	siret := ""
	if co.CompanyID != "" {
		siret = "SIRET " + FormatSIRET(co.CompanyID)
	}
	lines := []string{
		joinNonEmpty(" · ", co.CompanyName, joinNonEmpty(" ", co.Address, co.PostalCode, co.City), siret),
		joinNonEmpty(" · ", co.Email, FormatPhone(co.PhoneNumber)),
	}

	b := block{name: "identity strip", height: identityStripH}
	b.add(Line{X1: 0, Y1: 4, X2: w, Y2: 4, Stroke: colorBorder, Width: 0.5})
	y := 10.0
	for _, ln := range lines {
		if ln != "" {
			b.add(Text{Content: truncate(e.m, ln, w, st), X: 0, Y: y, MaxWidth: w, Style: st, Role: RoleIdentity})
		}
		y += st.LineHeight()
	}
	return b
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
