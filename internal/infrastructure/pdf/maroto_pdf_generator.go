// Package pdf genera la guía impresa de la encomienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RIF  │  N° Factura + Control + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REMITENTE                   │  DESTINATARIO                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Unidad | Peso                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CARGOS: Flete / Manejo / Seguro / Ipostel / Descuento       │
//	│  TOTAL A PAGAR (Bs y USD si hay tasa)                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de la guía + estado HKA                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los montos se imprimen con el formato es-VE.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.MustParse("es-VE"))}
}

// Generate genera la guía y devuelve sus bytes. company puede ser nil.
func (g *MarotoPDFGenerator) Generate(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("pdf: factura nula")
	}
	if company == nil {
		company = &entity.CompanyInfo{}
	}
	if office == nil {
		office = &entity.Office{}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de encomienda "+inv.InvoiceNumber, true).
		WithAuthor(nonEmpty(company.Name, "Cooperativa"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, office, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv.Guide.Sender, inv.Guide.Receiver, inv.SpecificDestination))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range merchandiseRows(inv.Guide.Merchandise) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.chargesRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(inv))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + RIF (izq) y número, control y fecha (der).
func headerRow(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.Name, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RIF: "+nonEmpty(company.RIF, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s", nonEmpty(company.Address, "-"), nonEmpty(company.Phone, "-")), props.Text{
				Size: 7, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE ENCOMIENDA - "+nonEmpty(office.Name, "Oficina"), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Factura N° "+inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("N° de control: "+inv.ControlNumber, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Fecha: "+inv.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// partiesRow: remitente (comprador fiscal) y destinatario.
func partiesRow(sender, receiver entity.Party, destination string) core.Row {
	party := func(title string, p entity.Party, extra string) core.Col {
		contact := fmt.Sprintf("C.I./RIF: %s   |   Tel: %s", p.IDNumber, nonEmpty(p.Phone, "-"))
		return col.New(6).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(nonEmpty(extra, nonEmpty(p.Address, "-")), props.Text{Size: 8, Top: 17, Color: colorGray}),
		)
	}
	return row.New(24).Add(
		party("REMITENTE", sender, ""),
		party("DESTINATARIO", receiver, destination),
	)
}

// tableHeaderRow: cabecera de la tabla de bultos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 2, align.Center),
		h("Descripción", 6, align.Left),
		h("Unidad", 2, align.Center),
		h("Peso", 2, align.Right),
	)
}

// merchandiseRows: una fila por bulto.
func merchandiseRows(items []entity.MerchandiseItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Servicio de flete sin detalle de mercancía", props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(nonEmpty(it.Description, "-"), props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(it.Unit, "KG"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(it.Weight.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// chargesRow: cargos y total alineados a la derecha, una línea cada 5 mm.
func (g *MarotoPDFGenerator) chargesRow(inv *entity.Invoice) core.Row {
	type chargeLine struct {
		label, value string
		grand        bool
	}
	lines := []chargeLine{
		{"Flete:", g.bs(inv.Charges.Freight), false},
		{"Manejo:", g.bs(inv.Charges.Handling), false},
		{"Seguro:", g.bs(inv.Charges.Insurance), false},
		{"Ipostel:", g.bs(inv.Charges.Ipostel), false},
		{"Descuento:", "-" + g.bs(inv.Charges.DiscountAmount), false},
		{"TOTAL A PAGAR:", g.bs(inv.TotalAmount), true},
	}
	if inv.HasExchangeRate() {
		usd := inv.TotalAmount.Div(inv.ExchangeRate.Decimal).Round(2)
		lines = append(lines, chargeLine{
			fmt.Sprintf("Ref. USD (tasa %s):", inv.ExchangeRate.Decimal.StringFixed(4)),
			g.printer.Sprintf("$ %.2f", usd.InexactFloat64()),
			false,
		})
	}

	labels := make([]core.Component, 0, len(lines))
	values := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		top := float64(i) * 5
		lp := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}
		vp := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if l.grand {
			lp.Size, lp.Color = 10, colorPrimary
			vp.Style, vp.Size, vp.Color = fontstyle.Bold, 10, colorPrimary
		}
		labels = append(labels, text.New(l.label, lp))
		values = append(values, text.New(l.value, vp))
	}
	return row.New(float64(len(lines))*5+2).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// footerRow: QR con la referencia de la guía y estado de la transmisión fiscal.
func footerRow(inv *entity.Invoice) core.Row {
	ref := fmt.Sprintf("%s|%s|%s", inv.InvoiceNumber, inv.ControlNumber, inv.TotalAmount.StringFixed(2))
	status := "Transmisión fiscal: " + nonEmpty(inv.HKAStatus, entity.HKAStatusPending)
	if inv.IsVoided() {
		status = "DOCUMENTO ANULADO"
	}
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary}),
			text.New(nonEmpty(inv.HKAMessage, ""), props.Text{Size: 8, Top: 11, Left: 3, Color: colorGray}),
			text.New("Esta guía no sustituye la factura fiscal emitida por la imprenta digital.", props.Text{
				Size: 7, Top: 22, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) bs(v decimal.Decimal) string {
	return g.printer.Sprintf("Bs %.2f", v.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
