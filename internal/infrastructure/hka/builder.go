package hka

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	pkghka "github.com/jhoicas/encomiendas-api/pkg/hka"
)

const (
	fallbackAddress = "N/A"
	fallbackPhone   = "0000-0000000"
	freightItemDesc = "SERVICIO DE FLETE"
	discountDesc    = "Descuento"
	zeroAmount      = "0.00"
)

// BuilderOptions parámetros del constructor de documentos.
type BuilderOptions struct {
	Location      *time.Location   // zona de FechaEmision/HoraEmision (nil = America/Caracas)
	Now           func() time.Time // reloj inyectable (nil = time.Now)
	FallbackEmail string           // correo cuando el comprador no tiene uno
	// BuyerContactFromReceiver toma dirección, teléfono y correo del destinatario de la guía.
	BuyerContactFromReceiver bool
}

// Builder construye DocumentoElectronico a partir de la factura, la oficina y los datos del emisor.
// No hace I/O: la misma entrada produce el mismo documento salvo FechaEmision y HoraEmision.
type Builder struct {
	loc           *time.Location
	now           func() time.Time
	fallbackEmail string
	fromReceiver  bool
}

// NewBuilder construye el Builder aplicando valores por defecto.
func NewBuilder(opts BuilderOptions) *Builder {
	loc := opts.Location
	if loc == nil {
		l, err := pkghka.LoadLocation(pkghka.DefaultTimezone)
		if err != nil {
			l = time.FixedZone("VET", -4*60*60)
		}
		loc = l
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	email := opts.FallbackEmail
	if email == "" {
		email = "sincorreo@cooperativa.com"
	}
	return &Builder{loc: loc, now: now, fallbackEmail: email, fromReceiver: opts.BuyerContactFromReceiver}
}

// NoteData datos propios de una nota de crédito o débito.
type NoteData struct {
	Kind   string // entity.NoteKindCredit | entity.NoteKindDebit
	Number string // número interno de la nota (se envían solo los dígitos del correlativo)
	Reason string
	// Amount monto de la nota; inválido o cero = el monto completo de la factura.
	Amount decimal.NullDecimal
}

// amounts montos fiscales del documento: base = total + descuento.
type amounts struct {
	base     decimal.Decimal
	total    decimal.Decimal
	discount decimal.Decimal
}

// BuildInvoice construye la factura (TipoDocumento 01).
func (b *Builder) BuildInvoice(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo) (*Document, error) {
	if inv == nil {
		return nil, fmt.Errorf("hka: factura nula")
	}
	// la serie es la del número ya emitido; el código actual de la oficina solo si no la trae
	ident := IdentificacionDocumento{
		TipoDocumento:   pkghka.DocTypeInvoice,
		Serie:           inv.Series(),
		NumeroDocumento: documentDigits(inv.InvoiceNumber),
	}
	return b.build(inv, office, company, ident, invoiceAmounts(inv), true)
}

// BuildNote construye una nota de crédito (02) o débito (03) que referencia la factura afectada.
func (b *Builder) BuildNote(inv *entity.Invoice, office *entity.Office, company *entity.CompanyInfo, note NoteData) (*Document, error) {
	if inv == nil {
		return nil, fmt.Errorf("hka: factura nula")
	}
	reason := strings.TrimSpace(note.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("motivo requerido")
	}
	var docType string
	switch note.Kind {
	case entity.NoteKindCredit:
		docType = pkghka.DocTypeCreditNote
	case entity.NoteKindDebit:
		docType = pkghka.DocTypeDebitNote
	default:
		return nil, domain.NewValidationError("tipo de nota inválido: " + note.Kind)
	}
	number := documentDigits(note.Number)
	if number == "" {
		return nil, domain.NewValidationError("número de nota requerido")
	}

	am := invoiceAmounts(inv)
	fullAmount := true
	if note.Amount.Valid && note.Amount.Decimal.IsPositive() {
		a := note.Amount.Decimal.Round(2)
		am = amounts{base: a, total: a, discount: decimal.Zero}
		fullAmount = false
	}

	ident := IdentificacionDocumento{
		TipoDocumento:             docType,
		NumeroDocumento:           number,
		SerieFacturaAfectada:      inv.Series(),
		NumeroFacturaAfectada:     documentDigits(inv.InvoiceNumber),
		FechaFacturaAfectada:      pkghka.FormatDate(inv.Date.In(b.loc)),
		MontoFacturaAfectada:      money(inv.TotalAmount),
		ComentarioFacturaAfectada: reason,
	}
	return b.build(inv, office, company, ident, am, fullAmount)
}

func (b *Builder) build(
	inv *entity.Invoice,
	office *entity.Office,
	company *entity.CompanyInfo,
	ident IdentificacionDocumento,
	am amounts,
	withCharges bool,
) (*Document, error) {
	if office == nil || strings.TrimSpace(office.Code) == "" {
		return nil, domain.NewConfigurationError("la oficina de la factura no tiene código de serie configurado")
	}
	emisor, err := buildEmisor(company)
	if err != nil {
		return nil, err
	}

	now := b.now().In(b.loc)
	if ident.Serie == "" {
		ident.Serie = office.Code
	}
	ident.FechaEmision = pkghka.FormatDate(now)
	ident.HoraEmision = pkghka.FormatTime(now)
	ident.TipoDeVenta = pkghka.SaleTypeInternal
	ident.Moneda = pkghka.CurrencyVES

	items := buildItems(inv.Guide.Merchandise, am.base)

	doc := &Document{
		Encabezado: Encabezado{
			IdentificacionDocumento: ident,
			Emisor:                  emisor,
			Comprador:               b.buildComprador(inv),
			Totales:                 buildTotales(am, len(items)),
		},
		DetallesItems: items,
	}
	if inv.HasExchangeRate() {
		doc.Encabezado.TotalesOtraMoneda = buildOtherCurrency(am, inv.ExchangeRate.Decimal)
	}
	if withCharges {
		doc.InfoAdicional = []InfoAdicional{
			{Campo: pkghka.ExtraFieldHandling, Valor: money(inv.Charges.Handling)},
			{Campo: pkghka.ExtraFieldInsurance, Valor: money(inv.Charges.Insurance)},
			{Campo: pkghka.ExtraFieldIpostel, Valor: money(inv.Charges.Ipostel)},
		}
	}
	return doc, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func buildEmisor(company *entity.CompanyInfo) (Emisor, error) {
	if company == nil {
		return Emisor{}, domain.NewConfigurationError("no se han registrado los datos fiscales de la empresa")
	}
	idType, number, err := pkghka.ParseRIF(company.RIF)
	if err != nil {
		return Emisor{}, domain.NewConfigurationError("RIF de la empresa inválido: %v", err)
	}
	if strings.TrimSpace(company.Name) == "" {
		return Emisor{}, domain.NewConfigurationError("la empresa no tiene razón social configurada")
	}
	if strings.TrimSpace(company.Address) == "" {
		return Emisor{}, domain.NewConfigurationError("la empresa no tiene dirección fiscal configurada")
	}
	phones := []string{}
	if p := strings.TrimSpace(company.Phone); p != "" {
		phones = append(phones, p)
	}
	return Emisor{
		TipoIdentificacion:   idType,
		NumeroIdentificacion: number,
		RazonSocial:          company.Name,
		Direccion:            company.Address,
		Telefono:             phones,
	}, nil
}

// buildComprador identidad fiscal del remitente; contacto del remitente o del destinatario según opción.
func (b *Builder) buildComprador(inv *entity.Invoice) Comprador {
	sender := inv.Guide.Sender
	rawID := firstNonEmpty(inv.ClientIDNumber, sender.IDNumber)
	idType, number := pkghka.NormalizeBuyerID(rawID)

	contact := sender
	email := firstNonEmpty(inv.ClientEmail, sender.Email)
	if b.fromReceiver {
		contact = inv.Guide.Receiver
		email = contact.Email
	}
	return Comprador{
		TipoIdentificacion:   idType,
		NumeroIdentificacion: number,
		RazonSocial:          firstNonEmpty(inv.ClientName, sender.Name),
		Direccion:            firstNonEmpty(contact.Address, fallbackAddress),
		Pais:                 pkghka.CountryVE,
		Telefono:             []string{firstNonEmpty(contact.Phone, fallbackPhone)},
		Correo:               []string{firstNonEmpty(email, b.fallbackEmail)},
	}
}

// buildItems reparte la base entre los bultos en proporción a la cantidad,
// redondeando cada línea a 2 decimales sin corregir la diferencia de centavos.
// Sin mercancía se envía una sola línea de servicio de flete por la base completa.
func buildItems(merch []entity.MerchandiseItem, base decimal.Decimal) []DetalleItem {
	if len(merch) == 0 {
		merch = []entity.MerchandiseItem{{Quantity: decimal.NewFromInt(1), Description: freightItemDesc}}
	}
	totalQty := decimal.Zero
	for _, m := range merch {
		totalQty = totalQty.Add(m.Quantity)
	}

	items := make([]DetalleItem, 0, len(merch))
	for i, m := range merch {
		lineSubtotal := decimal.Zero
		if totalQty.IsPositive() {
			lineSubtotal = base.Mul(m.Quantity).Div(totalQty)
		}
		unitPrice := decimal.Zero
		if m.Quantity.IsPositive() {
			unitPrice = lineSubtotal.Div(m.Quantity)
		}
		line := strconv.Itoa(i + 1)
		items = append(items, DetalleItem{
			NumeroLinea:            line,
			CodigoCIIU:             pkghka.DefaultCIIU,
			CodigoPLU:              firstNonEmpty(m.SKU, "GEN-"+line),
			IndicadorBienoServicio: pkghka.ItemTypeService,
			Descripcion:            firstNonEmpty(m.Description, freightItemDesc),
			Cantidad:               m.Quantity.String(),
			UnidadMedida:           firstNonEmpty(m.Unit, pkghka.DefaultUnit),
			PrecioUnitario:         money(unitPrice),
			PrecioItem:             money(lineSubtotal),
			CodigoImpuesto:         pkghka.TaxCodeExempt,
			TasaIVA:                "0",
			ValorIVA:               zeroAmount,
			ValorTotalItem:         money(lineSubtotal),
		})
	}
	return items
}

func buildTotales(am amounts, nItems int) Totales {
	t := Totales{
		NroItems:          strconv.Itoa(nItems),
		MontoGravadoTotal: zeroAmount,
		MontoExentoTotal:  money(am.base),
		Subtotal:          money(am.base),
		TotalAPagar:       money(am.total),
		TotalIVA:          zeroAmount,
		MontoTotalConIVA:  money(am.base),
		MontoEnLetras:     pkghka.AmountInWords(am.total, pkghka.Bolivares),
		FormasPago: []FormaPago{
			{Forma: pkghka.PaymentFormCash, Monto: money(am.total), Moneda: pkghka.CurrencyVES},
		},
		ImpuestosSubtotal: []ImpuestoSubtotal{exemptTax(am.base)},
	}
	if am.discount.IsPositive() {
		t.TotalDescuento = money(am.discount)
		t.ListaDescBonificacion = []DescuentoBonificacion{
			{DescDescuento: discountDesc, MontoDescuento: money(am.discount)},
		}
	}
	return t
}

func buildOtherCurrency(am amounts, rate decimal.Decimal) *TotalesOtraMoneda {
	conv := func(v decimal.Decimal) decimal.Decimal { return v.Div(rate).Round(2) }
	base := conv(am.base)
	total := conv(am.total)
	o := &TotalesOtraMoneda{
		Moneda:            pkghka.CurrencyUSD,
		TipoCambio:        rate.StringFixed(4),
		MontoGravadoTotal: zeroAmount,
		MontoExentoTotal:  money(base),
		Subtotal:          money(base),
		TotalAPagar:       money(total),
		TotalIVA:          zeroAmount,
		MontoTotalConIVA:  money(base),
		MontoEnLetras:     pkghka.AmountInWords(total, pkghka.Dolares),
		ImpuestosSubtotal: []ImpuestoSubtotal{exemptTax(base)},
	}
	if am.discount.IsPositive() {
		o.TotalDescuento = money(conv(am.discount))
	}
	return o
}

// ── helpers ───────────────────────────────────────────────────────────────────

func invoiceAmounts(inv *entity.Invoice) amounts {
	return amounts{
		base:     inv.TotalAmount.Add(inv.Charges.DiscountAmount),
		total:    inv.TotalAmount,
		discount: inv.Charges.DiscountAmount,
	}
}

func exemptTax(base decimal.Decimal) ImpuestoSubtotal {
	return ImpuestoSubtotal{
		CodigoTotalImp:   pkghka.TaxCodeExempt,
		AlicuotaImp:      zeroAmount,
		BaseImponibleImp: money(base),
		ValorTotalImp:    zeroAmount,
	}
}

// documentDigits correlativo que se transmite: el tramo tras el último guion, solo dígitos
// ("A-000042" → "000042", "A-NC-000003" → "000003").
func documentDigits(number string) string {
	if idx := strings.LastIndex(number, "-"); idx >= 0 {
		number = number[idx+1:]
	}
	return pkghka.ExtractDigits(number)
}

func money(v decimal.Decimal) string {
	return v.Round(2).StringFixed(2)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
