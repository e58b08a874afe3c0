package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estado de la factura (Activa → Anulada, terminal).
const (
	InvoiceStatusActive = "Activa"
	InvoiceStatusVoided = "Anulada"
)

// Estado de pago.
const (
	PaymentStatusPending = "Pendiente"
	PaymentStatusPaid    = "Pagada"
)

// Estado de envío de la encomienda.
const (
	ShippingStatusPending       = "Pendiente para Despacho"
	ShippingStatusInTransit     = "En Tránsito"
	ShippingStatusAtDestination = "En Oficina Destino"
	ShippingStatusMissing       = "Reportada Falta"
	ShippingStatusDelivered     = "Entregada"
)

// Estado de la transmisión a The Factory HKA.
const (
	HKAStatusPending    = "PENDIENTE" // creada, aún no transmitida
	HKAStatusSubmitting = "ENVIANDO"  // reservada por un envío en curso
	HKAStatusSent       = "ENVIADA"   // aceptada por el proveedor
	HKAStatusError      = "ERROR"     // último intento rechazado; se puede reintentar
)

// Party remitente o destinatario tal como quedó en la guía.
type Party struct {
	ID         string `json:"id,omitempty"`
	IDNumber   string `json:"idNumber"`
	ClientType string `json:"clientType,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	Email      string `json:"email,omitempty"`
}

// MerchandiseItem bulto de la encomienda.
type MerchandiseItem struct {
	Quantity    decimal.Decimal `json:"quantity"`
	Weight      decimal.Decimal `json:"weight"`
	Unit        string          `json:"unit,omitempty"`
	Description string          `json:"description"`
	SKU         string          `json:"sku,omitempty"`
}

// Guide guía de encomienda (se persiste como JSONB).
type Guide struct {
	Sender       Party             `json:"sender"`
	Receiver     Party             `json:"receiver"`
	Merchandise  []MerchandiseItem `json:"merchandise"`
	PaymentType  string            `json:"paymentType,omitempty"`
	Observations string            `json:"observations,omitempty"`
}

// Charges cargos de la factura. DiscountAmount es el descuento efectivo ya resuelto.
type Charges struct {
	Freight            decimal.Decimal
	Handling           decimal.Decimal
	Insurance          decimal.Decimal
	Ipostel            decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountPercentage decimal.Decimal
}

// Invoice factura de encomienda emitida por una oficina.
type Invoice struct {
	ID                  string
	OfficeID            string
	InvoiceNumber       string // {serie}-{000042}
	ControlNumber       string // 00000042
	Date                time.Time
	ClientName          string // remitente (comprador fiscal)
	ClientIDNumber      string
	ClientEmail         string
	Guide               Guide
	Charges             Charges
	ExchangeRate        decimal.NullDecimal // Bs por USD; nulo = sin bloque en otra moneda
	TotalAmount         decimal.Decimal
	Status              string
	PaymentStatus       string
	ShippingStatus      string
	VehicleID           string
	SpecificDestination string
	CreatedByName       string
	HKAStatus           string
	HKAMessage          string
	HKASentAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsVoided indica si la factura está anulada.
func (i *Invoice) IsVoided() bool { return i.Status == InvoiceStatusVoided }

// AcceptedByHKA indica si el proveedor fiscal ya aceptó la factura.
func (i *Invoice) AcceptedByHKA() bool { return i.HKAStatus == HKAStatusSent }

// FiscallyLocked los montos ya no se editan: la factura fue aceptada o se está transmitiendo.
func (i *Invoice) FiscallyLocked() bool {
	return i.HKAStatus == HKAStatusSent || i.HKAStatus == HKAStatusSubmitting
}

// Series devuelve la serie del número de factura ("A-000042" → "A").
func (i *Invoice) Series() string {
	if idx := strings.LastIndex(i.InvoiceNumber, "-"); idx >= 0 {
		return i.InvoiceNumber[:idx]
	}
	return ""
}

// Sequence devuelve el correlativo del número de factura ("A-000042" → "000042").
func (i *Invoice) Sequence() string {
	if idx := strings.LastIndex(i.InvoiceNumber, "-"); idx >= 0 {
		return i.InvoiceNumber[idx+1:]
	}
	return i.InvoiceNumber
}

// HasExchangeRate indica si hay tasa de cambio usable (> 0).
func (i *Invoice) HasExchangeRate() bool {
	return i.ExchangeRate.Valid && i.ExchangeRate.Decimal.IsPositive()
}
