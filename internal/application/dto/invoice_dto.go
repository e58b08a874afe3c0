package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyDTO remitente o destinatario de la guía.
type PartyDTO struct {
	IDNumber   string `json:"id_number" validate:"required,max=20"`
	ClientType string `json:"client_type,omitempty" validate:"omitempty,oneof=natural juridico"`
	Name       string `json:"name" validate:"required,max=200"`
	Phone      string `json:"phone,omitempty" validate:"max=40"`
	Address    string `json:"address,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
}

// MerchandiseDTO bulto de la encomienda.
type MerchandiseDTO struct {
	Quantity    decimal.Decimal `json:"quantity"`
	Weight      decimal.Decimal `json:"weight"`
	Unit        string          `json:"unit,omitempty" validate:"max=10"`
	Description string          `json:"description" validate:"max=200"`
	SKU         string          `json:"sku,omitempty" validate:"max=40"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// El total se calcula en el servidor a partir de los cargos; total_amount, si viene, se ignora.
type CreateInvoiceRequest struct {
	OfficeID            string              `json:"office_id,omitempty" validate:"omitempty,uuid"` // vacío = oficina del usuario
	Sender              PartyDTO            `json:"sender" validate:"required"`
	Receiver            PartyDTO            `json:"receiver" validate:"required"`
	Merchandise         []MerchandiseDTO    `json:"merchandise" validate:"dive"`
	PaymentType         string              `json:"payment_type,omitempty"`
	Observations        string              `json:"observations,omitempty"`
	Freight             decimal.Decimal     `json:"freight"`
	Handling            decimal.Decimal     `json:"handling"`
	Insurance           decimal.Decimal     `json:"insurance"`
	Ipostel             decimal.Decimal     `json:"ipostel"`
	DiscountAmount      decimal.Decimal     `json:"discount_amount"`
	DiscountPercentage  decimal.Decimal     `json:"discount_percentage"`
	ExchangeRate        decimal.NullDecimal `json:"exchange_rate"`
	ClientEmail         string              `json:"client_email,omitempty" validate:"omitempty,email"`
	SpecificDestination string              `json:"specific_destination,omitempty"`
	TotalAmount         *decimal.Decimal    `json:"total_amount,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Solo los campos presentes se modifican.
type UpdateInvoiceRequest struct {
	PaymentStatus       *string          `json:"payment_status,omitempty"`
	ShippingStatus      *string          `json:"shipping_status,omitempty"`
	Freight             *decimal.Decimal `json:"freight,omitempty"`
	Handling            *decimal.Decimal `json:"handling,omitempty"`
	Insurance           *decimal.Decimal `json:"insurance,omitempty"`
	Ipostel             *decimal.Decimal `json:"ipostel,omitempty"`
	DiscountAmount      *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountPercentage  *decimal.Decimal `json:"discount_percentage,omitempty"`
	ExchangeRate        *decimal.Decimal `json:"exchange_rate,omitempty"`
	ClientEmail         *string          `json:"client_email,omitempty" validate:"omitempty,email"`
	SpecificDestination *string          `json:"specific_destination,omitempty"`
	VehicleID           *string          `json:"vehicle_id,omitempty" validate:"omitempty,uuid"`
	Observations        *string          `json:"observations,omitempty"`
}

// HasCostChanges indica si la petición toca algún cargo.
func (r UpdateInvoiceRequest) HasCostChanges() bool {
	return r.Freight != nil || r.Handling != nil || r.Insurance != nil || r.Ipostel != nil ||
		r.DiscountAmount != nil || r.DiscountPercentage != nil
}

// InvoiceFilterRequest query de GET /api/invoices.
type InvoiceFilterRequest struct {
	PageRequest
	OfficeID       string `query:"office_id" validate:"omitempty,uuid"`
	ShippingStatus string `query:"shipping_status"`
}

// InvoiceResponse factura completa.
type InvoiceResponse struct {
	ID                  string               `json:"id"`
	OfficeID            string               `json:"office_id"`
	InvoiceNumber       string               `json:"invoice_number"`
	ControlNumber       string               `json:"control_number"`
	Date                time.Time            `json:"date"`
	ClientName          string               `json:"client_name"`
	ClientIDNumber      string               `json:"client_id_number"`
	ClientEmail         string               `json:"client_email,omitempty"`
	Sender              PartyDTO             `json:"sender"`
	Receiver            PartyDTO             `json:"receiver"`
	Merchandise         []MerchandiseDTO     `json:"merchandise"`
	PaymentType         string               `json:"payment_type,omitempty"`
	Observations        string               `json:"observations,omitempty"`
	Freight             decimal.Decimal      `json:"freight"`
	Handling            decimal.Decimal      `json:"handling"`
	Insurance           decimal.Decimal      `json:"insurance"`
	Ipostel             decimal.Decimal      `json:"ipostel"`
	DiscountAmount      decimal.Decimal      `json:"discount_amount"`
	DiscountPercentage  decimal.Decimal      `json:"discount_percentage"`
	ExchangeRate        decimal.NullDecimal  `json:"exchange_rate"`
	TotalAmount         decimal.Decimal      `json:"total_amount"`
	Status              string               `json:"status"`
	PaymentStatus       string               `json:"payment_status"`
	ShippingStatus      string               `json:"shipping_status"`
	VehicleID           string               `json:"vehicle_id,omitempty"`
	SpecificDestination string               `json:"specific_destination,omitempty"`
	CreatedByName       string               `json:"created_by_name,omitempty"`
	HKAStatus           string               `json:"hka_status"`
	HKAMessage          string               `json:"hka_message,omitempty"`
	HKASentAt           *time.Time           `json:"hka_sent_at,omitempty"`
	Notes               []FiscalNoteResponse `json:"notes,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// FiscalNoteResponse nota de crédito o débito emitida.
type FiscalNoteResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	NoteNumber    string          `json:"note_number"`
	Reason        string          `json:"reason"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	HKAMessage    string          `json:"hka_message,omitempty"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FiscalNoteRequest body de credit-note y debit-note.
// Amount vacío = la nota cubre el monto completo de la factura.
type FiscalNoteRequest struct {
	Reason string              `json:"reason"`
	Amount decimal.NullDecimal `json:"amount"`
}

// VoidInvoiceRequest body de POST /api/invoices/:id/void.
type VoidInvoiceRequest struct {
	Reason string `json:"reason"`
}

// DownloadFileRequest body de POST /api/invoices/:id/download-hka.
type DownloadFileRequest struct {
	FileType string `json:"file_type" validate:"required,oneof=PDF XML"`
}

// SendToHKAResponse resultado de la transmisión de una factura.
type SendToHKAResponse struct {
	InvoiceID     string     `json:"invoice_id"`
	HKAStatus     string     `json:"hka_status"`
	Message       string     `json:"message"`
	NumeroControl string     `json:"numero_control,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
}

// FileResponse archivo descargado del proveedor.
type FileResponse struct {
	FileName    string
	ContentType string
	Data        []byte
}
