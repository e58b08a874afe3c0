package dto

import "time"

// CreateOfficeRequest entrada para crear una oficina. Code es la serie de sus documentos fiscales.
type CreateOfficeRequest struct {
	Code    string `json:"code" validate:"omitempty,alphanum,max=10"`
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address"`
	Phone   string `json:"phone" validate:"max=40"`
}

// OfficeResponse oficina con sus correlativos vigentes.
type OfficeResponse struct {
	ID                   string    `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	Address              string    `json:"address"`
	Phone                string    `json:"phone"`
	LastInvoiceNumber    int64     `json:"last_invoice_number"`
	LastCreditNoteNumber int64     `json:"last_credit_note_number"`
	LastDebitNoteNumber  int64     `json:"last_debit_note_number"`
	LastDispatchNumber   int64     `json:"last_dispatch_number"`
	CreatedAt            time.Time `json:"created_at"`
}
