package dto

import "time"

// CreateDispatchRequest body de POST /api/dispatches. La oficina de origen es la del usuario.
type CreateDispatchRequest struct {
	InvoiceIDs          []string `json:"invoice_ids" validate:"required,min=1,dive,uuid"`
	VehicleID           string   `json:"vehicle_id" validate:"required,uuid"`
	DestinationOfficeID string   `json:"destination_office_id" validate:"required,uuid"`
}

// ReceiveDispatchRequest body de POST /api/dispatches/receive/:dispatchId.
// Las facturas del despacho que no estén en la lista quedan como faltantes.
type ReceiveDispatchRequest struct {
	VerifiedInvoiceIDs []string `json:"verified_invoice_ids" validate:"dive,uuid"`
}

// DispatchResponse despacho registrado.
type DispatchResponse struct {
	ID                  string     `json:"id"`
	DispatchNumber      string     `json:"dispatch_number"`
	Date                time.Time  `json:"date"`
	VehicleID           string     `json:"vehicle_id"`
	InvoiceIDs          []string   `json:"invoice_ids"`
	OriginOfficeID      string     `json:"origin_office_id"`
	DestinationOfficeID string     `json:"destination_office_id"`
	Status              string     `json:"status"`
	ReceivedDate        *time.Time `json:"received_date,omitempty"`
	ReceivedBy          string     `json:"received_by,omitempty"`
}

// ReceiveDispatchResponse resultado de la recepción.
type ReceiveDispatchResponse struct {
	Dispatch DispatchResponse `json:"dispatch"`
	Received int              `json:"received"`
	Missing  int              `json:"missing"`
}
