package entity

import "time"

// Estados del despacho.
const (
	DispatchStatusInTransit = "En Tránsito"
	DispatchStatusReceived  = "Recibido"
)

// Dispatch despacho: un vehículo que lleva un lote de facturas de una oficina a otra.
type Dispatch struct {
	ID                  string
	DispatchNumber      string
	Date                time.Time
	VehicleID           string
	InvoiceIDs          []string
	OriginOfficeID      string
	DestinationOfficeID string
	Status              string
	ReceivedDate        *time.Time
	ReceivedBy          string
	CreatedAt           time.Time
}

// Contains indica si la factura forma parte del despacho.
func (d *Dispatch) Contains(invoiceID string) bool {
	for _, id := range d.InvoiceIDs {
		if id == invoiceID {
			return true
		}
	}
	return false
}
