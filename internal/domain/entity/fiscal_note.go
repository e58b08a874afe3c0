package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de nota fiscal.
const (
	NoteKindCredit = "credit"
	NoteKindDebit  = "debit"
)

// Estado de la nota ante el proveedor fiscal. El número queda reservado desde PENDIENTE.
const (
	NoteStatusPending  = "PENDIENTE"
	NoteStatusAccepted = "ACEPTADA"
	NoteStatusRejected = "RECHAZADA"
)

// FiscalNote nota de crédito o débito de una factura.
type FiscalNote struct {
	ID            string
	InvoiceID     string
	OfficeID      string
	Kind          string // credit, debit
	NoteNumber    string // {serie}-NC-000001 / {serie}-ND-000001
	Reason        string
	Amount        decimal.Decimal
	Status        string
	HKAMessage    string
	CreatedByName string
	CreatedAt     time.Time
}
