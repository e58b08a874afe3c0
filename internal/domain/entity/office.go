package entity

import "time"

// Office oficina (taquilla) de la cooperativa. Code es la serie fiscal de sus documentos;
// cada serie de numeración lleva su último correlativo emitido en la misma fila.
type Office struct {
	ID                   string
	Code                 string // vacío = oficina sin serie (no puede emitir)
	Name                 string
	Address              string
	Phone                string
	LastInvoiceNumber    int64
	LastCreditNoteNumber int64
	LastDebitNoteNumber  int64
	LastDispatchNumber   int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
