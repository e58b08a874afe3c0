package billing

import (
	"fmt"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// Series identifica uno de los correlativos que lleva cada oficina.
type Series string

const (
	SeriesInvoice    Series = "invoice"
	SeriesCreditNote Series = "credit_note"
	SeriesDebitNote  Series = "debit_note"
	SeriesDispatch   Series = "dispatch"
)

// Advance incrementa en uno el correlativo de la serie sobre la oficina (ya bloqueada) y devuelve el nuevo valor.
func Advance(o *entity.Office, s Series) (int64, error) {
	var counter *int64
	switch s {
	case SeriesInvoice:
		counter = &o.LastInvoiceNumber
	case SeriesCreditNote:
		counter = &o.LastCreditNoteNumber
	case SeriesDebitNote:
		counter = &o.LastDebitNoteNumber
	case SeriesDispatch:
		counter = &o.LastDispatchNumber
	default:
		return 0, fmt.Errorf("billing: serie desconocida %q", s)
	}
	*counter++
	return *counter, nil
}

// FormatInvoiceNumber "{code}-{n:06d}".
func FormatInvoiceNumber(code string, n int64) string {
	return fmt.Sprintf("%s-%06d", code, n)
}

// FormatControlNumber "{n:08d}".
func FormatControlNumber(n int64) string {
	return fmt.Sprintf("%08d", n)
}

// FormatNoteNumber "{code}-NC-{n:06d}" para crédito, "{code}-ND-{n:06d}" para débito.
func FormatNoteNumber(code, kind string, n int64) string {
	tag := "NC"
	if kind == entity.NoteKindDebit {
		tag = "ND"
	}
	return fmt.Sprintf("%s-%s-%06d", code, tag, n)
}

// FormatDispatchNumber "{code}-D{n:06d}".
func FormatDispatchNumber(code string, n int64) string {
	return fmt.Sprintf("%s-D%06d", code, n)
}
