package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	rules "github.com/jhoicas/encomiendas-api/internal/domain/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// NumberingService emite correlativos por oficina.
type NumberingService struct {
	tx TxRunner
}

// NewNumberingService construye el servicio.
func NewNumberingService(tx TxRunner) *NumberingService {
	return &NumberingService{tx: tx}
}

// IssueNextNumber emite el siguiente número de factura de la oficina en su propia transacción.
// Dos llamadas sobre la misma oficina se serializan por el bloqueo de fila; oficinas distintas no se esperan.
func (s *NumberingService) IssueNextNumber(ctx context.Context, officeID string) (invoiceNumber, controlNumber string, err error) {
	err = s.tx.RunNumbering(ctx, func(offices repository.OfficeRepository) error {
		office, n, err := IssueInTx(ctx, offices, officeID, rules.SeriesInvoice)
		if err != nil {
			return err
		}
		invoiceNumber = rules.FormatInvoiceNumber(office.Code, n)
		controlNumber = rules.FormatControlNumber(n)
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return invoiceNumber, controlNumber, nil
}

// IssueInTx bloquea la oficina, avanza el correlativo de la serie y lo escribe.
// offices debe estar atado a la transacción del caller: el incremento se confirma o
// se descarta con ella. Sin código de serie devuelve ConfigurationError y no toca el contador.
func IssueInTx(ctx context.Context, offices repository.OfficeRepository, officeID string, series rules.Series) (*entity.Office, int64, error) {
	office, err := offices.GetForUpdate(ctx, officeID)
	if err != nil {
		return nil, 0, fmt.Errorf("bloquear oficina: %w", err)
	}
	if office == nil {
		return nil, 0, fmt.Errorf("oficina %s: %w", officeID, domain.ErrNotFound)
	}
	if strings.TrimSpace(office.Code) == "" {
		return nil, 0, domain.NewConfigurationError("la oficina %q no tiene código de serie configurado", office.Name)
	}
	n, err := rules.Advance(office, series)
	if err != nil {
		return nil, 0, err
	}
	if err := offices.UpdateCounters(ctx, office); err != nil {
		return nil, 0, fmt.Errorf("actualizar correlativo: %w", err)
	}
	return office, n, nil
}
