package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	rules "github.com/jhoicas/encomiendas-api/internal/domain/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// InvoiceUseCase alta, consulta y edición de facturas de encomienda.
type InvoiceUseCase struct {
	tx       TxRunner
	invoices repository.InvoiceRepository
	notes    repository.FiscalNoteRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	tx TxRunner,
	invoices repository.InvoiceRepository,
	notes repository.FiscalNoteRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{tx: tx, invoices: invoices, notes: notes, log: log, now: time.Now}
}

// Create registra la guía y emite el número de factura de la oficina.
// Clientes, correlativo y factura van en una sola transacción: si algo falla no queda nada.
func (uc *InvoiceUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	officeID := in.OfficeID
	if officeID == "" {
		officeID = actor.OfficeID
	}
	if officeID == "" {
		return nil, domain.NewValidationError("office_id: el usuario no tiene oficina asignada")
	}
	if err := validateMerchandise(in.Merchandise); err != nil {
		return nil, err
	}
	if in.ExchangeRate.Valid && in.ExchangeRate.Decimal.IsNegative() {
		return nil, domain.NewValidationError("exchange_rate: no puede ser negativo")
	}

	charges, total, err := rules.ComputeTotals(entity.Charges{
		Freight:            in.Freight,
		Handling:           in.Handling,
		Insurance:          in.Insurance,
		Ipostel:            in.Ipostel,
		DiscountAmount:     in.DiscountAmount,
		DiscountPercentage: in.DiscountPercentage,
	})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		OfficeID:       officeID,
		Date:           now,
		ClientName:     strings.TrimSpace(in.Sender.Name),
		ClientIDNumber: strings.TrimSpace(in.Sender.IDNumber),
		Guide: entity.Guide{
			Sender:       partyFromDTO(in.Sender),
			Receiver:     partyFromDTO(in.Receiver),
			Merchandise:  merchandiseFromDTO(in.Merchandise),
			PaymentType:  in.PaymentType,
			Observations: in.Observations,
		},
		Charges:             charges,
		ExchangeRate:        in.ExchangeRate,
		TotalAmount:         total,
		Status:              entity.InvoiceStatusActive,
		PaymentStatus:       entity.PaymentStatusPending,
		ShippingStatus:      entity.ShippingStatusPending,
		SpecificDestination: in.SpecificDestination,
		CreatedByName:       actor.Name,
		HKAStatus:           entity.HKAStatusPending,
		CreatedAt:           now,
	}

	err = uc.tx.RunInvoicing(ctx, func(
		offices repository.OfficeRepository,
		clients repository.ClientRepository,
		invoices repository.InvoiceRepository,
	) error {
		sender, err := findOrCreateClient(ctx, clients, inv.Guide.Sender, now)
		if err != nil {
			return err
		}
		receiver, err := findOrCreateClient(ctx, clients, inv.Guide.Receiver, now)
		if err != nil {
			return err
		}
		inv.Guide.Sender.ID = sender.ID
		inv.Guide.Receiver.ID = receiver.ID
		inv.ClientEmail = firstNonEmpty(in.ClientEmail, inv.Guide.Sender.Email, sender.Email)

		office, n, err := IssueInTx(ctx, offices, officeID, rules.SeriesInvoice)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = rules.FormatInvoiceNumber(office.Code, n)
		inv.ControlNumber = rules.FormatControlNumber(n)
		return invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("office_id", inv.OfficeID).
		Str("total", inv.TotalAmount.StringFixed(2)).
		Msg("factura creada")
	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// List facturas ordenadas por número descendente.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceFilterRequest) (*dto.InvoiceListResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, total, err := uc.invoices.List(ctx, repository.InvoiceFilter{
		OfficeID:       in.OfficeID,
		ShippingStatus: in.ShippingStatus,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Get factura con sus notas fiscales.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoices, id)
	if err != nil {
		return nil, err
	}
	notes, err := uc.notes.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, notes)
	return &resp, nil
}

// Update aplica los campos presentes en la petición sobre la factura bloqueada en su transacción.
//   - una factura anulada no se modifica;
//   - los estados solo avanzan según sus transiciones;
//   - los cargos cambian mientras la factura no se haya transmitido a HKA (después van por notas);
//   - la tasa de cambio queda congelada al ser aceptada por HKA o al pagarse.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	err := uc.tx.RunInvoice(ctx, func(invoices repository.InvoiceRepository) error {
		locked, err := invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
		}
		inv = locked
		if err := applyUpdate(inv, in); err != nil {
			return err
		}
		return invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// applyUpdate valida y aplica la petición sobre la factura bloqueada.
func applyUpdate(inv *entity.Invoice, in dto.UpdateInvoiceRequest) error {
	if inv.IsVoided() {
		return domain.NewConflictError("la factura %s está anulada", inv.InvoiceNumber)
	}
	wasPaid := inv.PaymentStatus == entity.PaymentStatusPaid

	if in.PaymentStatus != nil {
		if err := rules.CheckPaymentTransition(inv.PaymentStatus, *in.PaymentStatus); err != nil {
			return err
		}
		inv.PaymentStatus = *in.PaymentStatus
	}
	if in.ShippingStatus != nil {
		if err := rules.CheckShippingTransition(inv.ShippingStatus, *in.ShippingStatus); err != nil {
			return err
		}
		inv.ShippingStatus = *in.ShippingStatus
	}

	if in.HasCostChanges() {
		if inv.FiscallyLocked() {
			return domain.NewConflictError("la factura %s ya fue transmitida a HKA; los montos se corrigen con notas de crédito o débito", inv.InvoiceNumber)
		}
		c := inv.Charges
		setDecimal(&c.Freight, in.Freight)
		setDecimal(&c.Handling, in.Handling)
		setDecimal(&c.Insurance, in.Insurance)
		setDecimal(&c.Ipostel, in.Ipostel)
		setDecimal(&c.DiscountAmount, in.DiscountAmount)
		setDecimal(&c.DiscountPercentage, in.DiscountPercentage)
		if in.DiscountAmount == nil && c.DiscountPercentage.IsPositive() {
			// con porcentaje el monto guardado es derivado: se recalcula sobre los cargos nuevos
			c.DiscountAmount = decimal.Zero
		}
		charges, total, err := rules.ComputeTotals(c)
		if err != nil {
			return err
		}
		inv.Charges = charges
		inv.TotalAmount = total
	}

	if in.ExchangeRate != nil {
		if inv.FiscallyLocked() || wasPaid {
			return domain.NewConflictError("la tasa de cambio de la factura %s ya está congelada", inv.InvoiceNumber)
		}
		if in.ExchangeRate.IsNegative() {
			return domain.NewValidationError("exchange_rate: no puede ser negativo")
		}
		inv.ExchangeRate = decimal.NewNullDecimal(*in.ExchangeRate)
	}

	if in.ClientEmail != nil {
		inv.ClientEmail = strings.TrimSpace(*in.ClientEmail)
	}
	if in.SpecificDestination != nil {
		inv.SpecificDestination = *in.SpecificDestination
	}
	if in.VehicleID != nil {
		inv.VehicleID = *in.VehicleID
	}
	if in.Observations != nil {
		inv.Guide.Observations = *in.Observations
	}
	return nil
}

func loadInvoice(ctx context.Context, invoices repository.InvoiceRepository, id string) (*entity.Invoice, error) {
	inv, err := invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

// findOrCreateClient busca por cédula/RIF; si no existe lo registra con los datos de la guía.
func findOrCreateClient(ctx context.Context, clients repository.ClientRepository, p entity.Party, now time.Time) (*entity.Client, error) {
	idNumber := strings.TrimSpace(p.IDNumber)
	c, err := clients.GetByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	c = &entity.Client{
		IDNumber:   idNumber,
		ClientType: p.ClientType,
		Name:       strings.TrimSpace(p.Name),
		Phone:      p.Phone,
		Address:    p.Address,
		Email:      p.Email,
		CreatedAt:  now,
	}
	if err := clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func validateMerchandise(items []dto.MerchandiseDTO) error {
	var bad []string
	for i, m := range items {
		if m.Quantity.IsNegative() {
			bad = append(bad, fmt.Sprintf("merchandise[%d].quantity: no puede ser negativo", i))
		}
		if m.Weight.IsNegative() {
			bad = append(bad, fmt.Sprintf("merchandise[%d].weight: no puede ser negativo", i))
		}
	}
	if len(bad) > 0 {
		return domain.NewValidationError(bad...)
	}
	return nil
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
