// Package dispatch traslado de encomiendas entre oficinas: salida en un vehículo y recepción en destino.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	rules "github.com/jhoicas/encomiendas-api/internal/domain/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// UseCase despachos.
type UseCase struct {
	tx         TxRunner
	dispatches repository.DispatchRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx TxRunner, dispatches repository.DispatchRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, dispatches: dispatches, log: log.Component("dispatch"), now: time.Now}
}

// Create despacha las facturas desde la oficina del usuario. Todo o nada: si alguna factura
// no está activa y pendiente de despacho, no se crea el despacho ni se consume el correlativo.
func (uc *UseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateDispatchRequest) (*dto.DispatchResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	origin := actor.OfficeID
	if origin == "" {
		return nil, domain.NewValidationError("office_id: el usuario no tiene oficina asignada")
	}
	if in.DestinationOfficeID == origin {
		return nil, domain.NewValidationError("destination_office_id: debe ser distinta a la oficina de origen")
	}
	ids := unique(in.InvoiceIDs)

	now := uc.now()
	d := &entity.Dispatch{
		ID:                  uuid.New().String(),
		Date:                now,
		VehicleID:           in.VehicleID,
		InvoiceIDs:          ids,
		OriginOfficeID:      origin,
		DestinationOfficeID: in.DestinationOfficeID,
		Status:              entity.DispatchStatusInTransit,
		CreatedAt:           now,
	}

	err := uc.tx.RunDispatch(ctx, func(
		offices repository.OfficeRepository,
		invoices repository.InvoiceRepository,
		dispatches repository.DispatchRepository,
		vehicles repository.VehicleRepository,
	) error {
		vehicle, err := vehicles.GetByID(ctx, in.VehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil {
			return fmt.Errorf("vehículo %s: %w", in.VehicleID, domain.ErrNotFound)
		}
		if vehicle.Status == entity.VehicleStatusMaintenance {
			return domain.NewConflictError("el vehículo %s está en mantenimiento", vehicle.Placa)
		}
		dest, err := offices.GetByID(ctx, in.DestinationOfficeID)
		if err != nil {
			return err
		}
		if dest == nil {
			return fmt.Errorf("oficina destino %s: %w", in.DestinationOfficeID, domain.ErrNotFound)
		}
		for _, id := range ids {
			inv, err := invoices.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if inv == nil {
				return fmt.Errorf("factura %s: %w", id, domain.ErrNotFound)
			}
			if inv.OfficeID != origin {
				return domain.NewConflictError("la factura %s no pertenece a la oficina de origen", inv.InvoiceNumber)
			}
			if inv.IsVoided() || inv.ShippingStatus != entity.ShippingStatusPending {
				return domain.NewConflictError("la factura %s no está pendiente para despacho", inv.InvoiceNumber)
			}
		}

		office, n, err := billing.IssueInTx(ctx, offices, origin, rules.SeriesDispatch)
		if err != nil {
			return err
		}
		d.DispatchNumber = rules.FormatDispatchNumber(office.Code, n)

		moved, err := invoices.MarkInTransit(ctx, ids, in.VehicleID)
		if err != nil {
			return err
		}
		if moved != int64(len(ids)) {
			return domain.NewConflictError("%d de %d facturas ya no están pendientes para despacho", int64(len(ids))-moved, len(ids))
		}
		if err := dispatches.Create(ctx, d); err != nil {
			return err
		}
		return vehicles.UpdateStatus(ctx, in.VehicleID, entity.VehicleStatusOnRoute)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("dispatch_number", d.DispatchNumber).
		Int("invoices", len(ids)).
		Str("destination", d.DestinationOfficeID).
		Msg("despacho creado")
	resp := toResponse(d)
	return &resp, nil
}

// Receive registra la llegada a la oficina del usuario. Las facturas verificadas quedan en
// la oficina destino; el resto del despacho se reporta como faltante.
func (uc *UseCase) Receive(ctx context.Context, actor dto.Actor, dispatchID string, in dto.ReceiveDispatchRequest) (*dto.ReceiveDispatchResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var d *entity.Dispatch
	var received, missing []string

	err := uc.tx.RunDispatch(ctx, func(
		_ repository.OfficeRepository,
		invoices repository.InvoiceRepository,
		dispatches repository.DispatchRepository,
		vehicles repository.VehicleRepository,
	) error {
		var err error
		d, err = dispatches.GetForUpdate(ctx, dispatchID)
		if err != nil {
			return err
		}
		// un despacho de otra oficina no se revela
		if d == nil || d.DestinationOfficeID != actor.OfficeID {
			return fmt.Errorf("despacho %s: %w", dispatchID, domain.ErrNotFound)
		}
		if d.Status == entity.DispatchStatusReceived {
			return domain.NewConflictError("el despacho %s ya fue recibido", d.DispatchNumber)
		}

		verified := make(map[string]bool, len(in.VerifiedInvoiceIDs))
		for _, id := range in.VerifiedInvoiceIDs {
			if !d.Contains(id) {
				return domain.NewValidationError("verified_invoice_ids: la factura " + id + " no pertenece al despacho")
			}
			verified[id] = true
		}
		for _, id := range d.InvoiceIDs {
			if verified[id] {
				received = append(received, id)
			} else {
				missing = append(missing, id)
			}
		}
		if len(received) > 0 {
			if err := invoices.SetShippingStatus(ctx, received, entity.ShippingStatusAtDestination); err != nil {
				return err
			}
		}
		if len(missing) > 0 {
			if err := invoices.SetShippingStatus(ctx, missing, entity.ShippingStatusMissing); err != nil {
				return err
			}
		}

		now := uc.now()
		d.Status = entity.DispatchStatusReceived
		d.ReceivedDate = &now
		d.ReceivedBy = actor.Name
		if err := dispatches.MarkReceived(ctx, d); err != nil {
			return err
		}
		return vehicles.UpdateStatus(ctx, d.VehicleID, entity.VehicleStatusAvailable)
	})
	if err != nil {
		return nil, err
	}

	if len(missing) > 0 {
		uc.log.Warn().
			Str("dispatch_number", d.DispatchNumber).
			Int("received", len(received)).
			Strs("missing", missing).
			Msg("despacho recibido con faltantes")
	} else {
		uc.log.Info().Str("dispatch_number", d.DispatchNumber).Int("received", len(received)).Msg("despacho recibido")
	}
	return &dto.ReceiveDispatchResponse{
		Dispatch: toResponse(d),
		Received: len(received),
		Missing:  len(missing),
	}, nil
}

// List despachos por fecha descendente.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.DispatchResponse, error) {
	if err := dto.Validate(page); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.dispatches.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DispatchResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toResponse(d))
	}
	return out, nil
}

func toResponse(d *entity.Dispatch) dto.DispatchResponse {
	return dto.DispatchResponse{
		ID:                  d.ID,
		DispatchNumber:      d.DispatchNumber,
		Date:                d.Date,
		VehicleID:           d.VehicleID,
		InvoiceIDs:          d.InvoiceIDs,
		OriginOfficeID:      d.OriginOfficeID,
		DestinationOfficeID: d.DestinationOfficeID,
		Status:              d.Status,
		ReceivedDate:        d.ReceivedDate,
		ReceivedBy:          d.ReceivedBy,
	}
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
