package dispatch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/encomiendas-api/internal/application/dispatch"
	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// world estado en memoria; una transacción fallida restaura la copia previa.
type world struct {
	mu         sync.Mutex
	offices    map[string]entity.Office
	invoices   map[string]entity.Invoice
	dispatches map[string]entity.Dispatch
	vehicles   map[string]entity.Vehicle
}

func (w *world) clone() world {
	c := world{
		offices:    map[string]entity.Office{},
		invoices:   map[string]entity.Invoice{},
		dispatches: map[string]entity.Dispatch{},
		vehicles:   map[string]entity.Vehicle{},
	}
	for k, v := range w.offices {
		c.offices[k] = v
	}
	for k, v := range w.invoices {
		c.invoices[k] = v
	}
	for k, v := range w.dispatches {
		v.InvoiceIDs = append([]string(nil), v.InvoiceIDs...)
		c.dispatches[k] = v
	}
	for k, v := range w.vehicles {
		c.vehicles[k] = v
	}
	return c
}

func (w *world) RunDispatch(_ context.Context, fn func(repository.OfficeRepository, repository.InvoiceRepository, repository.DispatchRepository, repository.VehicleRepository) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := w.clone()
	if err := fn(offices{w}, invoices{w}, dispatches{w}, vehicles{w}); err != nil {
		w.offices, w.invoices, w.dispatches, w.vehicles = snap.offices, snap.invoices, snap.dispatches, snap.vehicles
		return err
	}
	return nil
}

type offices struct{ w *world }

func (r offices) Create(_ context.Context, o *entity.Office) error { r.w.offices[o.ID] = *o; return nil }
func (r offices) GetByID(_ context.Context, id string) (*entity.Office, error) {
	o, ok := r.w.offices[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}
func (r offices) List(context.Context) ([]*entity.Office, error) { return nil, nil }
func (r offices) GetForUpdate(ctx context.Context, id string) (*entity.Office, error) {
	return r.GetByID(ctx, id)
}
func (r offices) UpdateCounters(_ context.Context, o *entity.Office) error {
	r.w.offices[o.ID] = *o
	return nil
}

type invoices struct{ w *world }

func (r invoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.w.invoices[inv.ID] = *inv
	return nil
}
func (r invoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.w.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}
func (r invoices) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}
func (r invoices) List(context.Context, repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	return nil, 0, nil
}
func (r invoices) Update(_ context.Context, inv *entity.Invoice) error {
	r.w.invoices[inv.ID] = *inv
	return nil
}
func (r invoices) MarkVoided(context.Context, string, string) (bool, error) { return false, nil }
func (r invoices) ClaimSubmission(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}
func (r invoices) CompleteSubmission(context.Context, string, string, string, *time.Time) (bool, error) {
	return false, nil
}
func (r invoices) UpdateHKAStatus(context.Context, string, string, string, *time.Time) error {
	return nil
}
func (r invoices) MarkInTransit(_ context.Context, ids []string, vehicleID string) (int64, error) {
	var n int64
	for _, id := range ids {
		inv, ok := r.w.invoices[id]
		if ok && inv.Status == entity.InvoiceStatusActive && inv.ShippingStatus == entity.ShippingStatusPending {
			inv.ShippingStatus, inv.VehicleID = entity.ShippingStatusInTransit, vehicleID
			r.w.invoices[id] = inv
			n++
		}
	}
	return n, nil
}
func (r invoices) SetShippingStatus(_ context.Context, ids []string, status string) error {
	for _, id := range ids {
		inv := r.w.invoices[id]
		inv.ShippingStatus = status
		r.w.invoices[id] = inv
	}
	return nil
}

type dispatches struct{ w *world }

func (r dispatches) Create(_ context.Context, d *entity.Dispatch) error {
	r.w.dispatches[d.ID] = *d
	return nil
}
func (r dispatches) GetByID(_ context.Context, id string) (*entity.Dispatch, error) {
	d, ok := r.w.dispatches[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}
func (r dispatches) GetForUpdate(ctx context.Context, id string) (*entity.Dispatch, error) {
	return r.GetByID(ctx, id)
}
func (r dispatches) MarkReceived(_ context.Context, d *entity.Dispatch) error {
	r.w.dispatches[d.ID] = *d
	return nil
}
func (r dispatches) List(context.Context, int, int) ([]*entity.Dispatch, error) {
	var out []*entity.Dispatch
	for _, d := range r.w.dispatches {
		d := d
		out = append(out, &d)
	}
	return out, nil
}

type vehicles struct{ w *world }

func (r vehicles) Create(_ context.Context, v *entity.Vehicle) error { r.w.vehicles[v.ID] = *v; return nil }
func (r vehicles) GetByID(_ context.Context, id string) (*entity.Vehicle, error) {
	v, ok := r.w.vehicles[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}
func (r vehicles) List(context.Context) ([]*entity.Vehicle, error) { return nil, nil }
func (r vehicles) UpdateStatus(_ context.Context, id, status string) error {
	v, ok := r.w.vehicles[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	r.w.vehicles[id] = v
	return nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	w        *world
	uc       *dispatch.UseCase
	origin   string
	dest     string
	vehicle  string
	invoices []string
}

func newFixture(nInvoices int) *fixture {
	w := &world{
		offices:    map[string]entity.Office{},
		invoices:   map[string]entity.Invoice{},
		dispatches: map[string]entity.Dispatch{},
		vehicles:   map[string]entity.Vehicle{},
	}
	f := &fixture{w: w, origin: uuid.New().String(), dest: uuid.New().String(), vehicle: uuid.New().String()}
	w.offices[f.origin] = entity.Office{ID: f.origin, Code: "A", Name: "La Guaira"}
	w.offices[f.dest] = entity.Office{ID: f.dest, Code: "B", Name: "Maracay"}
	w.vehicles[f.vehicle] = entity.Vehicle{ID: f.vehicle, Placa: "A12BC3D", Status: entity.VehicleStatusAvailable}
	for i := 0; i < nInvoices; i++ {
		id := uuid.New().String()
		w.invoices[id] = entity.Invoice{
			ID:             id,
			OfficeID:       f.origin,
			InvoiceNumber:  "A-00000" + string(rune('1'+i)),
			Status:         entity.InvoiceStatusActive,
			ShippingStatus: entity.ShippingStatusPending,
		}
		f.invoices = append(f.invoices, id)
	}
	f.uc = dispatch.NewUseCase(w, dispatches{w}, nil)
	return f
}

func (f *fixture) originActor() dto.Actor { return dto.Actor{Name: "Despachador", OfficeID: f.origin} }
func (f *fixture) destActor() dto.Actor   { return dto.Actor{Name: "Receptor", OfficeID: f.dest} }

func (f *fixture) create(t *testing.T) *dto.DispatchResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), f.originActor(), dto.CreateDispatchRequest{
		InvoiceIDs:          f.invoices,
		VehicleID:           f.vehicle,
		DestinationOfficeID: f.dest,
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreate_DespachaFacturasYVehiculo(t *testing.T) {
	f := newFixture(3)
	resp := f.create(t)

	assert.Equal(t, "A-D000001", resp.DispatchNumber)
	assert.Equal(t, entity.DispatchStatusInTransit, resp.Status)
	assert.Equal(t, f.origin, resp.OriginOfficeID)
	assert.Len(t, resp.InvoiceIDs, 3)
	for _, id := range f.invoices {
		inv := f.w.invoices[id]
		assert.Equal(t, entity.ShippingStatusInTransit, inv.ShippingStatus)
		assert.Equal(t, f.vehicle, inv.VehicleID)
	}
	assert.Equal(t, entity.VehicleStatusOnRoute, f.w.vehicles[f.vehicle].Status)
	assert.Equal(t, int64(1), f.w.offices[f.origin].LastDispatchNumber)
	assert.Equal(t, int64(0), f.w.offices[f.origin].LastInvoiceNumber, "el despacho tiene su propia serie")
}

func TestCreate_FacturaNoElegibleRevierteTodo(t *testing.T) {
	f := newFixture(3)
	inv := f.w.invoices[f.invoices[2]]
	inv.Status = entity.InvoiceStatusVoided
	f.w.invoices[inv.ID] = inv

	_, err := f.uc.Create(context.Background(), f.originActor(), dto.CreateDispatchRequest{
		InvoiceIDs: f.invoices, VehicleID: f.vehicle, DestinationOfficeID: f.dest,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.w.dispatches)
	assert.Equal(t, entity.ShippingStatusPending, f.w.invoices[f.invoices[0]].ShippingStatus)
	assert.Equal(t, entity.VehicleStatusAvailable, f.w.vehicles[f.vehicle].Status)
	assert.Equal(t, int64(0), f.w.offices[f.origin].LastDispatchNumber)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, f.originActor(), dto.CreateDispatchRequest{VehicleID: f.vehicle, DestinationOfficeID: f.dest})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin facturas")

	_, err = f.uc.Create(ctx, f.originActor(), dto.CreateDispatchRequest{InvoiceIDs: f.invoices, VehicleID: f.vehicle, DestinationOfficeID: f.origin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "destino igual al origen")

	_, err = f.uc.Create(ctx, f.originActor(), dto.CreateDispatchRequest{InvoiceIDs: []string{"no-uuid"}, VehicleID: f.vehicle, DestinationOfficeID: f.dest})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, f.originActor(), dto.CreateDispatchRequest{InvoiceIDs: f.invoices, VehicleID: uuid.New().String(), DestinationOfficeID: f.dest})
	assert.ErrorIs(t, err, domain.ErrNotFound, "vehículo inexistente")
}

func TestCreate_VehiculoEnMantenimiento(t *testing.T) {
	f := newFixture(1)
	v := f.w.vehicles[f.vehicle]
	v.Status = entity.VehicleStatusMaintenance
	f.w.vehicles[f.vehicle] = v

	_, err := f.uc.Create(context.Background(), f.originActor(), dto.CreateDispatchRequest{
		InvoiceIDs: f.invoices, VehicleID: f.vehicle, DestinationOfficeID: f.dest,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceive_VerificadasYFaltantes(t *testing.T) {
	f := newFixture(3)
	d := f.create(t)

	resp, err := f.uc.Receive(context.Background(), f.destActor(), d.ID, dto.ReceiveDispatchRequest{
		VerifiedInvoiceIDs: f.invoices[:2],
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Received)
	assert.Equal(t, 1, resp.Missing)
	assert.Equal(t, entity.DispatchStatusReceived, resp.Dispatch.Status)
	assert.Equal(t, "Receptor", resp.Dispatch.ReceivedBy)
	require.NotNil(t, resp.Dispatch.ReceivedDate)

	assert.Equal(t, entity.ShippingStatusAtDestination, f.w.invoices[f.invoices[0]].ShippingStatus)
	assert.Equal(t, entity.ShippingStatusAtDestination, f.w.invoices[f.invoices[1]].ShippingStatus)
	assert.Equal(t, entity.ShippingStatusMissing, f.w.invoices[f.invoices[2]].ShippingStatus)
	assert.Equal(t, entity.VehicleStatusAvailable, f.w.vehicles[f.vehicle].Status)

	_, err = f.uc.Receive(context.Background(), f.destActor(), d.ID, dto.ReceiveDispatchRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict, "no se recibe dos veces")
}

func TestReceive_OtraOficinaNoVeElDespacho(t *testing.T) {
	f := newFixture(1)
	d := f.create(t)

	_, err := f.uc.Receive(context.Background(), f.originActor(), d.ID, dto.ReceiveDispatchRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_FacturaAjenaAlDespacho(t *testing.T) {
	f := newFixture(1)
	d := f.create(t)

	_, err := f.uc.Receive(context.Background(), f.destActor(), d.ID, dto.ReceiveDispatchRequest{
		VerifiedInvoiceIDs: []string{uuid.New().String()},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.DispatchStatusInTransit, f.w.dispatches[d.ID].Status)
}

func TestList(t *testing.T) {
	f := newFixture(1)
	f.create(t)
	list, err := f.uc.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
