package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

type invoiceFixture struct {
	store    *memStore
	officeID string
	uc       *billing.InvoiceUseCase
	actor    dto.Actor
}

func newInvoiceFixture(code string) *invoiceFixture {
	s := newMemStore()
	officeID := s.addOffice(code)
	return &invoiceFixture{
		store:    s,
		officeID: officeID,
		uc:       billing.NewInvoiceUseCase(fakeTx{s}, invoiceRepo{s}, noteRepo{s}, nil),
		actor:    dto.Actor{UserID: "u-1", Name: "Taquilla 1", OfficeID: officeID},
	}
}

func createRequest() dto.CreateInvoiceRequest {
	wrongTotal := d("1")
	return dto.CreateInvoiceRequest{
		Sender:   dto.PartyDTO{IDNumber: "V-12345678", Name: "María Pérez", Email: "maria@example.com", Phone: "0414-1112233"},
		Receiver: dto.PartyDTO{IDNumber: "V-87654321", Name: "José Rodríguez", Address: "Calle 5, Maracay"},
		Merchandise: []dto.MerchandiseDTO{
			{Quantity: d("2"), Weight: d("4.5"), Description: "Cajas de repuestos"},
		},
		Freight:     d("800"),
		Handling:    d("100"),
		Insurance:   d("60"),
		Ipostel:     d("30"),
		TotalAmount: &wrongTotal,
	}
}

func TestInvoiceCreate_AsignaNumeroYCalculaTotal(t *testing.T) {
	f := newInvoiceFixture("A")
	in := createRequest()
	in.DiscountPercentage = d("10")

	resp, err := f.uc.Create(context.Background(), f.actor, in)
	require.NoError(t, err)
	assert.Equal(t, "A-000001", resp.InvoiceNumber)
	assert.Equal(t, "00000001", resp.ControlNumber)
	assert.True(t, resp.DiscountAmount.Equal(d("99")), "10% de 990")
	assert.True(t, resp.TotalAmount.Equal(d("891")), "el total enviado por el cliente se ignora: %s", resp.TotalAmount)
	assert.Equal(t, entity.InvoiceStatusActive, resp.Status)
	assert.Equal(t, entity.PaymentStatusPending, resp.PaymentStatus)
	assert.Equal(t, entity.ShippingStatusPending, resp.ShippingStatus)
	assert.Equal(t, entity.HKAStatusPending, resp.HKAStatus)
	assert.Equal(t, "María Pérez", resp.ClientName)
	assert.Equal(t, "maria@example.com", resp.ClientEmail)
	assert.Equal(t, "Taquilla 1", resp.CreatedByName)

	assert.Len(t, f.store.clients, 2, "remitente y destinatario quedan registrados")
	assert.Equal(t, int64(1), f.store.office(f.officeID).LastInvoiceNumber)
}

func TestInvoiceCreate_ReutilizaClientesExistentes(t *testing.T) {
	f := newInvoiceFixture("A")
	_, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.NoError(t, err)
	resp, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.NoError(t, err)

	assert.Equal(t, "A-000002", resp.InvoiceNumber)
	assert.Len(t, f.store.clients, 2)
	assert.Equal(t, f.store.clients["V-12345678"].ID, f.store.invoices[resp.ID].Guide.Sender.ID)
}

func TestInvoiceCreate_OficinaSinCodigoRevierteTodo(t *testing.T) {
	f := newInvoiceFixture("")

	_, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, f.store.clients, "los clientes creados en la transacción se revierten")
	assert.Empty(t, f.store.invoices)
	assert.Equal(t, int64(0), f.store.office(f.officeID).LastInvoiceNumber)
}

func TestInvoiceCreate_Validaciones(t *testing.T) {
	cases := map[string]func(*dto.CreateInvoiceRequest){
		"sin cédula del remitente":  func(r *dto.CreateInvoiceRequest) { r.Sender.IDNumber = "" },
		"sin nombre destinatario":   func(r *dto.CreateInvoiceRequest) { r.Receiver.Name = "" },
		"correo inválido":           func(r *dto.CreateInvoiceRequest) { r.ClientEmail = "no-es-correo" },
		"flete negativo":            func(r *dto.CreateInvoiceRequest) { r.Freight = d("-1") },
		"porcentaje mayor a 100":    func(r *dto.CreateInvoiceRequest) { r.DiscountPercentage = d("120") },
		"cantidad negativa":         func(r *dto.CreateInvoiceRequest) { r.Merchandise[0].Quantity = d("-2") },
		"tasa negativa":             func(r *dto.CreateInvoiceRequest) { r.ExchangeRate = decimal.NewNullDecimal(d("-3")) },
		"descuento mayor al total":  func(r *dto.CreateInvoiceRequest) { r.DiscountAmount = d("5000") },
		"oficina con id inválido":   func(r *dto.CreateInvoiceRequest) { r.OfficeID = "oficina-a" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newInvoiceFixture("A")
			in := createRequest()
			mutate(&in)
			_, err := f.uc.Create(context.Background(), f.actor, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, int64(0), f.store.office(f.officeID).LastInvoiceNumber, "no se consume correlativo")
		})
	}
}

func TestInvoiceCreate_UsuarioSinOficina(t *testing.T) {
	f := newInvoiceFixture("A")
	_, err := f.uc.Create(context.Background(), dto.Actor{Name: "sin oficina"}, createRequest())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceList_OrdenDescendente(t *testing.T) {
	f := newInvoiceFixture("A")
	for i := 0; i < 3; i++ {
		_, err := f.uc.Create(context.Background(), f.actor, createRequest())
		require.NoError(t, err)
	}
	list, err := f.uc.List(context.Background(), dto.InvoiceFilterRequest{PageRequest: dto.PageRequest{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "A-000003", list.Items[0].InvoiceNumber)
	assert.Equal(t, "A-000002", list.Items[1].InvoiceNumber)
	assert.Equal(t, 3, list.Page.Total)
}

func TestInvoiceGet_NoExiste(t *testing.T) {
	f := newInvoiceFixture("A")
	_, err := f.uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }

func TestInvoiceUpdate_RecalculaTotal(t *testing.T) {
	f := newInvoiceFixture("A")
	in := createRequest()
	in.DiscountPercentage = d("10")
	created, err := f.uc.Create(context.Background(), f.actor, in)
	require.NoError(t, err)

	resp, err := f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{Freight: ptr(d("1810"))})
	require.NoError(t, err)
	assert.True(t, resp.DiscountAmount.Equal(d("200")), "el porcentaje se aplica sobre los cargos nuevos: %s", resp.DiscountAmount)
	assert.True(t, resp.TotalAmount.Equal(d("1800")), "total %s", resp.TotalAmount)
}

func TestInvoiceUpdate_Transiciones(t *testing.T) {
	f := newInvoiceFixture("A")
	created, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.NoError(t, err)

	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{ShippingStatus: ptr(entity.ShippingStatusDelivered)})
	assert.ErrorIs(t, err, domain.ErrConflict, "no se entrega sin despachar")

	resp, err := f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{PaymentStatus: ptr(entity.PaymentStatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)

	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{PaymentStatus: ptr(entity.PaymentStatusPending)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoiceUpdate_TasaCongeladaAlPagar(t *testing.T) {
	f := newInvoiceFixture("A")
	created, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.NoError(t, err)

	resp, err := f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{ExchangeRate: ptr(d("36.5"))})
	require.NoError(t, err)
	assert.True(t, resp.ExchangeRate.Valid)
	assert.True(t, resp.ExchangeRate.Decimal.Equal(d("36.5")))

	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{PaymentStatus: ptr(entity.PaymentStatusPaid)})
	require.NoError(t, err)
	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{ExchangeRate: ptr(d("40"))})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoiceUpdate_AceptadaPorHKANoCambiaMontos(t *testing.T) {
	f := newInvoiceFixture("A")
	created, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.NoError(t, err)
	require.NoError(t, invoiceRepo{f.store}.UpdateHKAStatus(context.Background(), created.ID, entity.HKAStatusSent, "OK", nil))

	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{Handling: ptr(d("5"))})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{ExchangeRate: ptr(d("40"))})
	assert.ErrorIs(t, err, domain.ErrConflict)

	resp, err := f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{SpecificDestination: ptr("Galpón 3")})
	require.NoError(t, err, "los campos no fiscales siguen editables")
	assert.Equal(t, "Galpón 3", resp.SpecificDestination)
}

func TestInvoiceUpdate_AnuladaEsInmutable(t *testing.T) {
	f := newInvoiceFixture("A")
	created, err := f.uc.Create(context.Background(), f.actor, createRequest())
	require.NoError(t, err)
	inv := f.store.invoices[created.ID]
	inv.Status = entity.InvoiceStatusVoided
	f.store.invoices[created.ID] = inv

	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateInvoiceRequest{Observations: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
