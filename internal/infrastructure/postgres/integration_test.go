//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/encomiendas-api/internal/application/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	rules "github.com/jhoicas/encomiendas-api/internal/domain/billing"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/internal/infrastructure/postgres"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica las migraciones y devuelve un pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("encomiendas_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor de PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.OpenPool(ctx, dsn, false)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createOffice(t *testing.T, pool *pgxpool.Pool, code string) *entity.Office {
	t.Helper()
	o := &entity.Office{Code: code, Name: "Oficina " + code}
	require.NoError(t, postgres.NewOfficeRepository(pool).Create(context.Background(), o))
	return o
}

func TestIssueNextNumber_ConcurrenteSinHuecos(t *testing.T) {
	pool := newTestPool(t)
	a := createOffice(t, pool, "A")
	b := createOffice(t, pool, "B")
	svc := billing.NewNumberingService(postgres.NewTxRunner(pool))

	const n = 20
	var mu sync.Mutex
	got := map[string][]string{}
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		for _, office := range []*entity.Office{a, b} {
			office := office
			g.Go(func() error {
				num, ctl, err := svc.IssueNextNumber(ctx, office.ID)
				if err != nil {
					return err
				}
				mu.Lock()
				got[office.ID] = append(got[office.ID], num+"|"+ctl)
				mu.Unlock()
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	for _, office := range []*entity.Office{a, b} {
		nums := got[office.ID]
		sort.Strings(nums)
		require.Len(t, nums, n)
		for i, v := range nums {
			assert.Equal(t, fmt.Sprintf("%s-%06d|%08d", office.Code, i+1, i+1), v)
		}
		stored, err := postgres.NewOfficeRepository(pool).GetByID(context.Background(), office.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(n), stored.LastInvoiceNumber, "el contador queda en el último emitido")
	}
}

func TestIssueNextNumber_SinCodigoHaceRollback(t *testing.T) {
	pool := newTestPool(t)
	office := createOffice(t, pool, "")
	svc := billing.NewNumberingService(postgres.NewTxRunner(pool))

	_, _, err := svc.IssueNextNumber(context.Background(), office.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	stored, err := postgres.NewOfficeRepository(pool).GetByID(context.Background(), office.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Code)
	assert.Equal(t, int64(0), stored.LastInvoiceNumber)
}

func TestTxRunner_ErrorRevierteLaTransaccion(t *testing.T) {
	pool := newTestPool(t)
	office := createOffice(t, pool, "C")
	runner := postgres.NewTxRunner(pool)
	boom := fmt.Errorf("falla posterior")

	err := runner.RunInvoicing(context.Background(), func(offices repository.OfficeRepository, clients repository.ClientRepository, _ repository.InvoiceRepository) error {
		if _, _, err := billing.IssueInTx(context.Background(), offices, office.ID, rules.SeriesInvoice); err != nil {
			return err
		}
		if err := clients.Create(context.Background(), &entity.Client{IDNumber: "V-1", Name: "Ana"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, _ := postgres.NewOfficeRepository(pool).GetByID(context.Background(), office.ID)
	assert.Equal(t, int64(0), stored.LastInvoiceNumber)
	c, err := postgres.NewClientRepository(pool).GetByIDNumber(context.Background(), "V-1")
	require.NoError(t, err)
	assert.Nil(t, c, "el cliente tampoco queda")
}

func TestInvoiceRepo_GuiaYDespacho(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	office := createOffice(t, pool, "A")
	dest := createOffice(t, pool, "B")
	invoices := postgres.NewInvoiceRepository(pool)

	inv := &entity.Invoice{
		OfficeID:       office.ID,
		InvoiceNumber:  "A-000001",
		ControlNumber:  "00000001",
		Date:           time.Now(),
		ClientName:     "María Pérez",
		ClientIDNumber: "V-12345678",
		Guide: entity.Guide{
			Sender:      entity.Party{IDNumber: "V-12345678", Name: "María Pérez"},
			Receiver:    entity.Party{IDNumber: "V-87654321", Name: "José"},
			Merchandise: []entity.MerchandiseItem{{Quantity: decimal.NewFromInt(2), Weight: decimal.RequireFromString("4.5")}},
		},
		Charges:        entity.Charges{Freight: decimal.NewFromInt(800)},
		TotalAmount:    decimal.NewFromInt(800),
		Status:         entity.InvoiceStatusActive,
		PaymentStatus:  entity.PaymentStatusPending,
		ShippingStatus: entity.ShippingStatusPending,
		HKAStatus:      entity.HKAStatusPending,
	}
	require.NoError(t, invoices.Create(ctx, inv))

	dup := *inv
	dup.ID = ""
	dup.ControlNumber = "00000002"
	assert.ErrorIs(t, invoices.Create(ctx, &dup), domain.ErrDuplicate)

	got, err := invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "José", got.Guide.Receiver.Name)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(800)))
	assert.False(t, got.ExchangeRate.Valid)

	vehicle := &entity.Vehicle{Placa: "A12BC3D", Status: entity.VehicleStatusAvailable}
	require.NoError(t, postgres.NewVehicleRepository(pool).Create(ctx, vehicle))

	moved, err := invoices.MarkInTransit(ctx, []string{inv.ID}, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
	moved, err = invoices.MarkInTransit(ctx, []string{inv.ID}, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), moved, "ya no está pendiente")

	dispatches := postgres.NewDispatchRepository(pool)
	d := &entity.Dispatch{
		DispatchNumber:      "A-D000001",
		Date:                time.Now(),
		VehicleID:           vehicle.ID,
		InvoiceIDs:          []string{inv.ID},
		OriginOfficeID:      office.ID,
		DestinationOfficeID: dest.ID,
		Status:              entity.DispatchStatusInTransit,
	}
	require.NoError(t, dispatches.Create(ctx, d))
	loaded, err := dispatches.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{inv.ID}, loaded.InvoiceIDs)

	list, total, err := invoices.List(ctx, repository.InvoiceFilter{OfficeID: office.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, entity.ShippingStatusInTransit, list[0].ShippingStatus)
	assert.Equal(t, vehicle.ID, list[0].VehicleID)
}
