package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo flota de la cooperativa (usable con pool o tx).
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

const vehicleColumns = `id, asociado_id, placa, modelo, ano, capacidad_carga, driver, status, created_at, updated_at`

func scanVehicle(row interface{ Scan(dest ...any) error }) (*entity.Vehicle, error) {
	var v entity.Vehicle
	if err := row.Scan(&v.ID, &v.AsociadoID, &v.Placa, &v.Modelo, &v.Ano, &v.CapacidadCarga, &v.Driver, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste un vehículo. Placa duplicada -> domain.ErrDuplicate.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	query := `
		INSERT INTO vehicles (id, asociado_id, placa, modelo, ano, capacidad_carga, driver, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, v.ID, v.AsociadoID, v.Placa, v.Modelo, v.Ano, v.CapacidadCarga, v.Driver, v.Status, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("placa %s: %w", v.Placa, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo. nil, nil si no existe.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	v, err := scanVehicle(r.q.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// List devuelve la flota ordenada por placa.
func (r *VehicleRepo) List(ctx context.Context) ([]*entity.Vehicle, error) {
	rows, err := r.q.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY placa`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado operativo del vehículo.
func (r *VehicleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update vehicle status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
