package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// VehicleUseCase alta y consulta de la flota.
type VehicleUseCase struct {
	repo repository.VehicleRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo}
}

// Create registra un vehículo disponible. Placa repetida -> domain.ErrDuplicate.
func (uc *VehicleUseCase) Create(ctx context.Context, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.CapacidadCarga.IsNegative() {
		return nil, domain.NewValidationError("capacidad_carga: no puede ser negativa")
	}
	v := &entity.Vehicle{
		AsociadoID:     in.AsociadoID,
		Placa:          strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(in.Placa), " ", "")),
		Modelo:         strings.TrimSpace(in.Modelo),
		Ano:            in.Ano,
		CapacidadCarga: in.CapacidadCarga,
		Driver:         strings.TrimSpace(in.Driver),
		Status:         entity.VehicleStatusAvailable,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// GetByID obtiene un vehículo por ID.
func (uc *VehicleUseCase) GetByID(ctx context.Context, id string) (*dto.VehicleResponse, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("vehículo %s: %w", id, domain.ErrNotFound)
	}
	return toVehicleResponse(v), nil
}

// List lista la flota.
func (uc *VehicleUseCase) List(ctx context.Context) ([]dto.VehicleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return items, nil
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:             v.ID,
		AsociadoID:     v.AsociadoID,
		Placa:          v.Placa,
		Modelo:         v.Modelo,
		Ano:            v.Ano,
		CapacidadCarga: v.CapacidadCarga,
		Driver:         v.Driver,
		Status:         v.Status,
		CreatedAt:      v.CreatedAt,
	}
}
