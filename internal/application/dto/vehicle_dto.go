package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVehicleRequest entrada para registrar un vehículo.
type CreateVehicleRequest struct {
	AsociadoID     string          `json:"asociado_id" validate:"omitempty,uuid"`
	Placa          string          `json:"placa" validate:"required,max=15"`
	Modelo         string          `json:"modelo" validate:"max=80"`
	Ano            int             `json:"ano" validate:"omitempty,min=1950,max=2100"`
	CapacidadCarga decimal.Decimal `json:"capacidad_carga"`
	Driver         string          `json:"driver" validate:"max=120"`
}

// VehicleResponse vehículo registrado.
type VehicleResponse struct {
	ID             string          `json:"id"`
	AsociadoID     string          `json:"asociado_id,omitempty"`
	Placa          string          `json:"placa"`
	Modelo         string          `json:"modelo"`
	Ano            int             `json:"ano"`
	CapacidadCarga decimal.Decimal `json:"capacidad_carga"`
	Driver         string          `json:"driver"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}
