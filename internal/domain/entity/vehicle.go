package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del vehículo.
const (
	VehicleStatusAvailable   = "Disponible"
	VehicleStatusOnRoute     = "En Ruta"
	VehicleStatusMaintenance = "En Mantenimiento"
)

// Vehicle unidad de transporte de un asociado.
type Vehicle struct {
	ID             string
	AsociadoID     string
	Placa          string
	Modelo         string
	Ano            int
	CapacidadCarga decimal.Decimal
	Driver         string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
