package repository

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para los datos fiscales del emisor.
type CompanyRepository interface {
	// Get devuelve nil, nil si aún no se registraron los datos fiscales.
	Get(ctx context.Context) (*entity.CompanyInfo, error)
	Upsert(ctx context.Context, info *entity.CompanyInfo) error
}
