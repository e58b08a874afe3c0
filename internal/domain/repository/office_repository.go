package repository

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// OfficeRepository define el puerto de persistencia para Office y sus correlativos.
type OfficeRepository interface {
	Create(ctx context.Context, office *entity.Office) error
	GetByID(ctx context.Context, id string) (*entity.Office, error)
	List(ctx context.Context) ([]*entity.Office, error)
	// GetForUpdate obtiene la oficina bloqueando la fila (SELECT ... FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Office, error)
	// UpdateCounters escribe los cuatro correlativos de la oficina.
	UpdateCounters(ctx context.Context, office *entity.Office) error
}
