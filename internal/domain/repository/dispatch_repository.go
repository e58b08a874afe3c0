package repository

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// DispatchRepository define el puerto de persistencia para Dispatch.
type DispatchRepository interface {
	Create(ctx context.Context, d *entity.Dispatch) error
	GetByID(ctx context.Context, id string) (*entity.Dispatch, error)
	// GetForUpdate bloquea la fila del despacho hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Dispatch, error)
	MarkReceived(ctx context.Context, d *entity.Dispatch) error
	List(ctx context.Context, limit, offset int) ([]*entity.Dispatch, error)
}
