package repository

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByIDNumber(ctx context.Context, idNumber string) (*entity.Client, error)
}
