package repository

import (
	"context"

	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User y Role.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetRole(ctx context.Context, roleID string) (*entity.Role, error)
	CreateRole(ctx context.Context, role *entity.Role) error
}
