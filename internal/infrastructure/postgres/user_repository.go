package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usuarios y roles).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, name, email, password_hash, role_id::text, COALESCE(office_id::text, ''), active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.OfficeID, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. Email duplicado -> domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	query := `
		INSERT INTO users (id, name, email, password_hash, role_id, office_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.RoleID, nullIfEmpty(user.OfficeID), user.Active,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail obtiene un usuario por email. nil, nil si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID. nil, nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetRole obtiene el rol con su mapa de permisos. nil, nil si no existe.
func (r *UserRepo) GetRole(ctx context.Context, roleID string) (*entity.Role, error) {
	var role entity.Role
	var perms []byte
	err := r.q.QueryRow(ctx, `SELECT id, name, permissions FROM roles WHERE id = $1`, roleID).Scan(&role.ID, &role.Name, &perms)
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	role.Permissions = map[string]bool{}
	if len(perms) > 0 {
		if err := json.Unmarshal(perms, &role.Permissions); err != nil {
			return nil, fmt.Errorf("decode role permissions: %w", err)
		}
	}
	return &role, nil
}

// CreateRole persiste un rol. Nombre duplicado -> domain.ErrDuplicate.
func (r *UserRepo) CreateRole(ctx context.Context, role *entity.Role) error {
	if role.ID == "" {
		role.ID = uuid.New().String()
	}
	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode role permissions: %w", err)
	}
	_, err = r.q.Exec(ctx, `INSERT INTO roles (id, name, permissions) VALUES ($1, $2, $3)`, role.ID, role.Name, perms)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rol %s: %w", role.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}
