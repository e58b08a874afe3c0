package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y consulta del usuario actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT con los permisos del rol y retorna token + usuario.
// Email inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	role, err := uc.role(ctx, user)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user, role)
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:      user.ID,
		OfficeID:    user.OfficeID,
		Name:        user.Name,
		Role:        resp.Role,
		Permissions: resp.Permissions,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{Token: token, User: *resp}, nil
}

// Me devuelve el usuario autenticado con los permisos vigentes de su rol.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("usuario %s: %w", userID, domain.ErrNotFound)
	}
	role, err := uc.role(ctx, user)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user, role), nil
}

func (uc *AuthUseCase) role(ctx context.Context, user *entity.User) (*entity.Role, error) {
	role, err := uc.userRepo.GetRole(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.NewConfigurationError("el usuario %s no tiene un rol válido", user.Email)
	}
	return role, nil
}

func toUserResponse(u *entity.User, role *entity.Role) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		OfficeID:    u.OfficeID,
		Role:        role.Name,
		Permissions: role.Granted(),
	}
}
