package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
	"github.com/jhoicas/encomiendas-api/pkg/hka"
)

// CompanyUseCase administra los datos fiscales del emisor (registro único).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Get devuelve los datos fiscales. ErrNotFound si aún no se registraron.
func (uc *CompanyUseCase) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	c, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("datos de la empresa: %w", domain.ErrNotFound)
	}
	return toCompanyResponse(c), nil
}

// Update reemplaza los datos fiscales. El RIF se valida con las mismas reglas del bloque Emisor.
func (uc *CompanyUseCase) Update(ctx context.Context, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rif := strings.ToUpper(strings.TrimSpace(in.RIF))
	if _, _, err := hka.ParseRIF(rif); err != nil {
		return nil, domain.NewValidationError("rif: " + err.Error())
	}
	c := &entity.CompanyInfo{
		RIF:     rif,
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.TrimSpace(in.Email),
	}
	if err := uc.repo.Upsert(ctx, c); err != nil {
		return nil, err
	}
	return toCompanyResponse(c), nil
}

func toCompanyResponse(c *entity.CompanyInfo) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		RIF:       c.RIF,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		UpdatedAt: c.UpdatedAt,
	}
}
