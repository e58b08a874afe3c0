package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/encomiendas-api/internal/application/dto"
	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/internal/domain/entity"
	"github.com/jhoicas/encomiendas-api/internal/domain/repository"
)

// OfficeUseCase alta y consulta de oficinas (taquillas).
type OfficeUseCase struct {
	repo repository.OfficeRepository
}

// NewOfficeUseCase construye el caso de uso.
func NewOfficeUseCase(repo repository.OfficeRepository) *OfficeUseCase {
	return &OfficeUseCase{repo: repo}
}

// Create registra una oficina con sus correlativos en cero. El código se guarda en mayúsculas;
// código repetido -> domain.ErrDuplicate. Sin código la oficina existe pero no puede facturar.
func (uc *OfficeUseCase) Create(ctx context.Context, in dto.CreateOfficeRequest) (*dto.OfficeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	office := &entity.Office{
		Code:    strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
	}
	if err := uc.repo.Create(ctx, office); err != nil {
		return nil, err
	}
	return toOfficeResponse(office), nil
}

// GetByID obtiene una oficina por ID.
func (uc *OfficeUseCase) GetByID(ctx context.Context, id string) (*dto.OfficeResponse, error) {
	office, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if office == nil {
		return nil, fmt.Errorf("oficina %s: %w", id, domain.ErrNotFound)
	}
	return toOfficeResponse(office), nil
}

// List lista todas las oficinas ordenadas por nombre.
func (uc *OfficeUseCase) List(ctx context.Context) ([]dto.OfficeResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OfficeResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOfficeResponse(o))
	}
	return items, nil
}

func toOfficeResponse(o *entity.Office) *dto.OfficeResponse {
	return &dto.OfficeResponse{
		ID:                   o.ID,
		Code:                 o.Code,
		Name:                 o.Name,
		Address:              o.Address,
		Phone:                o.Phone,
		LastInvoiceNumber:    o.LastInvoiceNumber,
		LastCreditNoteNumber: o.LastCreditNoteNumber,
		LastDebitNoteNumber:  o.LastDebitNoteNumber,
		LastDispatchNumber:   o.LastDispatchNumber,
		CreatedAt:            o.CreatedAt,
	}
}
