package dto

import "time"

// UpdateCompanyRequest datos fiscales del emisor (PUT /api/company).
type UpdateCompanyRequest struct {
	RIF     string `json:"rif" validate:"required,max=20"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"max=40"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse datos fiscales registrados.
type CompanyResponse struct {
	RIF       string    `json:"rif"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}
