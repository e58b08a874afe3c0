package entity

import (
	"sort"
	"time"
)

// Claves de permiso asignables a un rol.
const (
	PermInvoicesView         = "invoices.view"
	PermInvoicesCreate       = "invoices.create"
	PermInvoicesEdit         = "invoices.edit"
	PermInvoicesChangeStatus = "invoices.changeStatus"
	PermInvoicesVoid         = "invoices.void"
	PermDispatch             = "flota.dispatch"
	PermFlotaView            = "flota.view"
	PermFlotaEdit            = "flota.edit"
	PermOfficesView          = "offices.view"
	PermOfficesEdit          = "offices.edit"
	PermCompanyEdit          = "config.company.edit"
)

// AllPermissions catálogo completo (rol administrador).
var AllPermissions = []string{
	PermInvoicesView, PermInvoicesCreate, PermInvoicesEdit, PermInvoicesChangeStatus, PermInvoicesVoid,
	PermDispatch, PermFlotaView, PermFlotaEdit, PermOfficesView, PermOfficesEdit, PermCompanyEdit,
}

// Role rol con su mapa de permisos.
type Role struct {
	ID          string
	Name        string
	Permissions map[string]bool
}

// Granted devuelve las claves concedidas, ordenadas.
func (r *Role) Granted() []string {
	out := make([]string, 0, len(r.Permissions))
	for k, ok := range r.Permissions {
		if ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// User usuario del back office, asignado a una oficina.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	RoleID       string
	OfficeID     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
