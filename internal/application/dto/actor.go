package dto

// Actor usuario autenticado que ejecuta la operación (sale del JWT).
type Actor struct {
	UserID   string
	Name     string
	OfficeID string
}
