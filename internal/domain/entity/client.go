package entity

import "time"

// Client remitente o destinatario de encomiendas. Se identifica por cédula/RIF (IDNumber, único).
type Client struct {
	ID         string
	IDNumber   string // cédula o RIF tal como lo captura la taquilla (V-12345678, J-50123456-7)
	ClientType string // natural, juridico
	Name       string
	Phone      string
	Address    string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
