package entity

import "time"

// CompanyInfo datos fiscales del emisor (registro único). Son los que viajan en el bloque Emisor.
type CompanyInfo struct {
	RIF       string // J-50123456-7
	Name      string // razón social
	Address   string
	Phone     string
	Email     string
	UpdatedAt time.Time
}
