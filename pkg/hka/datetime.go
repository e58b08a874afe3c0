package hka

import (
	"fmt"
	"time"
	_ "time/tzdata" // zona America/Caracas aunque la imagen no traiga zoneinfo
)

// DefaultTimezone zona horaria de emisión de los documentos.
const DefaultTimezone = "America/Caracas"

// LoadLocation carga la zona horaria de emisión; vacío = DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("hka: zona horaria %q: %w", name, err)
	}
	return loc, nil
}

// FormatDate formato dd/MM/yyyy de FechaEmision y FechaFacturaAfectada.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatTime formato hh:mm:ss am|pm (12 horas) de HoraEmision.
func FormatTime(t time.Time) string {
	return t.Format("03:04:05 pm")
}
