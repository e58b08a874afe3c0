package hka

import (
	"fmt"
	"strings"
	"unicode"
)

// placeholderIDNumber se envía cuando la identificación del comprador no trae dígitos.
const placeholderIDNumber = "00000000"

// NormalizeBuyerID descompone la identificación del comprador de forma tolerante.
// El primer carácter (en mayúscula) es el tipo si es V, E, J, G, P o C; en otro caso se asume V.
// El número son solo los dígitos; sin dígitos se usa "00000000".
//
//	"J-12345678-9" → ("J", "123456789")
//	"12.345.678"   → ("V", "12345678")
//	""             → ("V", "00000000")
func NormalizeBuyerID(raw string) (idType, number string) {
	raw = strings.TrimSpace(raw)
	idType = IDTypeVenezolano
	if raw != "" {
		first := strings.ToUpper(raw[:1])
		if ValidIDTypes[first] {
			idType = first
		}
	}
	number = ExtractDigits(raw)
	if number == "" {
		number = placeholderIDNumber
	}
	return idType, number
}

// ParseRIF descompone el RIF del emisor de forma estricta: prefijo válido y entre 8 y 10 dígitos.
// "J-50123456-7" → ("J", "501234567").
func ParseRIF(rif string) (idType, number string, err error) {
	rif = strings.TrimSpace(rif)
	if rif == "" {
		return "", "", fmt.Errorf("hka: RIF vacío")
	}
	idType = strings.ToUpper(rif[:1])
	if !ValidIDTypes[idType] {
		return "", "", fmt.Errorf("hka: prefijo de RIF inválido %q", rif[:1])
	}
	number = ExtractDigits(rif)
	if len(number) < 8 || len(number) > 10 {
		return "", "", fmt.Errorf("hka: el RIF debe tener entre 8 y 10 dígitos, se encontraron %d", len(number))
	}
	return idType, number, nil
}

// ExtractDigits devuelve solo los dígitos ASCII de s.
func ExtractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
