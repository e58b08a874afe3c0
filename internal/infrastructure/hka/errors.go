package hka

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/encomiendas-api/internal/domain"
)

const maxRawMessage = 512

// providerMessage extrae el mensaje legible de una respuesta del proveedor, en orden:
// mensaje, validaciones ("Validación: a; b"), errors (JSON), error, cuerpo en texto y por último el status HTTP.
func providerMessage(status int, body []byte, env *envelope) string {
	if env != nil {
		if m := strings.TrimSpace(env.Mensaje); m != "" {
			return m
		}
		if len(env.Validaciones) > 0 {
			parts := make([]string, 0, len(env.Validaciones))
			for _, v := range env.Validaciones {
				parts = append(parts, rawText(v))
			}
			return "Validación: " + strings.Join(parts, "; ")
		}
		if e := bytes.TrimSpace(env.Errors); len(e) > 0 && !bytes.Equal(e, []byte("null")) {
			var compact bytes.Buffer
			if err := json.Compact(&compact, e); err == nil {
				return compact.String()
			}
			return string(e)
		}
		if m := strings.TrimSpace(env.Error); m != "" {
			return m
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !json.Valid(body) {
		return truncateRunes(text, maxRawMessage)
	}
	return fmt.Sprintf("HKA respondió HTTP %d", status)
}

// truncateRunes corta s a lo sumo en max bytes sin partir un carácter UTF-8.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// rawText devuelve el texto de una validación: sin comillas si es string JSON, el JSON tal cual si no.
func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// success indica si la respuesta es exitosa: HTTP 2xx y codigo vacío o 200.
func success(status int, env *envelope) bool {
	if status < 200 || status > 299 {
		return false
	}
	if env == nil {
		return true
	}
	code := strings.TrimSpace(string(env.Codigo))
	return code == "" || code == "200"
}

// newProviderError construye el error de dominio con el mensaje del proveedor sin reescribir.
func newProviderError(status int, body []byte, env *envelope) *domain.ProviderError {
	pe := &domain.ProviderError{StatusCode: status, Message: providerMessage(status, body, env)}
	if env != nil {
		pe.Code = string(env.Codigo)
	}
	return pe
}

// unauthorized indica que el proveedor rechazó el token.
func unauthorized(status int, env *envelope) bool {
	if status == 401 {
		return true
	}
	return env != nil && strings.TrimSpace(string(env.Codigo)) == "401"
}
