package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrUserNotFound  = errors.New("usuario no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrConfiguration = errors.New("configuración incompleta")
	ErrProvider      = errors.New("error del proveedor fiscal")
)

// ProviderError rechazo o falla del proveedor fiscal. Message es el texto legible que
// devolvió el proveedor y se muestra tal cual al usuario. errors.Is(err, ErrProvider) es verdadero.
type ProviderError struct {
	StatusCode int    // status HTTP de la respuesta (0 si no hubo respuesta)
	Code       string // campo "codigo" del proveedor, si vino
	Message    string
}

func (e *ProviderError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrProvider).
func (e *ProviderError) Unwrap() error { return ErrProvider }

// ConfigurationError falta de datos de configuración que impide emitir documentos
// (código de oficina, datos fiscales de la empresa, credenciales del proveedor).
// errors.Is(err, ErrConfiguration) es verdadero.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// Unwrap permite errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError construye un ConfigurationError con mensaje formateado.
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError lista de campos inválidos de una petición.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return "datos inválidos: " + strings.Join(e.Fields, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError con los campos indicados.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// ConflictError conflicto de estado con un motivo legible. errors.Is(err, ErrConflict) es verdadero.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Unwrap permite errors.Is(err, ErrConflict).
func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewConflictError construye un ConflictError.
func NewConflictError(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
