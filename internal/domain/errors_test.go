package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/encomiendas-api/internal/domain"
)

func TestErroresTipados_EnvuelvenSentinel(t *testing.T) {
	cfgErr := fmt.Errorf("emitir: %w", domain.NewConfigurationError("la oficina %s no tiene código", "of-1"))
	assert.True(t, errors.Is(cfgErr, domain.ErrConfiguration))
	assert.Equal(t, "emitir: la oficina of-1 no tiene código", cfgErr.Error())

	valErr := domain.NewValidationError("sender.idNumber requerido", "receiver.name requerido")
	assert.True(t, errors.Is(valErr, domain.ErrInvalidInput))
	assert.Equal(t, "datos inválidos: sender.idNumber requerido; receiver.name requerido", valErr.Error())

	var pe *domain.ProviderError
	provErr := fmt.Errorf("hka: %w", &domain.ProviderError{StatusCode: 400, Message: "Validación: Serie inválida"})
	assert.True(t, errors.Is(provErr, domain.ErrProvider))
	assert.True(t, errors.As(provErr, &pe))
	assert.Equal(t, "Validación: Serie inválida", pe.Message, "el mensaje del proveedor no se reescribe")

	assert.True(t, errors.Is(domain.NewConflictError("ya enviada"), domain.ErrConflict))
}
