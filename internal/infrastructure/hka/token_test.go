package hka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/encomiendas-api/internal/infrastructure/hka"
)

func TestMemoryTokenStore_Vencimiento(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	s := hka.NewMemoryTokenStore(func() time.Time { return now })
	ctx := context.Background()

	_, ok, err := s.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "vacío al inicio")

	require.NoError(t, s.Set(ctx, "abc", 50*time.Minute))
	tok, ok, _ := s.Get(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	now = now.Add(50 * time.Minute)
	_, ok, _ = s.Get(ctx)
	assert.False(t, ok, "al cumplirse el TTL el token ya no es válido")

	require.NoError(t, s.Set(ctx, "def", time.Hour))
	require.NoError(t, s.Clear(ctx))
	_, ok, _ = s.Get(ctx)
	assert.False(t, ok)
}

// brokenStore simula una caché externa caída.
type brokenStore struct{}

func (brokenStore) Get(context.Context) (string, bool, error) {
	return "", false, errors.New("conexión rechazada")
}
func (brokenStore) Set(context.Context, string, time.Duration) error { return errors.New("conexión rechazada") }
func (brokenStore) Clear(context.Context) error                      { return errors.New("conexión rechazada") }

func TestTokenProvider_CacheCaidaAutenticaSiempre(t *testing.T) {
	calls := 0
	p := hka.NewTokenProvider(brokenStore{}, time.Hour, func(context.Context) (string, error) {
		calls++
		return "tok", nil
	}, nil)

	for i := 0; i < 3; i++ {
		tok, err := p.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	}
	assert.Equal(t, 3, calls, "sin caché cada llamada autentica, pero no falla")
	p.Invalidate(context.Background())
}

func TestTokenProvider_ErrorDeAutenticacion(t *testing.T) {
	fail := errors.New("credenciales inválidas")
	p := hka.NewTokenProvider(hka.NewMemoryTokenStore(nil), time.Hour, func(context.Context) (string, error) {
		return "", fail
	}, nil)

	_, err := p.Token(context.Background())
	assert.ErrorIs(t, err, fail)
}

func TestTokenProvider_TokenVacioEsError(t *testing.T) {
	p := hka.NewTokenProvider(hka.NewMemoryTokenStore(nil), time.Hour, func(context.Context) (string, error) {
		return "", nil
	}, nil)
	_, err := p.Token(context.Background())
	assert.Error(t, err)
}

func TestTokenProvider_InvalidateFuerzaRenovacion(t *testing.T) {
	calls := 0
	p := hka.NewTokenProvider(hka.NewMemoryTokenStore(nil), time.Hour, func(context.Context) (string, error) {
		calls++
		return "tok", nil
	}, nil)
	ctx := context.Background()

	_, _ = p.Token(ctx)
	_, _ = p.Token(ctx)
	assert.Equal(t, 1, calls)

	p.Invalidate(ctx)
	_, _ = p.Token(ctx)
	assert.Equal(t, 2, calls)
}
