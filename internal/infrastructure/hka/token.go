package hka

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

// TokenStore almacén del token de autenticación del proveedor.
// Get devuelve ok=false si no hay token o ya venció.
type TokenStore interface {
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// ── Almacén en memoria ────────────────────────────────────────────────────────

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore almacén del proceso. Las lecturas no toman locks.
type MemoryTokenStore struct {
	cur atomic.Pointer[cachedToken]
	now func() time.Time
}

// NewMemoryTokenStore construye el almacén; now nil = time.Now.
func NewMemoryTokenStore(now func() time.Time) *MemoryTokenStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryTokenStore{now: now}
}

var _ TokenStore = (*MemoryTokenStore)(nil)

func (s *MemoryTokenStore) Get(_ context.Context) (string, bool, error) {
	t := s.cur.Load()
	if t == nil || !s.now().Before(t.expiresAt) {
		return "", false, nil
	}
	return t.value, true, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, token string, ttl time.Duration) error {
	s.cur.Store(&cachedToken{value: token, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.cur.Store(nil)
	return nil
}

// ── Proveedor de token ────────────────────────────────────────────────────────

// TokenProvider entrega un token vigente: lee del almacén y solo autentica cuando falta o venció.
// El mutex serializa únicamente los refrescos; con token vigente no hay espera.
type TokenProvider struct {
	store TokenStore
	ttl   time.Duration
	fetch func(ctx context.Context) (string, error)
	log   *logger.Logger
	mu    sync.Mutex
}

// NewTokenProvider construye el proveedor. ttl debe ser menor que la vigencia real del token.
func NewTokenProvider(store TokenStore, ttl time.Duration, fetch func(ctx context.Context) (string, error), log *logger.Logger) *TokenProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &TokenProvider{store: store, ttl: ttl, fetch: fetch, log: log}
}

// Token devuelve el token vigente, autenticando si hace falta.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if tok, ok := p.cached(ctx); ok {
		return tok, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// otro refresco pudo completarse mientras esperábamos el lock
	if tok, ok := p.cached(ctx); ok {
		return tok, nil
	}
	tok, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", fmt.Errorf("hka: autenticación sin token")
	}
	if err := p.store.Set(ctx, tok, p.ttl); err != nil {
		p.log.Warn().Err(err).Msg("hka: no se pudo guardar el token en caché")
	}
	return tok, nil
}

// Invalidate descarta el token en caché (p.ej. tras un 401); el siguiente Token autentica de nuevo.
func (p *TokenProvider) Invalidate(ctx context.Context) {
	if err := p.store.Clear(ctx); err != nil {
		p.log.Warn().Err(err).Msg("hka: no se pudo invalidar el token en caché")
	}
}

func (p *TokenProvider) cached(ctx context.Context) (string, bool) {
	tok, ok, err := p.store.Get(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("hka: lectura del token en caché falló, se autentica de nuevo")
		return "", false
	}
	return tok, ok
}
