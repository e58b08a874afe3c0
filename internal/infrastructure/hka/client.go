package hka

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/encomiendas-api/internal/domain"
	"github.com/jhoicas/encomiendas-api/pkg/logger"
)

const maxResponseBytes = 1 << 20 // 1 MB

// ClientConfig parámetros de conexión con The Factory HKA.
type ClientConfig struct {
	BaseURL  string // .../api
	Usuario  string
	Clave    string
	Timeout  time.Duration
	TokenTTL time.Duration
}

// Client cliente HTTP del API de emisión. Es seguro para uso concurrente.
// Las emisiones nunca se reintentan: un rechazo o timeout se devuelve al llamador.
type Client struct {
	baseURL    string
	usuario    string
	clave      string
	httpClient *http.Client
	tokens     *TokenProvider
	log        *logger.Logger
}

// NewClient construye el cliente. store nil = token en memoria del proceso.
func NewClient(cfg ClientConfig, store TokenStore, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	if store == nil {
		store = NewMemoryTokenStore(nil)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 50 * time.Minute
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		usuario:    cfg.Usuario,
		clave:      cfg.Clave,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	c.tokens = NewTokenProvider(store, ttl, c.Authenticate, log)
	return c
}

// Authenticate solicita un token nuevo (POST /Autenticacion) sin pasar por la caché.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	if c.usuario == "" || c.clave == "" {
		return "", domain.NewConfigurationError("credenciales de HKA no configuradas (HKA_USUARIO / HKA_CLAVE)")
	}
	status, body, err := c.post(ctx, "/Autenticacion", "", authRequest{Usuario: c.usuario, Clave: c.clave})
	if err != nil {
		return "", err
	}
	var resp authResponse
	env := decode(body, &resp, &resp.envelope)
	if !success(status, env) || resp.Token == "" {
		pe := newProviderError(status, body, env)
		if success(status, env) {
			pe.Message = firstNonEmpty(resp.Mensaje, resp.Error, "HKA no devolvió token de autenticación")
		}
		c.log.Warn().Int("status", status).Str("mensaje", pe.Message).Msg("hka: autenticación rechazada")
		return "", pe
	}
	c.log.Debug().Msg("hka: token renovado")
	return resp.Token, nil
}

// Emit transmite el documento (POST /Emision).
func (c *Client) Emit(ctx context.Context, doc *Document) (*EmissionResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("hka: documento nulo")
	}
	var resp emissionResponse
	if err := c.call(ctx, "/Emision", EmissionRequest{DocumentoElectronico: *doc}, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	result := &EmissionResult{
		Code:    string(resp.Codigo),
		Message: firstNonEmpty(resp.Mensaje, "Documento procesado"),
		Raw:     resp.Resultado,
	}
	if len(resp.Resultado) > 0 {
		var r emissionResultado
		if err := json.Unmarshal(resp.Resultado, &r); err == nil {
			result.NumeroControl = r.NumeroControl
			result.TransaccionID = r.TransaccionID
		}
	}
	return result, nil
}

// Void anula un documento ya emitido (POST /Anular). Devuelve el mensaje del proveedor.
func (c *Client) Void(ctx context.Context, req VoidRequest) (string, error) {
	var resp envelope
	if err := c.call(ctx, "/Anular", req, &resp, &resp); err != nil {
		return "", err
	}
	return firstNonEmpty(resp.Mensaje, "Documento anulado"), nil
}

// Download descarga la representación PDF o XML de un documento (POST /DescargaArchivo).
func (c *Client) Download(ctx context.Context, req DownloadRequest) ([]byte, error) {
	var resp downloadResponse
	if err := c.call(ctx, "/DescargaArchivo", req, &resp, &resp.envelope); err != nil {
		return nil, err
	}
	if resp.Archivo == "" {
		return nil, &domain.ProviderError{StatusCode: http.StatusOK, Code: string(resp.Codigo), Message: firstNonEmpty(resp.Mensaje, "HKA no devolvió el archivo")}
	}
	data, err := base64.StdEncoding.DecodeString(resp.Archivo)
	if err != nil {
		return nil, fmt.Errorf("hka: decodificar archivo: %w", err)
	}
	return data, nil
}

// ── transporte ────────────────────────────────────────────────────────────────

// call envía una petición autenticada y decodifica la respuesta en out (env apunta a su envelope).
func (c *Client) call(ctx context.Context, path string, payload, out any, env *envelope) error {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	status, body, err := c.post(ctx, path, tok, payload)
	if err != nil {
		return err
	}
	parsed := decode(body, out, env)
	if unauthorized(status, parsed) {
		c.tokens.Invalidate(ctx)
	}
	if !success(status, parsed) {
		pe := newProviderError(status, body, parsed)
		c.log.Warn().Str("path", path).Int("status", status).Str("codigo", pe.Code).Str("mensaje", pe.Message).Msg("hka: documento rechazado")
		return pe
	}
	if parsed == nil && len(bytes.TrimSpace(body)) > 0 {
		return fmt.Errorf("hka: respuesta no JSON de %s", path)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, token string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("hka: serializar petición: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("hka: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, &domain.ProviderError{Message: "tiempo de espera agotado con HKA: " + ctx.Err().Error()}
		}
		var urlErr interface{ Timeout() bool }
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return 0, nil, &domain.ProviderError{Message: "tiempo de espera agotado con HKA"}
		}
		return 0, nil, &domain.ProviderError{Message: "no se pudo contactar a HKA: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("hka: leer respuesta: %w", err)
	}
	return resp.StatusCode, body, nil
}

// decode llena out y devuelve env si el cuerpo es JSON válido para out; nil en otro caso.
func decode(body []byte, out any, env *envelope) *envelope {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil
	}
	return env
}
