// Package catalogapi adaptador HTTP del API REST del catálogo. Implementa ports.CatalogGateway
// con net/http: JSON, token de servicio, timeout por petición y sin reintentos.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/ports"
	"github.com/jhoicas/product-editor/internal/domain"
)

// Verificar en tiempo de compilación que Client implementa CatalogGateway.
var _ ports.CatalogGateway = (*Client)(nil)

// Config parámetros del cliente.
type Config struct {
	BaseURL      string
	Token        string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Client cliente del API de catálogo.
type Client struct {
	baseURL    string
	token      string
	maxBody    int64
	httpClient *http.Client
	log        zerolog.Logger
}

// New construye el cliente. Timeout<=0 usa 15 s; MaxBodyBytes<=0 usa 4 MiB.
func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		maxBody:    cfg.MaxBodyBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do ejecuta la petición y decodifica la respuesta 2xx en out (si no es nil).
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	u := c.baseURL + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("catálogo: serializar %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("catálogo: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("catálogo: %s %s: timeout o cancelación: %w", method, path, ctx.Err())
		}
		return fmt.Errorf("catálogo: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return fmt.Errorf("catálogo: leer respuesta: %w", err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("llamada al catálogo")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeData(raw, out); err != nil {
		return fmt.Errorf("catálogo: %s %s: %w", method, path, err)
	}
	return nil
}

// validationBody respuesta 422: {"message": "...", "errors": {"campo": ["msg", ...]}}.
type validationBody struct {
	Message string                     `json:"message"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func statusError(status int, raw []byte) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity:
		var vb validationBody
		if err := json.Unmarshal(raw, &vb); err != nil {
			return &domain.ValidationError{Message: strings.TrimSpace(string(raw))}
		}
		fields := make(map[string][]string, len(vb.Errors))
		for field, msgs := range vb.Errors {
			fields[field] = messages(msgs)
		}
		return &domain.ValidationError{Message: vb.Message, Fields: fields}
	default:
		body := strings.TrimSpace(string(raw))
		if len(body) > 512 {
			body = body[:512]
		}
		return &domain.UpstreamError{Status: status, Body: body}
	}
}

// messages acepta ["a","b"] o "a".
func messages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	return []string{strings.TrimSpace(string(raw))}
}

// decodeData decodifica el cuerpo aceptando el envoltorio {"data": ...}. Los números se
// conservan como json.Number.
func decodeData(raw []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
			trimmed = envelope.Data
		}
	}
	return decodeJSON(trimmed, out)
}

func decodeJSON(raw []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decodificar respuesta: %w", err)
	}
	return nil
}
