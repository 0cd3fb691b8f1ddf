package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/pkg/config"
	"github.com/agroventas/appcore/pkg/logger"
	"github.com/agroventas/appcore/pkg/session"
)

// Límite de lectura de cuerpos de respuesta; el API no devuelve nada cercano.
const maxBodyBytes = 1 << 20

// Client cliente HTTP base contra el servidor de agroventas. Los adaptadores
// tipados (InventoryAPI, SalesAPI, CatalogAPI) lo comparten: una sola
// configuración de baseURL, timeout, sesión y logging.
type Client struct {
	baseURL string
	http    *http.Client
	sesion  *session.Session
	log     *logger.Logger
}

// NewClient construye el cliente base. sesion puede ser nil para endpoints
// sin autenticación (stub de desarrollo).
func NewClient(cfg config.APIConfig, sesion *session.Session, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		sesion:  sesion,
		log:     log,
	}
}

// newRequest arma el request con contexto, token y headers. Si el token
// guardado ya expiró se corta aquí con ErrSesionExpirada en lugar de gastar
// un round-trip que el servidor va a rechazar.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("crear request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.sesion != nil {
		if tok := c.sesion.Token(); tok != "" {
			if c.sesion.Expirada() {
				return nil, domain.ErrSesionExpirada
			}
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// do ejecuta el request y devuelve el cuerpo. Respuestas no-2xx se decodifican
// al {code, message} del servidor y se devuelven como RemoteError; si el
// cuerpo no trae ese formato queda el mensaje genérico por status.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, fmt.Errorf("request cancelado: %w", req.Context().Err())
		}
		return nil, fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &domain.RemoteError{StatusCode: resp.StatusCode}
		var errBody dto.ErrorResponse
		if jsonErr := json.Unmarshal(body, &errBody); jsonErr == nil && errBody.Message != "" {
			rerr.Codigo = errBody.Code
			rerr.Mensaje = errBody.Message
		}
		return nil, rerr
	}
	return body, nil
}

// getJSON GET con query params, decodificando a out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("deserializar respuesta de %s: %w", path, err)
	}
	return nil
}

// sendJSON POST/PUT con cuerpo JSON, decodificando a out (out puede ser nil).
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serializar request de %s: %w", path, err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(raw), "application/json")
	if err != nil {
		return err
	}
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("deserializar respuesta de %s: %w", path, err)
	}
	return nil
}
