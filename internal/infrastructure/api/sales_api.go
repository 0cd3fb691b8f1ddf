package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesAPI)(nil)

// SalesAPI implementación de SalesRepository sobre el API REST.
type SalesAPI struct {
	c *Client
}

// NewSalesAPI construye el adaptador de ventas y pagos.
func NewSalesAPI(c *Client) *SalesAPI {
	return &SalesAPI{c: c}
}

// ListPendientes lista ventas con saldo pendiente mayor que cero.
func (a *SalesAPI) ListPendientes(ctx context.Context, page repository.Page) ([]entity.Venta, error) {
	page.Normalizar()
	params := url.Values{}
	params.Set("page", strconv.Itoa(page.Page))
	params.Set("per_page", strconv.Itoa(page.PerPage))

	var resp struct {
		Data []entity.Venta `json:"data"`
	}
	if err := a.c.getJSON(ctx, "/ventas/pendientes", params, &resp); err != nil {
		return nil, fmt.Errorf("listar ventas pendientes: %w", err)
	}
	return resp.Data, nil
}

// GetByID obtiene una venta (con su saldo recalculado por el servidor).
func (a *SalesAPI) GetByID(ctx context.Context, id int64) (*entity.Venta, error) {
	var v entity.Venta
	if err := a.c.getJSON(ctx, "/ventas/"+strconv.FormatInt(id, 10), nil, &v); err != nil {
		return nil, fmt.Errorf("obtener venta %d: %w", id, err)
	}
	return &v, nil
}

// pagoLinea forma de cada línea dentro de pagos_json_data. El monto viaja
// como string decimal con dos cifras, igual que lo espera el servidor.
type pagoLinea struct {
	VentaID int64  `json:"venta_id"`
	Monto   string `json:"monto"`
}

// SubmitPaymentBatch envía el lote completo como UN solo request multipart:
// pagos_json_data (JSON de líneas), fecha (timestamp completo), metodo_pago,
// referencia opcional, lote_pago_id y el archivo comprobante. No se parte en
// requests por venta: todas las líneas o ninguna, según la transacción del
// servidor.
func (a *SalesAPI) SubmitPaymentBatch(ctx context.Context, in repository.BatchSubmission) ([]entity.Pago, error) {
	lineas := make([]pagoLinea, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		lineas = append(lineas, pagoLinea{VentaID: l.VentaID, Monto: l.Monto.StringFixed(2)})
	}
	lineasJSON, err := json.Marshal(lineas)
	if err != nil {
		return nil, fmt.Errorf("serializar líneas de pago: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	campos := map[string]string{
		"pagos_json_data": string(lineasJSON),
		"fecha":           in.Fecha.Format(time.RFC3339),
		"metodo_pago":     in.Metodo,
		"lote_pago_id":    in.LoteID.String(),
	}
	if in.Referencia != "" {
		campos["referencia"] = in.Referencia
	}
	for k, v := range campos {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("campo %s del multipart: %w", k, err)
		}
	}

	nombre := in.ComprobanteNombre
	if nombre == "" {
		nombre = "comprobante"
	}
	part, err := writer.CreateFormFile("comprobante", nombre)
	if err != nil {
		return nil, fmt.Errorf("adjuntar comprobante: %w", err)
	}
	if _, err := io.Copy(part, in.Comprobante); err != nil {
		return nil, fmt.Errorf("copiar comprobante: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("cerrar multipart: %w", err)
	}

	req, err := a.c.newRequest(ctx, http.MethodPost, "/pagos/lote", body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	raw, err := a.c.do(req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []entity.Pago `json:"data"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("deserializar pagos creados: %w", err)
	}
	return resp.Data, nil
}
