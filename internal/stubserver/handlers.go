package stubserver

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// Handlers handlers HTTP del stub. Reproducen los status y códigos de error
// del servidor real para que el cliente se pueda probar de punta a punta.
type Handlers struct {
	store *Store
}

// NewHandlers construye los handlers sobre el store.
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

func parsePage(c *fiber.Ctx) repository.Page {
	p := repository.Page{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 20),
	}
	p.Normalizar()
	return p
}

// responderError mapea errores de dominio a status HTTP, como el servidor real.
func responderError(c *fiber.Ctx, err error) error {
	var stockErr *domain.StockInsuficienteError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    domain.CodigoStockInsuficiente,
			Message: stockErr.Error(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrConflicto):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// ListInventario GET /api/inventario?page&per_page&almacen_id
func (h *Handlers) ListInventario(c *fiber.Ctx) error {
	var almacenID *int64
	if v := c.QueryInt("almacen_id", 0); v != 0 {
		id := int64(v)
		almacenID = &id
	}
	data, pag := h.store.ListInventario(parsePage(c), almacenID)
	return c.JSON(fiber.Map{"data": data, "pagination": pag})
}

// GetInventario GET /api/inventario/:id
func (h *Handlers) GetInventario(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return responderError(c, domain.ErrEntradaInvalida)
	}
	inv, err := h.store.GetInventario(int64(id))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(inv)
}

// CreateInventario POST /api/inventario
func (h *Handlers) CreateInventario(c *fiber.Ctx) error {
	var in repository.InventarioRequest
	if err := c.BodyParser(&in); err != nil {
		return responderError(c, domain.ErrEntradaInvalida)
	}
	inv, err := h.store.CreateInventario(in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// UpdateInventario PUT /api/inventario/:id
func (h *Handlers) UpdateInventario(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return responderError(c, domain.ErrEntradaInvalida)
	}
	var in repository.InventarioRequest
	if err := c.BodyParser(&in); err != nil {
		return responderError(c, domain.ErrEntradaInvalida)
	}
	inv, err := h.store.UpdateInventario(int64(id), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(inv)
}

// RegisterMovimiento POST /api/inventario/movimientos
func (h *Handlers) RegisterMovimiento(c *fiber.Ctx) error {
	var in repository.MovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return responderError(c, domain.ErrEntradaInvalida)
	}
	inv, err := h.store.RegisterMovimiento(in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(inv)
}

// ListLotes GET /api/lotes
func (h *Handlers) ListLotes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListLotes(parsePage(c))})
}

// ListVentasPendientes GET /api/ventas/pendientes
func (h *Handlers) ListVentasPendientes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListVentasPendientes(parsePage(c))})
}

// GetVenta GET /api/ventas/:id
func (h *Handlers) GetVenta(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return responderError(c, domain.ErrEntradaInvalida)
	}
	v, err := h.store.GetVenta(int64(id))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(v)
}

// SubmitPagosLote POST /api/pagos/lote (multipart/form-data).
// Campos: pagos_json_data, fecha (timestamp completo), metodo_pago,
// referencia?, lote_pago_id?, comprobante (archivo).
func (h *Handlers) SubmitPagosLote(c *fiber.Ctx) error {
	raw := c.FormValue("pagos_json_data")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagos_json_data requerido"})
	}
	var lineasIn []struct {
		VentaID int64  `json:"venta_id"`
		Monto   string `json:"monto"`
	}
	if err := json.Unmarshal([]byte(raw), &lineasIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pagos_json_data malformado"})
	}

	lineas := make([]lineaPago, 0, len(lineasIn))
	for _, l := range lineasIn {
		monto, err := decimal.NewFromString(l.Monto)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.CodigoMontoInvalido, Message: "monto malformado"})
		}
		lineas = append(lineas, lineaPago{VentaID: l.VentaID, Monto: monto})
	}

	// El servidor exige timestamp completo, no fecha a secas.
	fecha, err := time.Parse(time.RFC3339, c.FormValue("fecha"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha debe ser timestamp ISO-8601 completo"})
	}

	metodo := c.FormValue("metodo_pago")
	if metodo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "metodo_pago requerido"})
	}

	comprobante, err := c.FormFile("comprobante")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.CodigoComprobanteFaltante, Message: "comprobante requerido"})
	}

	pagos, err := h.store.ApplyPaymentBatch(
		c.FormValue("lote_pago_id"),
		lineas,
		fecha,
		metodo,
		c.FormValue("referencia"),
		comprobante.Filename,
	)
	if err != nil {
		if errors.Is(err, domain.ErrConflicto) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    domain.CodigoMontoExcedeSaldo,
				Message: "el lote supera el saldo pendiente de alguna venta",
			})
		}
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": pagos})
}

// ListPresentaciones GET /api/presentaciones
func (h *Handlers) ListPresentaciones(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListPresentaciones(parsePage(c))})
}

// ListProductos GET /api/productos
func (h *Handlers) ListProductos(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.store.ListProductos(parsePage(c))})
}
