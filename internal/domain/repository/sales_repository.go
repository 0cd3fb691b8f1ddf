package repository

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agroventas/appcore/internal/domain/entity"
)

// LineaPago una asignación (venta, monto) dentro de un lote de pagos.
type LineaPago struct {
	VentaID int64           `json:"venta_id"`
	Monto   decimal.Decimal `json:"monto"`
}

// BatchSubmission lote de pagos ya validado, listo para enviarse como un único
// request multipart. El comprobante es compartido por todas las líneas.
type BatchSubmission struct {
	LoteID            uuid.UUID // generado por el cliente; permite idempotencia en el servidor
	Lineas            []LineaPago
	Fecha             time.Time // timestamp completo, nunca fecha a secas
	Metodo            string
	Referencia        string
	Comprobante       io.Reader
	ComprobanteNombre string
}

// SalesRepository define el puerto de ventas y pagos del servidor.
// SubmitPaymentBatch envía el lote completo en una sola llamada; la atomicidad
// (todas las líneas o ninguna) la garantiza la transacción del servidor.
type SalesRepository interface {
	ListPendientes(ctx context.Context, page Page) ([]entity.Venta, error)
	GetByID(ctx context.Context, id int64) (*entity.Venta, error)
	SubmitPaymentBatch(ctx context.Context, in BatchSubmission) ([]entity.Pago, error)
}

// CatalogRepository define el puerto de catálogo (presentaciones y productos).
type CatalogRepository interface {
	ListPresentaciones(ctx context.Context, page Page) ([]entity.Presentacion, error)
	ListProductos(ctx context.Context, page Page) ([]entity.Producto, error)
}
