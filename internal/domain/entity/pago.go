package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados por el servidor.
const (
	PagoEfectivo      = "efectivo"
	PagoTransferencia = "transferencia"
	PagoCheque        = "cheque"
)

// Pago es el abono registrado contra una venta. En un lote de pagos varios
// Pago comparten comprobante, fecha, método y referencia. Inmutable una vez
// creado desde la perspectiva del cliente.
type Pago struct {
	ID          int64           `json:"id"`
	VentaID     int64           `json:"venta_id"`
	Monto       decimal.Decimal `json:"monto"`
	Metodo      string          `json:"metodo_pago"`
	Referencia  string          `json:"referencia,omitempty"`
	Comprobante string          `json:"comprobante,omitempty"` // URL o ruta del archivo en el servidor
	Fecha       time.Time       `json:"fecha"`
}
