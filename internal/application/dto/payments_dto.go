package dto

import "io"

// LineaBatch una línea (venta, monto) del formulario de pago por lote.
// Monto llega como string del input del usuario (puede traer coma decimal).
type LineaBatch struct {
	VentaID int64  `json:"venta_id" validate:"required,gt=0"`
	Monto   string `json:"monto" validate:"required"`
}

// BatchRequest entrada para registrar un lote de pagos: N líneas que comparten
// comprobante, fecha, método y referencia.
type BatchRequest struct {
	Lineas            []LineaBatch `json:"lineas" validate:"dive"`
	Fecha             string       `json:"fecha"` // "2006-01-02" o RFC 3339; se normaliza a timestamp completo
	Metodo            string       `json:"metodo_pago" validate:"required,oneof=efectivo transferencia cheque"`
	Referencia        string       `json:"referencia,omitempty"`
	Comprobante       io.Reader    `json:"-"`
	ComprobanteNombre string       `json:"-"`
}
