package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta en lo que concierne a este núcleo: total y saldo pendiente.
// SaldoPendiente lo calcula el servidor; el cliente nunca lo deriva localmente.
// Los montos llegan como strings decimales en JSON; shopspring/decimal los
// deserializa directamente.
type Venta struct {
	ID             int64           `json:"id"`
	ClienteID      int64           `json:"cliente_id"`
	ClienteNombre  string          `json:"cliente_nombre,omitempty"`
	Total          decimal.Decimal `json:"total"`
	SaldoPendiente decimal.Decimal `json:"saldo_pendiente"`
	Fecha          time.Time       `json:"fecha"`
}

// Pagada indica si la venta quedó saldada.
func (v *Venta) Pagada() bool {
	return v.SaldoPendiente.IsZero()
}
