package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovimientoEntrada = "entrada" // suma cantidad
	MovimientoSalida  = "salida"  // resta cantidad; nunca por debajo de cero
)

// Movimiento representa un cambio de stock sobre un registro de inventario.
// Es append-only: una vez creado nunca se edita ni se elimina desde el cliente.
type Movimiento struct {
	ID             int64     `json:"id"`
	InventarioID   int64     `json:"inventario_id"`
	PresentacionID int64     `json:"presentacion_id"`
	LoteID         *int64    `json:"lote_id,omitempty"`
	Tipo           string    `json:"tipo"` // entrada | salida
	Cantidad       int       `json:"cantidad"`
	Motivo         string    `json:"motivo"`
	Fecha          time.Time `json:"fecha"`
}
