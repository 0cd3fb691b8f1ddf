package entity

import "time"

// Inventario representa la existencia de una presentación en un almacén.
// Identidad: (presentacion_id, almacen_id) — a lo sumo un registro por par.
// Puede referenciar opcionalmente un lote de origen.
type Inventario struct {
	ID                  int64     `json:"id"`
	PresentacionID      int64     `json:"presentacion_id"`
	AlmacenID           int64     `json:"almacen_id"`
	LoteID              *int64    `json:"lote_id,omitempty"`
	Cantidad            int       `json:"cantidad"`
	StockMinimo         int       `json:"stock_minimo"`
	UltimaActualizacion time.Time `json:"ultima_actualizacion"`
}

// BajoStockMinimo indica si la cantidad disponible está en o por debajo del
// stock mínimo configurado (señal de reposición, no bloquea operaciones).
func (i *Inventario) BajoStockMinimo() bool {
	return i.Cantidad <= i.StockMinimo
}
