package dto

// Direcciones de ajuste de inventario.
const (
	DireccionAumentar  = "aumentar"
	DireccionDisminuir = "disminuir"
)

// AdjustRequest entrada para ajustar la cantidad de un registro de inventario.
// Cantidad llega como string tal cual la escribió el usuario: el caso de uso
// la parsea como entero estricto (rechaza fracciones y valores <= 0).
type AdjustRequest struct {
	InventarioID int64  `json:"inventario_id" validate:"required,gt=0"`
	Direccion    string `json:"direccion" validate:"required,oneof=aumentar disminuir"`
	Cantidad     string `json:"cantidad" validate:"required"`
	Motivo       string `json:"motivo"`
	LoteID       *int64 `json:"lote_id,omitempty"`
}

// StockItem una fila de la vista stock-por-almacén que sirve la cache.
type StockItem struct {
	PresentacionID int64 `json:"presentacion_id"`
	Disponible     int   `json:"disponible"`
}

// LowStockItem registro en o por debajo de su stock mínimo.
type LowStockItem struct {
	InventarioID   int64 `json:"inventario_id"`
	PresentacionID int64 `json:"presentacion_id"`
	AlmacenID      int64 `json:"almacen_id"`
	Disponible     int   `json:"disponible"`
	StockMinimo    int   `json:"stock_minimo"`
}
