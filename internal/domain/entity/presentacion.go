package entity

import "github.com/shopspring/decimal"

// Presentacion es la variante vendible de un producto (ej. bolsa de 500 g).
// Es la unidad sobre la que se lleva inventario por almacén.
type Presentacion struct {
	ID          int64           `json:"id"`
	ProductoID  int64           `json:"producto_id"`
	Nombre      string          `json:"nombre"`
	ContenidoKg decimal.Decimal `json:"contenido_kg"`
	Precio      decimal.Decimal `json:"precio"`
}

// Producto agrupa presentaciones; el allocador de lotes filtra por su ID.
type Producto struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}
