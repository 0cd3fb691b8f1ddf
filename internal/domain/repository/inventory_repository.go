package repository

import (
	"context"

	"github.com/agroventas/appcore/internal/domain/entity"
)

// InventarioRequest cuerpo para crear o actualizar un registro de inventario.
type InventarioRequest struct {
	PresentacionID int64  `json:"presentacion_id"`
	AlmacenID      int64  `json:"almacen_id"`
	Cantidad       int    `json:"cantidad"`
	StockMinimo    int    `json:"stock_minimo"`
	LoteID         *int64 `json:"lote_id,omitempty"`
}

// MovimientoRequest cuerpo para registrar un movimiento de stock.
type MovimientoRequest struct {
	InventarioID int64  `json:"inventario_id"`
	Tipo         string `json:"tipo"` // entrada | salida
	Cantidad     int    `json:"cantidad"`
	Motivo       string `json:"motivo"`
	LoteID       *int64 `json:"lote_id,omitempty"`
}

// InventoryRepository define el puerto de acceso a inventario del servidor.
// Toda mutación pasa por RegisterMovement: el servidor aplica el movimiento y
// devuelve el registro actualizado (cantidad nueva y ultima_actualizacion).
type InventoryRepository interface {
	List(ctx context.Context, page Page, almacenID *int64) ([]entity.Inventario, *Paginacion, error)
	GetByID(ctx context.Context, id int64) (*entity.Inventario, error)
	Create(ctx context.Context, in InventarioRequest) (*entity.Inventario, error)
	Update(ctx context.Context, id int64, in InventarioRequest) (*entity.Inventario, error)
	RegisterMovement(ctx context.Context, in MovimientoRequest) (*entity.Inventario, error)
}

// LotRepository define el puerto de consulta de lotes.
type LotRepository interface {
	List(ctx context.Context, page Page) ([]entity.Lote, error)
}
