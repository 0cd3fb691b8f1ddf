package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// StockCache guarda en memoria la vista presentación→disponible por almacén
// para no volver a consultar al servidor cada vez que una pantalla filtra por
// el mismo almacén. No hay TTL: la corrección depende por completo de que
// todo escritor invalide tras mutar (disciplina temporal, no ventana de
// staleness aceptada).
type StockCache struct {
	mu         sync.RWMutex
	repo       repository.InventoryRepository
	porAlmacen map[int64][]dto.StockItem
}

// NewStockCache construye la cache sobre el repositorio de inventario.
func NewStockCache(repo repository.InventoryRepository) *StockCache {
	return &StockCache{
		repo:       repo,
		porAlmacen: make(map[int64][]dto.StockItem),
	}
}

// Get devuelve la vista cacheada del almacén, o la carga del servidor
// (recorriendo todas las páginas) si no está presente. Un error de red no
// deja nada cacheado. La copia devuelta es del caller; mutarla no afecta
// la cache.
func (c *StockCache) Get(ctx context.Context, almacenID int64) ([]dto.StockItem, error) {
	c.mu.RLock()
	items, ok := c.porAlmacen[almacenID]
	c.mu.RUnlock()
	if ok {
		return copiaItems(items), nil
	}

	items, err := c.cargar(ctx, almacenID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.porAlmacen[almacenID] = items
	c.mu.Unlock()
	return copiaItems(items), nil
}

// Invalidate descarta la entrada de un almacén. Debe llamarse tras toda
// mutación que toque ese almacén (AdjustmentService lo hace solo).
func (c *StockCache) Invalidate(almacenID int64) {
	c.mu.Lock()
	delete(c.porAlmacen, almacenID)
	c.mu.Unlock()
}

// InvalidateAll descarta todas las entradas. Se usa cuando cambia el criterio
// de filtrado mismo (ej. pasar de "filtrar por almacén" a "sin filtro").
func (c *StockCache) InvalidateAll() {
	c.mu.Lock()
	c.porAlmacen = make(map[int64][]dto.StockItem)
	c.mu.Unlock()
}

func (c *StockCache) cargar(ctx context.Context, almacenID int64) ([]dto.StockItem, error) {
	var items []dto.StockItem
	page := repository.Page{Page: 1, PerPage: 100}
	for {
		registros, pag, err := c.repo.List(ctx, page, &almacenID)
		if err != nil {
			return nil, fmt.Errorf("cargar stock del almacén %d: %w", almacenID, err)
		}
		for _, r := range registros {
			items = append(items, dto.StockItem{
				PresentacionID: r.PresentacionID,
				Disponible:     r.Cantidad,
			})
		}
		if pag == nil || page.Page >= pag.Pages {
			break
		}
		page.Page++
	}
	if items == nil {
		items = []dto.StockItem{}
	}
	return items, nil
}

func copiaItems(items []dto.StockItem) []dto.StockItem {
	out := make([]dto.StockItem, len(items))
	copy(out, items)
	return out
}
