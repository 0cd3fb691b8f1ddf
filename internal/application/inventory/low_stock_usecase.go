package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// LowStockUseCase genera la lista de registros en o por debajo de su stock
// mínimo para un almacén (o todos, con almacenID nil). Es solo señalización:
// no bloquea ventas ni ajustes.
type LowStockUseCase struct {
	repo repository.InventoryRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(repo repository.InventoryRepository) *LowStockUseCase {
	return &LowStockUseCase{repo: repo}
}

// Generate recorre el inventario paginado y devuelve los registros bajo
// mínimo, ordenados por déficit absoluto (mayor primero).
func (uc *LowStockUseCase) Generate(ctx context.Context, almacenID *int64) ([]dto.LowStockItem, error) {
	var items []dto.LowStockItem
	page := repository.Page{Page: 1, PerPage: 100}
	for {
		registros, pag, err := uc.repo.List(ctx, page, almacenID)
		if err != nil {
			return nil, fmt.Errorf("listar inventario: %w", err)
		}
		for i := range registros {
			r := &registros[i]
			if !r.BajoStockMinimo() {
				continue
			}
			items = append(items, dto.LowStockItem{
				InventarioID:   r.ID,
				PresentacionID: r.PresentacionID,
				AlmacenID:      r.AlmacenID,
				Disponible:     r.Cantidad,
				StockMinimo:    r.StockMinimo,
			})
		}
		if pag == nil || page.Page >= pag.Pages {
			break
		}
		page.Page++
	}

	sort.SliceStable(items, func(i, j int) bool {
		defI := items[i].StockMinimo - items[i].Disponible
		defJ := items[j].StockMinimo - items[j].Disponible
		return defI > defJ
	})
	if items == nil {
		items = []dto.LowStockItem{}
	}
	return items, nil
}
