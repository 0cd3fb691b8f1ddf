package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroventas/appcore/internal/application/inventory"
	"github.com/agroventas/appcore/internal/domain/entity"
)

func TestLowStock_OrdenaPorDeficit(t *testing.T) {
	repo := nuevoRepoFalso(
		entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 10, StockMinimo: 5},  // sobrado
		entity.Inventario{ID: 2, PresentacionID: 8, AlmacenID: 1, Cantidad: 2, StockMinimo: 10},  // déficit 8
		entity.Inventario{ID: 3, PresentacionID: 9, AlmacenID: 1, Cantidad: 4, StockMinimo: 6},   // déficit 2
		entity.Inventario{ID: 4, PresentacionID: 10, AlmacenID: 1, Cantidad: 5, StockMinimo: 5},  // en el mínimo
	)
	uc := inventory.NewLowStockUseCase(repo)

	items, err := uc.Generate(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, items, 3, "en el mínimo también cuenta como bajo")
	assert.Equal(t, int64(2), items[0].InventarioID, "mayor déficit primero")
	assert.Equal(t, int64(3), items[1].InventarioID)
	assert.Equal(t, int64(4), items[2].InventarioID)
}

func TestLowStock_FiltraPorAlmacen(t *testing.T) {
	repo := nuevoRepoFalso(
		entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 1, StockMinimo: 5},
		entity.Inventario{ID: 2, PresentacionID: 8, AlmacenID: 2, Cantidad: 1, StockMinimo: 5},
	)
	uc := inventory.NewLowStockUseCase(repo)

	almacen := int64(2)
	items, err := uc.Generate(context.Background(), &almacen)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].InventarioID)
}

func TestLowStock_SinRegistrosBajos(t *testing.T) {
	repo := nuevoRepoFalso(entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 10, StockMinimo: 2})
	uc := inventory.NewLowStockUseCase(repo)

	items, err := uc.Generate(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}
