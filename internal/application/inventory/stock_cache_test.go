package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroventas/appcore/internal/application/inventory"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

func TestStockCache_SegundaLecturaNoTocaLaRed(t *testing.T) {
	repo := nuevoRepoFalso(
		entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 10},
		entity.Inventario{ID: 2, PresentacionID: 9, AlmacenID: 2, Cantidad: 4},
	)
	cache := inventory.NewStockCache(repo)
	ctx := context.Background()

	items, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1, "solo el inventario del almacén pedido")
	assert.Equal(t, 1, repo.llamadasList)

	_, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.llamadasList, "la segunda lectura debe servirse de la cache")

	// Otro almacén es otra entrada.
	_, err = cache.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.llamadasList)
}

func TestStockCache_InvalidateFuerzaRecarga(t *testing.T) {
	repo := nuevoRepoFalso(entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 10})
	cache := inventory.NewStockCache(repo)
	ctx := context.Background()

	_, err := cache.Get(ctx, 1)
	require.NoError(t, err)

	repo.registros[1].Cantidad = 25
	cache.Invalidate(1)

	items, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 25, items[0].Disponible, "tras invalidar debe verse la cantidad nueva")
	assert.Equal(t, 2, repo.llamadasList)
}

func TestStockCache_InvalidateAllDescartaTodo(t *testing.T) {
	repo := nuevoRepoFalso(
		entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 10},
		entity.Inventario{ID: 2, PresentacionID: 9, AlmacenID: 2, Cantidad: 4},
	)
	cache := inventory.NewStockCache(repo)
	ctx := context.Background()

	_, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	_, err = cache.Get(ctx, 2)
	require.NoError(t, err)

	cache.InvalidateAll()

	_, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	_, err = cache.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.llamadasList, "ambos almacenes deben recargarse")
}

func TestStockCache_MutarLaCopiaNoAfectaLaCache(t *testing.T) {
	repo := nuevoRepoFalso(entity.Inventario{ID: 1, PresentacionID: 7, AlmacenID: 1, Cantidad: 10})
	cache := inventory.NewStockCache(repo)
	ctx := context.Background()

	items, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	items[0].Disponible = -999

	otra, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, otra[0].Disponible, "la cache debe devolver copias, no su propio slice")
}

// repoPaginado reparte sus registros en páginas de tamaño fijo para verificar
// que la cache recorre todas las páginas al cargar.
type repoPaginado struct {
	*repoFalso
	registrosOrdenados []entity.Inventario
	porPagina          int
}

func (r *repoPaginado) List(_ context.Context, page repository.Page, _ *int64) ([]entity.Inventario, *repository.Paginacion, error) {
	r.llamadasList++
	total := len(r.registrosOrdenados)
	pages := (total + r.porPagina - 1) / r.porPagina
	desde := (page.Page - 1) * r.porPagina
	hasta := desde + r.porPagina
	if hasta > total {
		hasta = total
	}
	return r.registrosOrdenados[desde:hasta], &repository.Paginacion{
		Page: page.Page, Pages: pages, PerPage: r.porPagina, Total: total,
	}, nil
}

func TestStockCache_RecorreTodasLasPaginas(t *testing.T) {
	registros := make([]entity.Inventario, 5)
	for i := range registros {
		registros[i] = entity.Inventario{ID: int64(i + 1), PresentacionID: int64(100 + i), AlmacenID: 1, Cantidad: i + 1}
	}
	repo := &repoPaginado{repoFalso: nuevoRepoFalso(), registrosOrdenados: registros, porPagina: 2}
	cache := inventory.NewStockCache(repo)

	items, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, items, 5, "deben acumularse los registros de todas las páginas")
	assert.Equal(t, 3, repo.llamadasList, "cinco registros a dos por página son tres llamadas")
}
