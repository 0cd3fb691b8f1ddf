package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroventas/appcore/internal/application/catalog"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

type catalogoFalso struct {
	presentaciones []entity.Presentacion
	productos      []entity.Producto
}

func (c *catalogoFalso) ListPresentaciones(_ context.Context, page repository.Page) ([]entity.Presentacion, error) {
	if page.Page > 1 {
		return nil, nil
	}
	return c.presentaciones, nil
}

func (c *catalogoFalso) ListProductos(_ context.Context, page repository.Page) ([]entity.Producto, error) {
	if page.Page > 1 {
		return nil, nil
	}
	return c.productos, nil
}

func catalogoDePrueba() *catalogoFalso {
	return &catalogoFalso{
		presentaciones: []entity.Presentacion{
			{ID: 1, ProductoID: 9, Nombre: "Café pergamino 500g"},
			{ID: 2, ProductoID: 9, Nombre: "Café tostado 250g"},
			{ID: 3, ProductoID: 11, Nombre: "Cacao seco 1kg"},
		},
	}
}

func TestNormalizar(t *testing.T) {
	assert.Equal(t, "cafe", catalog.Normalizar("Café"))
	assert.Equal(t, "azucar morena", catalog.Normalizar("  AZÚCAR MORENA "))
	assert.Equal(t, "nino", catalog.Normalizar("Niño"))
}

func TestBuscarPresentaciones_InsensibleATildes(t *testing.T) {
	uc := catalog.NewSearchUseCase(catalogoDePrueba())

	out, err := uc.BuscarPresentaciones(context.Background(), "cafe")
	require.NoError(t, err)
	require.Len(t, out, 2, "\"cafe\" debe encontrar ambas presentaciones de Café")

	out, err = uc.BuscarPresentaciones(context.Background(), "PERGAMINO")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestBuscarPresentaciones_ConsultaVaciaDevuelveTodo(t *testing.T) {
	uc := catalog.NewSearchUseCase(catalogoDePrueba())

	out, err := uc.BuscarPresentaciones(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestBuscarPresentaciones_SinCoincidencias(t *testing.T) {
	uc := catalog.NewSearchUseCase(catalogoDePrueba())

	out, err := uc.BuscarPresentaciones(context.Background(), "arroz")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestProductoDe(t *testing.T) {
	uc := catalog.NewSearchUseCase(catalogoDePrueba())

	productoID, err := uc.ProductoDe(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(11), productoID)

	_, err = uc.ProductoDe(context.Background(), 99)
	assert.True(t, errors.Is(err, domain.ErrNoEncontrado))
}
