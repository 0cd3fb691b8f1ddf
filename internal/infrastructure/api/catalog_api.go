package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogAPI)(nil)

// CatalogAPI implementación de CatalogRepository sobre el API REST.
type CatalogAPI struct {
	c *Client
}

// NewCatalogAPI construye el adaptador de catálogo.
func NewCatalogAPI(c *Client) *CatalogAPI {
	return &CatalogAPI{c: c}
}

// ListPresentaciones lista presentaciones paginadas.
func (a *CatalogAPI) ListPresentaciones(ctx context.Context, page repository.Page) ([]entity.Presentacion, error) {
	page.Normalizar()
	params := url.Values{}
	params.Set("page", strconv.Itoa(page.Page))
	params.Set("per_page", strconv.Itoa(page.PerPage))

	var resp struct {
		Data []entity.Presentacion `json:"data"`
	}
	if err := a.c.getJSON(ctx, "/presentaciones", params, &resp); err != nil {
		return nil, fmt.Errorf("listar presentaciones: %w", err)
	}
	return resp.Data, nil
}

// ListProductos lista productos paginados.
func (a *CatalogAPI) ListProductos(ctx context.Context, page repository.Page) ([]entity.Producto, error) {
	page.Normalizar()
	params := url.Values{}
	params.Set("page", strconv.Itoa(page.Page))
	params.Set("per_page", strconv.Itoa(page.PerPage))

	var resp struct {
		Data []entity.Producto `json:"data"`
	}
	if err := a.c.getJSON(ctx, "/productos", params, &resp); err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return resp.Data, nil
}
