package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryAPI)(nil)

// InventoryAPI implementación de InventoryRepository sobre el API REST.
type InventoryAPI struct {
	c *Client
}

// NewInventoryAPI construye el adaptador de inventario.
func NewInventoryAPI(c *Client) *InventoryAPI {
	return &InventoryAPI{c: c}
}

// List lista inventario paginado, opcionalmente filtrado por almacén.
// El filtro se honra siempre: "sin filtro" es almacenID nil explícito,
// nunca un bypass escondido.
func (a *InventoryAPI) List(ctx context.Context, page repository.Page, almacenID *int64) ([]entity.Inventario, *repository.Paginacion, error) {
	page.Normalizar()
	params := url.Values{}
	params.Set("page", strconv.Itoa(page.Page))
	params.Set("per_page", strconv.Itoa(page.PerPage))
	if almacenID != nil {
		params.Set("almacen_id", strconv.FormatInt(*almacenID, 10))
	}

	var resp struct {
		Data       []entity.Inventario    `json:"data"`
		Pagination *repository.Paginacion `json:"pagination"`
	}
	if err := a.c.getJSON(ctx, "/inventario", params, &resp); err != nil {
		return nil, nil, fmt.Errorf("listar inventario: %w", err)
	}
	return resp.Data, resp.Pagination, nil
}

// GetByID obtiene un registro de inventario por su ID.
func (a *InventoryAPI) GetByID(ctx context.Context, id int64) (*entity.Inventario, error) {
	var inv entity.Inventario
	if err := a.c.getJSON(ctx, "/inventario/"+strconv.FormatInt(id, 10), nil, &inv); err != nil {
		return nil, fmt.Errorf("obtener inventario %d: %w", id, err)
	}
	return &inv, nil
}

// Create registra el primer stock de una presentación en un almacén
// (opcionalmente atado a un lote).
func (a *InventoryAPI) Create(ctx context.Context, in repository.InventarioRequest) (*entity.Inventario, error) {
	var inv entity.Inventario
	if err := a.c.sendJSON(ctx, http.MethodPost, "/inventario", in, &inv); err != nil {
		return nil, fmt.Errorf("crear inventario: %w", err)
	}
	return &inv, nil
}

// Update actualiza los datos maestros de un registro (stock mínimo, lote).
// La cantidad solo cambia vía RegisterMovement.
func (a *InventoryAPI) Update(ctx context.Context, id int64, in repository.InventarioRequest) (*entity.Inventario, error) {
	var inv entity.Inventario
	if err := a.c.sendJSON(ctx, http.MethodPut, "/inventario/"+strconv.FormatInt(id, 10), in, &inv); err != nil {
		return nil, fmt.Errorf("actualizar inventario %d: %w", id, err)
	}
	return &inv, nil
}

// RegisterMovement registra un movimiento entrada/salida y devuelve el
// registro actualizado que reporta el servidor.
func (a *InventoryAPI) RegisterMovement(ctx context.Context, in repository.MovimientoRequest) (*entity.Inventario, error) {
	var inv entity.Inventario
	if err := a.c.sendJSON(ctx, http.MethodPost, "/inventario/movimientos", in, &inv); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
	return &inv, nil
}

var _ repository.LotRepository = (*LotAPI)(nil)

// LotAPI implementación de LotRepository sobre el API REST.
type LotAPI struct {
	c *Client
}

// NewLotAPI construye el adaptador de lotes.
func NewLotAPI(c *Client) *LotAPI {
	return &LotAPI{c: c}
}

// List lista lotes paginados. Un lote que viola sus invariantes (peso o
// disponibilidad) se reporta como error en vez de propagarse en silencio.
func (a *LotAPI) List(ctx context.Context, page repository.Page) ([]entity.Lote, error) {
	page.Normalizar()
	params := url.Values{}
	params.Set("page", strconv.Itoa(page.Page))
	params.Set("per_page", strconv.Itoa(page.PerPage))

	var resp struct {
		Data []entity.Lote `json:"data"`
	}
	if err := a.c.getJSON(ctx, "/lotes", params, &resp); err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	for i := range resp.Data {
		if err := resp.Data[i].Validar(); err != nil {
			return nil, fmt.Errorf("lote %d del servidor: %w", resp.Data[i].ID, err)
		}
	}
	return resp.Data, nil
}
