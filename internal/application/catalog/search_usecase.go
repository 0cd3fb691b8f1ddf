package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// SearchUseCase búsqueda de catálogo del lado del cliente, insensible a
// mayúsculas y tildes ("cafe" encuentra "Café pergamino 500g").
type SearchUseCase struct {
	repo repository.CatalogRepository
}

// NewSearchUseCase construye el caso de uso de búsqueda.
func NewSearchUseCase(repo repository.CatalogRepository) *SearchUseCase {
	return &SearchUseCase{repo: repo}
}

// sinTildes descompone a NFD, elimina las marcas diacríticas y recompone.
var sinTildes = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizar prepara un texto para comparación: minúsculas y sin tildes.
func Normalizar(s string) string {
	plano, _, err := transform.String(sinTildes, s)
	if err != nil {
		plano = s
	}
	return strings.ToLower(strings.TrimSpace(plano))
}

// BuscarPresentaciones recorre el catálogo paginado y devuelve las
// presentaciones cuyo nombre contiene la consulta normalizada. Consulta
// vacía devuelve el catálogo completo.
func (uc *SearchUseCase) BuscarPresentaciones(ctx context.Context, consulta string) ([]entity.Presentacion, error) {
	q := Normalizar(consulta)

	var out []entity.Presentacion
	page := repository.Page{Page: 1, PerPage: 100}
	for {
		presentaciones, err := uc.repo.ListPresentaciones(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("listar presentaciones: %w", err)
		}
		for _, p := range presentaciones {
			if q == "" || strings.Contains(Normalizar(p.Nombre), q) {
				out = append(out, p)
			}
		}
		if len(presentaciones) < page.PerPage {
			break
		}
		page.Page++
	}
	if out == nil {
		out = []entity.Presentacion{}
	}
	return out, nil
}

// ProductoDe resuelve el producto que subyace a una presentación. Lo usa el
// flujo de lotes: la presentación elegida implica el producto por el que se
// filtran los lotes elegibles.
func (uc *SearchUseCase) ProductoDe(ctx context.Context, presentacionID int64) (int64, error) {
	page := repository.Page{Page: 1, PerPage: 100}
	for {
		presentaciones, err := uc.repo.ListPresentaciones(ctx, page)
		if err != nil {
			return 0, fmt.Errorf("listar presentaciones: %w", err)
		}
		for _, p := range presentaciones {
			if p.ID == presentacionID {
				return p.ProductoID, nil
			}
		}
		if len(presentaciones) < page.PerPage {
			return 0, fmt.Errorf("presentación %d: %w", presentacionID, domain.ErrNoEncontrado)
		}
		page.Page++
	}
}
