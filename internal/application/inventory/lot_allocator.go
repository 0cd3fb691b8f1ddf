package inventory

import "github.com/agroventas/appcore/internal/domain/entity"

// EligibleLots filtra los lotes compatibles con el producto que subyace a la
// presentación elegida. Con productoID 0 devuelve la lista sin filtrar (el
// caller debe haber exigido primero la selección de presentación).
//
// Una lista filtrada vacía se devuelve tal cual: el caller debe mostrar
// "ningún lote disponible" y nunca caer a la lista completa — mezclar lotes
// de productos distintos corrompe la disponibilidad por lote.
func EligibleLots(productoID int64, lotes []entity.Lote) []entity.Lote {
	if productoID == 0 {
		return lotes
	}
	out := make([]entity.Lote, 0, len(lotes))
	for _, l := range lotes {
		if l.ProductoID == productoID {
			out = append(out, l)
		}
	}
	return out
}
