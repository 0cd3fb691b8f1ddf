package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// AdjustmentService aplica un cambio de cantidad con signo sobre exactamente
// un registro de inventario y produce el movimiento correspondiente, como una
// sola operación lógica. Toda validación ocurre antes de tocar la red; un
// fallo de validación nunca genera tráfico.
type AdjustmentService struct {
	repo  repository.InventoryRepository
	cache *StockCache
}

// NewAdjustmentService construye el servicio. La cache puede ser nil si el
// caller no mantiene vistas de stock por almacén.
func NewAdjustmentService(repo repository.InventoryRepository, cache *StockCache) *AdjustmentService {
	return &AdjustmentService{repo: repo, cache: cache}
}

// Adjust valida y ejecuta el ajuste. El registro se relee del servidor justo
// antes de validar la salida para no decidir sobre una cantidad cacheada
// obsoleta. Para el caller es todo-o-nada: o se observan el movimiento y la
// cantidad nueva, o nada.
func (s *AdjustmentService) Adjust(ctx context.Context, in dto.AdjustRequest) (*entity.Inventario, error) {
	verr := &domain.ValidationError{Campos: dto.ValidarEstructura(in)}

	cantidad, ok := parseCantidad(in.Cantidad)
	if !ok {
		verr.Agregar("cantidad", domain.CodigoCantidadInvalida, "debe ser un entero positivo")
	}
	if strings.TrimSpace(in.Motivo) == "" {
		verr.Agregar("motivo", domain.CodigoMotivoFaltante, "el motivo es obligatorio")
	}
	if !verr.Vacio() {
		return nil, verr
	}

	// Fuente de verdad: releer el registro inmediatamente antes de validar.
	actual, err := s.repo.GetByID(ctx, in.InventarioID)
	if err != nil {
		return nil, fmt.Errorf("leer inventario %d: %w", in.InventarioID, err)
	}

	tipo := entity.MovimientoEntrada
	if in.Direccion == dto.DireccionDisminuir {
		tipo = entity.MovimientoSalida
		if cantidad > actual.Cantidad {
			return nil, &domain.StockInsuficienteError{
				InventarioID: actual.ID,
				Disponible:   actual.Cantidad,
				Solicitado:   cantidad,
			}
		}
	}

	actualizado, err := s.repo.RegisterMovement(ctx, repository.MovimientoRequest{
		InventarioID: in.InventarioID,
		Tipo:         tipo,
		Cantidad:     cantidad,
		Motivo:       strings.TrimSpace(in.Motivo),
		LoteID:       in.LoteID,
	})
	if err != nil {
		// Un rechazo del servidor es autoritativo aunque la validación local
		// haya pasado: otro dispositivo pudo consumir el stock entre la
		// lectura y el envío. El caller debe releer antes de reintentar.
		var rerr *domain.RemoteError
		if errors.As(err, &rerr) && rerr.Codigo == domain.CodigoStockInsuficiente {
			return nil, fmt.Errorf("%w (rechazado por el servidor): %s", domain.ErrStockInsuficiente, rerr.Mensaje)
		}
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(actualizado.AlmacenID)
	}
	return actualizado, nil
}

// parseCantidad parsea la cantidad del formulario como entero estricto.
// "3.5", "3,5", "0" y "-2" se rechazan.
func parseCantidad(s string) (int, bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
