package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agroventas/appcore/internal/application/dto"
	"github.com/agroventas/appcore/internal/domain"
	"github.com/agroventas/appcore/internal/domain/entity"
	"github.com/agroventas/appcore/internal/domain/repository"
)

// LineaExcedida detalle estructurado de una venta cuyos montos asignados
// superan su saldo pendiente.
type LineaExcedida struct {
	VentaID int64
	Saldo   decimal.Decimal
	Monto   decimal.Decimal
}

// ErrorDeLote agrupa todas las violaciones de un lote de pagos. Nunca llega
// a la red: un lote con cualquier línea inválida se rechaza completo.
type ErrorDeLote struct {
	Campos    []domain.CampoInvalido
	Excedidas []LineaExcedida
}

func (e *ErrorDeLote) Error() string {
	msgs := make([]string, 0, len(e.Campos))
	for _, c := range e.Campos {
		msgs = append(msgs, fmt.Sprintf("%s: %s", c.Campo, c.Mensaje))
	}
	return "lote de pagos inválido: " + strings.Join(msgs, "; ")
}

// Is permite errors.Is(err, domain.ErrEntradaInvalida).
func (e *ErrorDeLote) Is(target error) bool { return target == domain.ErrEntradaInvalida }

func (e *ErrorDeLote) agregar(campo, codigo, mensaje string) {
	e.Campos = append(e.Campos, domain.CampoInvalido{Campo: campo, Codigo: codigo, Mensaje: mensaje})
}

// BatchResult resultado de un lote enviado con éxito.
type BatchResult struct {
	LoteID uuid.UUID     // identificador de lote generado por el cliente
	Pagos  []entity.Pago // un pago por línea, todos con el mismo comprobante
}

// BatchAllocator valida y envía un lote de pagos contra varias ventas que
// comparten un único comprobante, fecha, método y referencia. La validación
// es puramente local (contra las ventas que el caller ya tiene en pantalla);
// el envío es un único request multipart y la atomicidad de "todas las
// líneas o ninguna" la delega en la transacción del servidor.
type BatchAllocator struct {
	ventas repository.SalesRepository
}

// NewBatchAllocator construye el allocador.
func NewBatchAllocator(ventas repository.SalesRepository) *BatchAllocator {
	return &BatchAllocator{ventas: ventas}
}

// SubmitBatch valida el lote completo contra las ventas provistas y, si no
// hay ninguna violación, lo envía. Todas las violaciones se reportan juntas.
// Tras un fallo de envío el caller debe refrescar los saldos (el cliente no
// asume aplicación parcial) antes de volver a intentar.
func (s *BatchAllocator) SubmitBatch(ctx context.Context, in dto.BatchRequest, ventas []entity.Venta) (*BatchResult, error) {
	verr := &ErrorDeLote{Campos: dto.ValidarEstructura(in)}

	if len(in.Lineas) == 0 {
		verr.agregar("lineas", domain.CodigoSinVentas, "seleccione al menos una venta")
	}
	if in.Comprobante == nil {
		verr.agregar("comprobante", domain.CodigoComprobanteFaltante, "adjunte el comprobante de pago")
	}

	fecha, fechaOK := normalizarFecha(in.Fecha)
	if !fechaOK {
		verr.agregar("fecha", domain.CodigoEntradaInvalida, "fecha inválida; use AAAA-MM-DD o timestamp completo")
	}

	saldoPorVenta := make(map[int64]decimal.Decimal, len(ventas))
	for i := range ventas {
		saldoPorVenta[ventas[i].ID] = ventas[i].SaldoPendiente
	}

	// Primer pase: parsear montos y acumular el total asignado por venta.
	// El tope se verifica por venta, no en agregado: dos líneas sobre la
	// misma venta se suman antes de comparar contra su saldo.
	lineas := make([]repository.LineaPago, 0, len(in.Lineas))
	totalPorVenta := make(map[int64]decimal.Decimal)
	for i, l := range in.Lineas {
		monto, err := dto.ParseMonto(l.Monto)
		if err != nil || !monto.IsPositive() {
			verr.agregar(
				fmt.Sprintf("lineas[%d].monto", i),
				domain.CodigoMontoInvalido,
				fmt.Sprintf("monto inválido para la venta %d", l.VentaID),
			)
			continue
		}
		if _, conocida := saldoPorVenta[l.VentaID]; !conocida {
			verr.agregar(
				fmt.Sprintf("lineas[%d].venta_id", i),
				domain.CodigoEntradaInvalida,
				fmt.Sprintf("venta %d no está entre las ventas pendientes", l.VentaID),
			)
			continue
		}
		totalPorVenta[l.VentaID] = totalPorVenta[l.VentaID].Add(monto)
		lineas = append(lineas, repository.LineaPago{VentaID: l.VentaID, Monto: monto})
	}

	// Segundo pase: tope por venta con tolerancia de redondeo únicamente.
	for ventaID, total := range totalPorVenta {
		saldo := saldoPorVenta[ventaID]
		if total.GreaterThan(saldo.Add(dto.MontoEpsilon)) {
			verr.Excedidas = append(verr.Excedidas, LineaExcedida{VentaID: ventaID, Saldo: saldo, Monto: total})
			verr.agregar(
				fmt.Sprintf("ventas[%d]", ventaID),
				domain.CodigoMontoExcedeSaldo,
				fmt.Sprintf("el monto %s supera el saldo pendiente %s", total.StringFixed(2), saldo.StringFixed(2)),
			)
		}
	}

	if len(verr.Campos) > 0 {
		return nil, verr
	}

	loteID := uuid.New()
	pagos, err := s.ventas.SubmitPaymentBatch(ctx, repository.BatchSubmission{
		Lineas:            lineas,
		Fecha:             fecha,
		Metodo:            in.Metodo,
		Referencia:        strings.TrimSpace(in.Referencia),
		Comprobante:       in.Comprobante,
		ComprobanteNombre: in.ComprobanteNombre,
		LoteID:            loteID,
	})
	if err != nil {
		// Error único a nivel de lote: no se asume aplicación parcial.
		return nil, fmt.Errorf("enviar lote de pagos: %w", err)
	}

	return &BatchResult{LoteID: loteID, Pagos: pagos}, nil
}

// normalizarFecha acepta fecha a secas o timestamp RFC 3339 y siempre
// devuelve un timestamp completo (el servidor no acepta fechas peladas).
// Vacía significa "ahora".
func normalizarFecha(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
