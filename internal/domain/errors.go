package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado      = errors.New("recurso no encontrado")
	ErrEntradaInvalida   = errors.New("entrada inválida")
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrSesionExpirada    = errors.New("sesión expirada")
	ErrNoAutorizado      = errors.New("no autorizado")
	ErrConflicto         = errors.New("conflicto con el estado actual")
)

// Códigos de validación local. Se detectan siempre antes de cualquier llamada
// de red y son atribuibles a un campo o línea concreta.
const (
	CodigoCantidadInvalida    = "INVALID_QUANTITY"
	CodigoMotivoFaltante      = "MISSING_REASON"
	CodigoStockInsuficiente   = "INSUFFICIENT_STOCK"
	CodigoSinVentas           = "NO_SALES_SELECTED"
	CodigoComprobanteFaltante = "MISSING_RECEIPT"
	CodigoMontoInvalido       = "INVALID_AMOUNT"
	CodigoMontoExcedeSaldo    = "AMOUNT_EXCEEDS_BALANCE"
	CodigoCampoRequerido      = "REQUIRED_FIELD"
	CodigoEntradaInvalida     = "INVALID_INPUT"
)

// CampoInvalido describe una violación de validación sobre un campo.
type CampoInvalido struct {
	Campo   string `json:"campo"`
	Codigo  string `json:"codigo"`
	Mensaje string `json:"mensaje"`
}

// ValidationError agrupa todas las violaciones detectadas en una operación.
// Se reportan juntas (no solo la primera) para que la UI las pinte en línea.
type ValidationError struct {
	Campos []CampoInvalido
}

func (e *ValidationError) Error() string {
	if len(e.Campos) == 0 {
		return "validación fallida"
	}
	msgs := make([]string, 0, len(e.Campos))
	for _, c := range e.Campos {
		msgs = append(msgs, fmt.Sprintf("%s: %s", c.Campo, c.Mensaje))
	}
	return "validación fallida: " + strings.Join(msgs, "; ")
}

// Is permite errors.Is(err, domain.ErrEntradaInvalida).
func (e *ValidationError) Is(target error) bool { return target == ErrEntradaInvalida }

// Agregar añade una violación a la lista.
func (e *ValidationError) Agregar(campo, codigo, mensaje string) {
	e.Campos = append(e.Campos, CampoInvalido{Campo: campo, Codigo: codigo, Mensaje: mensaje})
}

// Vacio indica que no se registró ninguna violación.
func (e *ValidationError) Vacio() bool { return len(e.Campos) == 0 }

// StockInsuficienteError rechazo de una salida que dejaría la cantidad por
// debajo de cero. Reporta el disponible para que la UI lo muestre.
type StockInsuficienteError struct {
	InventarioID int64
	Disponible   int
	Solicitado   int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Disponible, e.Solicitado)
}

// Is permite errors.Is(err, domain.ErrStockInsuficiente).
func (e *StockInsuficienteError) Is(target error) bool { return target == ErrStockInsuficiente }

// RemoteError respuesta no-2xx del servidor. Opaco para el cliente: se
// muestra el mensaje del servidor cuando existe, o un genérico.
type RemoteError struct {
	StatusCode int
	Codigo     string
	Mensaje    string
}

func (e *RemoteError) Error() string {
	if e.Mensaje != "" {
		return e.Mensaje
	}
	return fmt.Sprintf("error del servidor (HTTP %d)", e.StatusCode)
}

// Is mapea los status HTTP clásicos a los sentinelas del dominio para que
// los callers puedan usar errors.Is sin conocer el transporte.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrNoEncontrado:
		return e.StatusCode == 404
	case ErrNoAutorizado:
		return e.StatusCode == 401 || e.StatusCode == 403
	case ErrConflicto:
		return e.StatusCode == 409
	case ErrStockInsuficiente:
		return e.Codigo == CodigoStockInsuficiente
	}
	return false
}

// EsAutoritativo indica que el rechazo del servidor debe tratarse como la
// verdad aunque la validación local haya pasado (ej. stock modificado por
// otro dispositivo). El caller debe re-leer el estado antes de reintentar.
func (e *RemoteError) EsAutoritativo() bool {
	return e.StatusCode == 409 || e.Codigo == CodigoStockInsuficiente
}
