package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Lote representa una partida trazable de materia prima con su propio peso
// y disponibilidad. Cero o más registros de inventario pueden referenciarlo.
type Lote struct {
	ID                   int64            `json:"id"`
	ProductoID           int64            `json:"producto_id"`
	ProveedorID          *int64           `json:"proveedor_id,omitempty"`
	PesoHumedoKg         decimal.Decimal  `json:"peso_humedo_kg"`
	PesoSecoKg           *decimal.Decimal `json:"peso_seco_kg,omitempty"`
	FechaIngreso         time.Time        `json:"fecha_ingreso"`
	CantidadDisponibleKg decimal.Decimal  `json:"cantidad_disponible_kg"`
}

// Validar verifica los invariantes del lote: disponibilidad no negativa y,
// cuando hay peso seco registrado, peso seco <= peso húmedo.
func (l *Lote) Validar() error {
	if l.CantidadDisponibleKg.IsNegative() {
		return errors.New("lote: cantidad disponible negativa")
	}
	if l.PesoSecoKg != nil && l.PesoSecoKg.GreaterThan(l.PesoHumedoKg) {
		return errors.New("lote: peso seco mayor que peso húmedo")
	}
	return nil
}
