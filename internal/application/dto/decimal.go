package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMonto parsea un monto tal como lo escribe el usuario en un formulario
// móvil: acepta coma decimal ("1.234,50" no; "1234,50" sí) y la normaliza a
// punto antes de parsear. Separadores de miles no se aceptan.
func ParseMonto(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// MontoEpsilon tolerancia para comparar montos contra saldos. Cubre solo el
// redondeo decimal del servidor, nunca una tolerancia de negocio.
var MontoEpsilon = decimal.NewFromFloat(0.001)
