package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN     = "IN"     // recepción o devolución
	MovementTypeOUT    = "OUT"    // dispensación / salida
	MovementTypeADJUST = "ADJUST" // ajuste manual de operador, siempre con motivo
)

// StockMovement es una entrada del ledger de stock: inmutable, solo-append,
// la fuente de verdad de qué pasó, cuándo y por quién. LotID es nil únicamente
// en ajustes a nivel de producto.
type StockMovement struct {
	ID        string
	ProductID string
	LotID     *string
	Type      string
	Qty       int
	UnitPrice *decimal.Decimal
	Reference string
	Reason    string
	CreatedBy string
	CreatedAt time.Time
}

// ValidMovementType reporta si el tipo es uno de los conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST:
		return true
	}
	return false
}
