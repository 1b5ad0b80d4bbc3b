package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	LotStatusActive     = "ACTIVE"
	LotStatusQuarantine = "QUARANTINE" // recibido ya vencido; lo libera un operador, nunca este motor
	LotStatusExhausted  = "EXHAUSTED"
)

// Lot representa una partida física de un producto: cantidad recibida,
// cantidad consumida y fecha de vencimiento. La cantidad recibida es inmutable
// después de la creación; todo cambio posterior pasa por consumos que dejan
// rastro en el ledger de movimientos.
type Lot struct {
	ID             string
	ProductID      string
	LotNumber      string // único por producto
	Quantity       int    // cantidad recibida, inmutable
	QuantityUsed   int    // consumida, monótonamente creciente
	UnitCost       decimal.Decimal
	DateEntry      time.Time
	DatePeremption time.Time // fecha de vencimiento
	Source         string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Available devuelve la cantidad aún disponible del lote.
func (l *Lot) Available() int {
	return l.Quantity - l.QuantityUsed
}

// IsExpired indica si el lote está vencido a la fecha dada.
func (l *Lot) IsExpired(asOf time.Time) bool {
	return l.DatePeremption.Before(asOf)
}

// InitialLotStatus determina el estado de un lote recién recibido:
// QUARANTINE si ya llegó vencido, ACTIVE en caso contrario.
func InitialLotStatus(datePeremption, now time.Time) string {
	if datePeremption.Before(now) {
		return LotStatusQuarantine
	}
	return LotStatusActive
}

// Consume incrementa la cantidad usada y recalcula el estado.
// No valida disponibilidad: eso es responsabilidad del asignador, que decide
// con la fila bloqueada.
func (l *Lot) Consume(qty int) {
	l.QuantityUsed += qty
	l.recomputeStatus()
}

// Restock revierte consumo (devoluciones o correcciones). Un lote EXHAUSTED
// vuelve a ACTIVE si recupera disponibilidad.
func (l *Lot) Restock(qty int) {
	l.QuantityUsed -= qty
	if l.QuantityUsed < 0 {
		l.QuantityUsed = 0
	}
	l.recomputeStatus()
}

// recomputeStatus deriva el estado desde los contadores. QUARANTINE no se
// limpia automáticamente: refleja "recibido vencido" hasta acción explícita
// de un operador.
func (l *Lot) recomputeStatus() {
	if l.Available() == 0 {
		l.Status = LotStatusExhausted
		return
	}
	if l.Status == LotStatusExhausted {
		l.Status = LotStatusActive
	}
}
