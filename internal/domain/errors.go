package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrTxConflict marca un fallo transitorio de transacción (deadlock o
	// fallo de serialización). El caller puede reintentar; nunca se expone al cliente.
	ErrTxConflict = errors.New("conflicto de transacción")
)

// InsufficientStockError lleva la cantidad disponible al momento del rechazo,
// para que el caller pueda informarla sin una segunda consulta.
// Compatible con errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d", e.Available)
}

// Is permite tratar el error tipado como el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// NewInsufficientStock construye el error con la cantidad disponible.
func NewInsufficientStock(available int) error {
	return &InsufficientStockError{Available: available}
}

// AvailableFromError extrae la cantidad disponible si err es un InsufficientStockError.
func AvailableFromError(err error) (int, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise.Available, true
	}
	return 0, false
}
