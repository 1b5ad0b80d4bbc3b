package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

// MovementFilter filtros de consulta del ledger.
type MovementFilter struct {
	ProductID string
	LotID     string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto del ledger de movimientos (DIP).
// Solo-append: no existe Update ni Delete para un movimiento, por diseño de
// auditoría.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	Count(ctx context.Context, filter MovementFilter) (int, error)
}
