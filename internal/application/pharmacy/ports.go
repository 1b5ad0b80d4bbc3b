package pharmacy

import (
	"context"

	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que las actualizaciones de lotes y
// las entradas del ledger se confirmen juntas o no se confirme nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
