package pharmacy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// LedgerUseCase expone el ledger de movimientos: consulta paginada y el único
// append accesible desde fuera del asignador, el ajuste explícito de operador.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// AdjustInput entrada de un ajuste manual. Reason es obligatorio: un ajuste
// sin motivo no es auditable y se rechaza.
type AdjustInput struct {
	ProductID string
	LotID     string // opcional; vacío = ajuste a nivel de producto
	Qty       int
	UnitPrice *decimal.Decimal
	Reference string
	Reason    string
	CreatedBy string
}

// RegisterAdjust registra un ADJUST en el ledger. No toca contadores de lote:
// solo deja constancia del ajuste decidido por el operador.
func (uc *LedgerUseCase) RegisterAdjust(ctx context.Context, input AdjustInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.Qty == 0 || input.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var mov *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository) error {
		var lotID *string
		if input.LotID != "" {
			lot, err := lotRepo.GetByID(ctx, input.LotID)
			if err != nil {
				return err
			}
			if lot == nil || lot.ProductID != input.ProductID {
				return domain.ErrNotFound
			}
			lotID = &lot.ID
		}
		mov = &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			LotID:     lotID,
			Type:      entity.MovementTypeADJUST,
			Qty:       input.Qty,
			UnitPrice: input.UnitPrice,
			Reference: input.Reference,
			Reason:    input.Reason,
			CreatedBy: orSystem(input.CreatedBy),
			CreatedAt: time.Now(),
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovements consulta el ledger con filtros, ordenado por fecha de
// creación descendente. Devuelve también el total para la paginación.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	movements, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.movRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
