package pharmacy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// LotUseCase gestiona el ciclo de vida de los lotes: recepción (con su
// movimiento IN en la misma transacción), consulta y edición de metadatos.
type LotUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(txRunner TxRunner, productRepo repository.ProductRepository, lotRepo repository.LotRepository) *LotUseCase {
	return &LotUseCase{txRunner: txRunner, productRepo: productRepo, lotRepo: lotRepo}
}

// CreateLotInput entrada para la recepción de un lote.
type CreateLotInput struct {
	ProductID      string
	LotNumber      string
	Quantity       int
	UnitCost       decimal.Decimal
	DatePeremption time.Time
	Source         string
	CreatedBy      string
}

// CreateLot registra la recepción de un lote. El lote nace QUARANTINE si ya
// llegó vencido, ACTIVE si no, y el alta del lote y su movimiento IN se
// confirman en una sola transacción.
func (uc *LotUseCase) CreateLot(ctx context.Context, input CreateLotInput) (*entity.Lot, error) {
	if input.ProductID == "" || input.LotNumber == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		LotNumber:      input.LotNumber,
		Quantity:       input.Quantity,
		QuantityUsed:   0,
		UnitCost:       input.UnitCost,
		DateEntry:      now,
		DatePeremption: input.DatePeremption,
		Source:         input.Source,
		Status:         entity.InitialLotStatus(input.DatePeremption, now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository) error {
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		unitPrice := input.UnitCost
		return movRepo.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: input.ProductID,
			LotID:     &lot.ID,
			Type:      entity.MovementTypeIN,
			Qty:       input.Quantity,
			UnitPrice: &unitPrice,
			Reason:    fmt.Sprintf("Recepción lote %s", input.LotNumber),
			CreatedBy: orSystem(input.CreatedBy),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// LotView lote junto a su producto, para respuestas enriquecidas.
type LotView struct {
	Lot     *entity.Lot
	Product *entity.Product
}

// GetLot devuelve un lote con su producto.
func (uc *LotUseCase) GetLot(ctx context.Context, id string) (*LotView, error) {
	lot, err := uc.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, lot.ProductID)
	if err != nil {
		return nil, err
	}
	return &LotView{Lot: lot, Product: product}, nil
}

// ListLots lista lotes con filtros, ordenados por fecha de vencimiento.
func (uc *LotUseCase) ListLots(ctx context.Context, filter repository.LotFilter) ([]*LotView, error) {
	lots, err := uc.lotRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Resolver productos una sola vez por id.
	products := make(map[string]*entity.Product)
	views := make([]*LotView, 0, len(lots))
	for _, lot := range lots {
		product, ok := products[lot.ProductID]
		if !ok {
			product, err = uc.productRepo.GetByID(ctx, lot.ProductID)
			if err != nil {
				return nil, err
			}
			products[lot.ProductID] = product
		}
		views = append(views, &LotView{Lot: lot, Product: product})
	}
	return views, nil
}

// UpdateLotInput campos editables de un lote. Las cantidades no aparecen aquí
// a propósito: todo cambio de cantidad fluye por el asignador y deja rastro en
// el ledger.
type UpdateLotInput struct {
	Status         *string
	Source         *string
	DatePeremption *time.Time
	UnitCost       *decimal.Decimal
}

// UpdateLot edita metadatos de un lote (liberar una QUARANTINE, corregir
// fecha o costo, cambiar la procedencia).
func (uc *LotUseCase) UpdateLot(ctx context.Context, id string, input UpdateLotInput) (*entity.Lot, error) {
	lot, err := uc.lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}

	if input.Status != nil {
		switch *input.Status {
		case entity.LotStatusActive, entity.LotStatusQuarantine, entity.LotStatusExhausted:
		default:
			return nil, domain.ErrInvalidInput
		}
		// EXHAUSTED se deriva de los contadores: un override no puede
		// contradecirlos (ni agotar un lote con disponible, ni revivir uno vacío).
		if (*input.Status == entity.LotStatusExhausted) != (lot.Available() == 0) {
			return nil, domain.ErrInvalidInput
		}
		lot.Status = *input.Status
	}
	if input.Source != nil {
		lot.Source = *input.Source
	}
	if input.DatePeremption != nil {
		lot.DatePeremption = *input.DatePeremption
	}
	if input.UnitCost != nil {
		if input.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lot.UnitCost = *input.UnitCost
	}
	lot.UpdatedAt = time.Now()

	if err := uc.lotRepo.UpdateMetadata(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

func orSystem(createdBy string) string {
	if createdBy == "" {
		return "system"
	}
	return createdBy
}
