package pharmacy

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// AllocatorUseCase consume stock contra lotes bajo la política FEFO (primero
// en vencer, primero en salir) y registra cada retiro en el ledger, todo
// dentro de una transacción con las filas de lote bloqueadas.
//
// La salida agrupada es todo-o-nada: si el total disponible no alcanza, ningún
// lote se toca y no se escribe ninguna entrada en el ledger. Cada lote tocado
// produce su propia entrada del ledger con la cantidad parcial tomada, que es
// lo que mantiene verdadera la conciliación por lote (suma de OUT == quantityUsed).
type AllocatorUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository

	// MaxRetries y RetryBackoff gobiernan el reintento ante ErrTxConflict
	// (deadlock / fallo de serialización). InsufficientStock y validaciones
	// nunca se reintentan.
	MaxRetries   int
	RetryBackoff time.Duration
}

// NewAllocatorUseCase construye el caso de uso con la política de reintentos
// por defecto.
func NewAllocatorUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *AllocatorUseCase {
	return &AllocatorUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		MaxRetries:   3,
		RetryBackoff: 25 * time.Millisecond,
	}
}

// OutInput entrada de una salida de stock.
// LotID vacío = modo agrupado (FEFO sobre todos los lotes del producto);
// LotID presente = modo dirigido contra ese lote.
type OutInput struct {
	ProductID string
	LotID     string
	Qty       int
	UnitPrice *decimal.Decimal
	Reference string
	Reason    string
	CreatedBy string
}

// ConsumedLot cuánto se tomó de un lote en una salida.
type ConsumedLot struct {
	LotID     string
	LotNumber string
	QtyTaken  int
}

// AllocationResult lotes consumidos y movimientos registrados.
type AllocationResult struct {
	ConsumedLots []ConsumedLot
	Movements    []*entity.StockMovement
}

// RequestOut ejecuta una salida de stock. Reintenta la transacción completa
// ante conflictos transitorios, con backoff exponencial acotado.
func (uc *AllocatorUseCase) RequestOut(ctx context.Context, input OutInput) (*AllocationResult, error) {
	if input.ProductID == "" || input.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var result *AllocationResult
	run := func() error {
		return uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository) error {
			var err error
			if input.LotID != "" {
				result, err = uc.allocateTargeted(ctx, lotRepo, movRepo, input)
			} else {
				result, err = uc.allocatePooled(ctx, lotRepo, movRepo, input)
			}
			return err
		})
	}
	if err := uc.withRetry(ctx, run); err != nil {
		return nil, err
	}
	return result, nil
}

// allocateTargeted toma toda la cantidad de un lote concreto.
func (uc *AllocatorUseCase) allocateTargeted(
	ctx context.Context,
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	input OutInput,
) (*AllocationResult, error) {
	lot, err := lotRepo.GetForUpdate(ctx, input.LotID)
	if err != nil {
		return nil, err
	}
	if lot == nil || lot.ProductID != input.ProductID {
		return nil, domain.ErrNotFound
	}
	if available := lot.Available(); available < input.Qty {
		return nil, domain.NewInsufficientStock(available)
	}

	lot.Consume(input.Qty)
	lot.UpdatedAt = time.Now()
	if err := lotRepo.UpdateConsumption(ctx, lot); err != nil {
		return nil, err
	}
	mov := uc.outMovement(input, lot.ID, input.Qty)
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &AllocationResult{
		ConsumedLots: []ConsumedLot{{LotID: lot.ID, LotNumber: lot.LotNumber, QtyTaken: input.Qty}},
		Movements:    []*entity.StockMovement{mov},
	}, nil
}

// allocatePooled recorre los lotes no agotados del producto en orden FEFO
// (vencimiento ascendente, desempate por id) tomando de cada uno hasta cubrir
// la cantidad pedida. Primero arma el plan sobre las filas ya bloqueadas y
// solo si alcanza aplica las actualizaciones, así un rechazo no deja ningún
// lote a medio actualizar.
func (uc *AllocatorUseCase) allocatePooled(
	ctx context.Context,
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	input OutInput,
) (*AllocationResult, error) {
	lots, err := lotRepo.ListForAllocation(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	type step struct {
		lot *entity.Lot
		qty int
	}
	var plan []step
	remaining := input.Qty
	totalAvailable := 0
	for _, lot := range lots {
		available := lot.Available()
		if available <= 0 {
			continue
		}
		totalAvailable += available
		if remaining > 0 {
			take := available
			if take > remaining {
				take = remaining
			}
			plan = append(plan, step{lot: lot, qty: take})
			remaining -= take
		}
	}
	if remaining > 0 {
		return nil, domain.NewInsufficientStock(totalAvailable)
	}

	result := &AllocationResult{}
	now := time.Now()
	for _, s := range plan {
		s.lot.Consume(s.qty)
		s.lot.UpdatedAt = now
		if err := lotRepo.UpdateConsumption(ctx, s.lot); err != nil {
			return nil, err
		}
		mov := uc.outMovement(input, s.lot.ID, s.qty)
		if err := movRepo.Create(ctx, mov); err != nil {
			return nil, err
		}
		result.ConsumedLots = append(result.ConsumedLots, ConsumedLot{LotID: s.lot.ID, LotNumber: s.lot.LotNumber, QtyTaken: s.qty})
		result.Movements = append(result.Movements, mov)
	}
	return result, nil
}

// InInput entrada de una devolución o corrección contra un lote concreto.
type InInput struct {
	ProductID string
	LotID     string
	Qty       int
	UnitPrice *decimal.Decimal
	Reference string
	Reason    string
	CreatedBy string
}

// RequestIn revierte consumo de un lote (devolución/corrección). Siempre un
// solo lote y una sola entrada del ledger; un lote EXHAUSTED vuelve a ACTIVE
// si recupera disponibilidad.
func (uc *AllocatorUseCase) RequestIn(ctx context.Context, input InInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.LotID == "" || input.Qty <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.StockMovement
	run := func() error {
		return uc.txRunner.Run(ctx, func(lotRepo repository.LotRepository, movRepo repository.StockMovementRepository) error {
			lot, err := lotRepo.GetForUpdate(ctx, input.LotID)
			if err != nil {
				return err
			}
			if lot == nil || lot.ProductID != input.ProductID {
				return domain.ErrNotFound
			}
			// No se puede devolver más de lo consumido: quantityUsed nunca baja de cero.
			if input.Qty > lot.QuantityUsed {
				return domain.ErrInvalidInput
			}
			lot.Restock(input.Qty)
			lot.UpdatedAt = time.Now()
			if err := lotRepo.UpdateConsumption(ctx, lot); err != nil {
				return err
			}
			mov = &entity.StockMovement{
				ID:        uuid.New().String(),
				ProductID: input.ProductID,
				LotID:     &input.LotID,
				Type:      entity.MovementTypeIN,
				Qty:       input.Qty,
				UnitPrice: input.UnitPrice,
				Reference: input.Reference,
				Reason:    input.Reason,
				CreatedBy: orSystem(input.CreatedBy),
				CreatedAt: time.Now(),
			}
			return movRepo.Create(ctx, mov)
		})
	}
	if err := uc.withRetry(ctx, run); err != nil {
		return nil, err
	}
	return mov, nil
}

// withRetry reintenta fn ante ErrTxConflict con backoff exponencial. Cualquier
// otro error corta de inmediato.
func (uc *AllocatorUseCase) withRetry(ctx context.Context, fn func() error) error {
	backoff := uc.RetryBackoff
	var err error
	for attempt := 0; attempt <= uc.MaxRetries; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrTxConflict) {
			return err
		}
		if attempt == uc.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func (uc *AllocatorUseCase) outMovement(input OutInput, lotID string, qty int) *entity.StockMovement {
	id := lotID
	return &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		LotID:     &id,
		Type:      entity.MovementTypeOUT,
		Qty:       qty,
		UnitPrice: input.UnitPrice,
		Reference: input.Reference,
		Reason:    input.Reason,
		CreatedBy: orSystem(input.CreatedBy),
		CreatedAt: time.Now(),
	}
}
