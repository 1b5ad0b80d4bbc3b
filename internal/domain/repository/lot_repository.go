package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

// LotFilter filtros de listado de lotes.
type LotFilter struct {
	ProductID      string
	Status         string
	Expired        bool       // solo lotes con fecha de vencimiento pasada
	NearExpireDays int        // solo lotes que vencen dentro de N días (y aún no vencidos)
	AsOf           *time.Time // referencia temporal para Expired/NearExpireDays; nil = ahora
}

// LotRepository define el puerto de persistencia para lotes (DIP).
// Los lotes nunca se borran; la cantidad recibida nunca cambia después de
// Create. Los consumos pasan por UpdateConsumption dentro de una transacción.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	List(ctx context.Context, filter LotFilter) ([]*entity.Lot, error)
	// ListAll devuelve todos los lotes; lo consume el agregador de snapshots.
	ListAll(ctx context.Context) ([]*entity.Lot, error)

	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE). Solo tiene
	// sentido sobre un repositorio atado a una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	// ListForAllocation devuelve los lotes no agotados de un producto,
	// bloqueados y ordenados por fecha de vencimiento ascendente con desempate
	// por id, el orden que exige la asignación FEFO determinista.
	ListForAllocation(ctx context.Context, productID string) ([]*entity.Lot, error)

	// UpdateConsumption persiste quantity_used y status recalculado.
	UpdateConsumption(ctx context.Context, lot *entity.Lot) error
	// UpdateMetadata persiste solo campos no cuantitativos (status manual,
	// source, fechas, costo). Las cantidades jamás pasan por aquí.
	UpdateMetadata(ctx context.Context, lot *entity.Lot) error
}
