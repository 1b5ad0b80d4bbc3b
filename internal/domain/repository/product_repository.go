package repository

import (
	"context"

	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

// ProductFilter filtros de listado del catálogo.
type ProductFilter struct {
	Category string
	Search   string // busca en label y code, case-insensitive
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de lectura del catálogo (DIP).
// El motor de stock solo lee productos; el CRUD del catálogo vive en otro módulo.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	// ListAll devuelve el catálogo completo; lo consume el agregador de snapshots.
	ListAll(ctx context.Context) ([]*entity.Product, error)
}
