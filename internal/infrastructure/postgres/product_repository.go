package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, label, category, form, dosage, unit, packaging, manufacturer, price_public, price_cession, tax_percent, min_stock, active, created_at, updated_at`

// ProductRepo lectura del catálogo sobre PostgreSQL. El CRUD del catálogo
// pertenece a otro módulo; este motor solo consulta.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve una página del catálogo ordenada por label.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args, query, pos := productFilterSQL(filter, query, 1)
	query += fmt.Sprintf(" ORDER BY label ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Count devuelve el total del catálogo para el filtro dado.
func (r *ProductRepo) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	query := `SELECT count(*) FROM products WHERE 1=1`
	args, query, _ := productFilterSQL(filter, query, 1)

	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// ListAll devuelve el catálogo completo; lo consume el agregador de snapshots.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY label ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func productFilterSQL(filter repository.ProductFilter, query string, pos int) ([]any, string, int) {
	var args []any
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (label ILIKE $%d OR code ILIKE $%d)", pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	return args, query, pos
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var code, category, form, dosage, unit, packaging, manufacturer *string
	err := row.Scan(
		&p.ID, &code, &p.Label, &category, &form, &dosage, &unit, &packaging, &manufacturer,
		&p.PricePublic, &p.PriceCession, &p.TaxPercent, &p.MinStock, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	assignIfPresent(&p.Code, code)
	assignIfPresent(&p.Category, category)
	assignIfPresent(&p.Form, form)
	assignIfPresent(&p.Dosage, dosage)
	assignIfPresent(&p.Unit, unit)
	assignIfPresent(&p.Packaging, packaging)
	assignIfPresent(&p.Manufacturer, manufacturer)
	return &p, nil
}

func assignIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
