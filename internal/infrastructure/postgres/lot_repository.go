package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = `id, product_id, lot_number, quantity, quantity_used, unit_cost, date_entry, date_peremption, source, status, created_at, updated_at`

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
// No existe Delete: los lotes se retienen siempre por auditoría.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// Create persiste un lote nuevo. La unicidad de (product_id, lot_number) la
// garantiza un constraint único; su violación se devuelve como ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, product_id, lot_number, quantity, quantity_used, unit_cost, date_entry, date_peremption, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.ProductID, lot.LotNumber, lot.Quantity, lot.QuantityUsed,
		lot.UnitCost, lot.DateEntry, lot.DatePeremption, nullIfEmpty(lot.Source),
		lot.Status, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve (nil, nil) si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// GetForUpdate obtiene un lote bloqueando la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return lot, nil
}

// ListForAllocation devuelve los lotes no agotados de un producto bloqueados
// y en el orden que exige la asignación FEFO: vencimiento ascendente con
// desempate por id para que la asignación sea determinista y auditable.
func (r *LotRepo) ListForAllocation(ctx context.Context, productID string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND status <> $2
		ORDER BY date_peremption ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, productID, entity.LotStatusExhausted)
	if err != nil {
		return nil, fmt.Errorf("list lots for allocation: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

// List lista lotes con filtros, ordenados por fecha de vencimiento ascendente.
func (r *LotRepo) List(ctx context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
	var args []any
	pos := 1

	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	asOf := time.Now()
	if filter.AsOf != nil {
		asOf = *filter.AsOf
	}
	if filter.Expired {
		query += fmt.Sprintf(" AND date_peremption < $%d", pos)
		args = append(args, asOf)
		pos++
	} else if filter.NearExpireDays > 0 {
		query += fmt.Sprintf(" AND date_peremption >= $%d AND date_peremption <= $%d", pos, pos+1)
		args = append(args, asOf, asOf.AddDate(0, 0, filter.NearExpireDays))
		pos += 2
	}
	query += " ORDER BY date_peremption ASC, id ASC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

// ListAll devuelve todos los lotes; lo consume el agregador de snapshots.
func (r *LotRepo) ListAll(ctx context.Context) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots ORDER BY date_peremption ASC, id ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all lots: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

// UpdateConsumption persiste quantity_used y status. La cantidad recibida no
// se toca nunca por esta vía.
func (r *LotRepo) UpdateConsumption(ctx context.Context, lot *entity.Lot) error {
	query := `
		UPDATE lots SET quantity_used = $1, status = $2, updated_at = $3
		WHERE id = $4`
	tag, err := r.q.Exec(ctx, query, lot.QuantityUsed, lot.Status, lot.UpdatedAt, lot.ID)
	if err != nil {
		return fmt.Errorf("update lot consumption: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMetadata persiste los campos no cuantitativos de un lote.
func (r *LotRepo) UpdateMetadata(ctx context.Context, lot *entity.Lot) error {
	query := `
		UPDATE lots SET status = $1, source = $2, date_peremption = $3, unit_cost = $4, updated_at = $5
		WHERE id = $6`
	tag, err := r.q.Exec(ctx, query, lot.Status, nullIfEmpty(lot.Source), lot.DatePeremption, lot.UnitCost, lot.UpdatedAt, lot.ID)
	if err != nil {
		return fmt.Errorf("update lot metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	var source *string
	err := row.Scan(
		&l.ID, &l.ProductID, &l.LotNumber, &l.Quantity, &l.QuantityUsed,
		&l.UnitCost, &l.DateEntry, &l.DatePeremption, &source, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if source != nil {
		l.Source = *source
	}
	return &l, nil
}

func collectLots(rows pgx.Rows) ([]*entity.Lot, error) {
	var list []*entity.Lot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
