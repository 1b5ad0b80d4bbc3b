package pharmacy_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// memStore es un almacén en memoria compartido por los fakes. El mutex del
// txRunner serializa las transacciones, emulando el bloqueo de filas de
// PostgreSQL a granularidad gruesa.
type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	lots      map[string]*entity.Lot
	movements []*entity.StockMovement
	settings  *entity.PharmacySettings
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		lots:     make(map[string]*entity.Lot),
	}
}

func (s *memStore) addProduct(p *entity.Product) { s.products[p.ID] = p }

func (s *memStore) addLot(l *entity.Lot) {
	c := copyLot(l)
	s.lots[c.ID] = c
}

func copyLot(l *entity.Lot) *entity.Lot {
	c := *l
	return &c
}

func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	return &c
}

// ── TxRunner falso ────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta fn sobre el almacén bajo el mutex y restaura una copia
// previa del estado si fn falla, imitando el commit/rollback transaccional.
type fakeTxRunner struct {
	store *memStore

	// conflictsLeft fuerza ErrTxConflict en los próximos N intentos, para
	// ejercitar la política de reintentos.
	conflictsLeft int
	// failOnMovement hace fallar la creación del movimiento N-ésimo (1-based)
	// dentro de una misma transacción. 0 = nunca falla.
	failOnMovement int

	attempts int
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(repository.LotRepository, repository.StockMovementRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.attempts++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrTxConflict
	}

	// Copia del estado para poder deshacer.
	lotsBackup := make(map[string]*entity.Lot, len(r.store.lots))
	for id, lot := range r.store.lots {
		lotsBackup[id] = copyLot(lot)
	}
	movementsLen := len(r.store.movements)

	movRepo := &fakeMovementRepo{store: r.store, failOn: r.failOnMovement}
	err := fn(&fakeLotRepo{store: r.store}, movRepo)
	if err != nil {
		r.store.lots = lotsBackup
		r.store.movements = r.store.movements[:movementsLen]
		return err
	}
	return nil
}

// ── Repositorios falsos ───────────────────────────────────────────────────────

type fakeLotRepo struct {
	store *memStore
}

func (f *fakeLotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	for _, existing := range f.store.lots {
		if existing.ProductID == lot.ProductID && existing.LotNumber == lot.LotNumber {
			return domain.ErrDuplicate
		}
	}
	f.store.lots[lot.ID] = copyLot(lot)
	return nil
}

func (f *fakeLotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	lot, ok := f.store.lots[id]
	if !ok {
		return nil, nil
	}
	return copyLot(lot), nil
}

func (f *fakeLotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeLotRepo) List(ctx context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range f.store.lots {
		if filter.ProductID != "" && lot.ProductID != filter.ProductID {
			continue
		}
		if filter.Status != "" && lot.Status != filter.Status {
			continue
		}
		out = append(out, copyLot(lot))
	}
	sortLotsFEFO(out)
	return out, nil
}

func (f *fakeLotRepo) ListAll(ctx context.Context) ([]*entity.Lot, error) {
	return f.List(ctx, repository.LotFilter{})
}

func (f *fakeLotRepo) ListForAllocation(ctx context.Context, productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range f.store.lots {
		if lot.ProductID != productID || lot.Status == entity.LotStatusExhausted {
			continue
		}
		out = append(out, copyLot(lot))
	}
	sortLotsFEFO(out)
	return out, nil
}

func (f *fakeLotRepo) UpdateConsumption(ctx context.Context, lot *entity.Lot) error {
	if _, ok := f.store.lots[lot.ID]; !ok {
		return domain.ErrNotFound
	}
	f.store.lots[lot.ID] = copyLot(lot)
	return nil
}

func (f *fakeLotRepo) UpdateMetadata(ctx context.Context, lot *entity.Lot) error {
	return f.UpdateConsumption(ctx, lot)
}

func sortLotsFEFO(lots []*entity.Lot) {
	sort.Slice(lots, func(i, j int) bool {
		if lots[i].DatePeremption.Equal(lots[j].DatePeremption) {
			return lots[i].ID < lots[j].ID
		}
		return lots[i].DatePeremption.Before(lots[j].DatePeremption)
	})
}

type fakeMovementRepo struct {
	store   *memStore
	failOn  int
	created int
}

func (f *fakeMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	f.created++
	if f.failOn > 0 && f.created == f.failOn {
		return errInjectedFailure
	}
	f.store.movements = append(f.store.movements, copyMovement(movement))
	return nil
}

func (f *fakeMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, mov := range f.store.movements {
		if !matchMovement(mov, filter) {
			continue
		}
		out = append(out, copyMovement(mov))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeMovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	n := 0
	for _, mov := range f.store.movements {
		if matchMovement(mov, filter) {
			n++
		}
	}
	return n, nil
}

func matchMovement(mov *entity.StockMovement, filter repository.MovementFilter) bool {
	if filter.ProductID != "" && mov.ProductID != filter.ProductID {
		return false
	}
	if filter.LotID != "" && (mov.LotID == nil || *mov.LotID != filter.LotID) {
		return false
	}
	if filter.Type != "" && mov.Type != filter.Type {
		return false
	}
	if filter.From != nil && mov.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && mov.CreatedAt.After(*filter.To) {
		return false
	}
	return true
}

type fakeProductRepo struct {
	store *memStore
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (f *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	all, _ := f.ListAll(ctx)
	var out []*entity.Product
	for _, p := range all {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			s := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Label), s) && !strings.Contains(strings.ToLower(p.Code), s) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	out, _ := f.List(ctx, filter)
	return len(out), nil
}

func (f *fakeProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(f.store.products))
	for _, p := range f.store.products {
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

type fakeSettingsRepo struct {
	store *memStore
}

func (f *fakeSettingsRepo) Get(ctx context.Context) (*entity.PharmacySettings, error) {
	if f.store.settings == nil {
		return nil, nil
	}
	c := *f.store.settings
	return &c, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, settings *entity.PharmacySettings) error {
	c := *settings
	f.store.settings = &c
	return nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, settings *entity.PharmacySettings) error {
	if f.store.settings == nil {
		return domain.ErrNotFound
	}
	c := *settings
	f.store.settings = &c
	return nil
}

var errInjectedFailure = timeoutError{}

// timeoutError error arbitrario para simular fallas de infraestructura.
type timeoutError struct{}

func (timeoutError) Error() string { return "fallo inyectado" }

// fechas de conveniencia para los tests
var (
	testNow    = time.Now()
	inSixMonth = testNow.AddDate(0, 6, 0)
	inOneYear  = testNow.AddDate(1, 0, 0)
)
