package pharmacy

import (
	"context"
	"time"

	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/pharmacy"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// SnapshotUseCase sirve las vistas de solo lectura derivadas del estado de los
// lotes: dashboard, alertas, valorización de inventario y catálogo con
// disponibilidad. Todas son proyecciones de pharmacy.ComputeSnapshot; ninguna
// reimplementa umbrales por su cuenta.
type SnapshotUseCase struct {
	productRepo  repository.ProductRepository
	lotRepo      repository.LotRepository
	settingsRepo repository.SettingsRepository
}

// NewSnapshotUseCase construye el caso de uso.
func NewSnapshotUseCase(productRepo repository.ProductRepository, lotRepo repository.LotRepository, settingsRepo repository.SettingsRepository) *SnapshotUseCase {
	return &SnapshotUseCase{productRepo: productRepo, lotRepo: lotRepo, settingsRepo: settingsRepo}
}

// snapshot carga productos, lotes y configuración y computa el snapshot a asOf.
// Si la configuración aún no existe se usan los valores por defecto sin
// persistirlos; la creación perezosa es responsabilidad del caso de uso de
// configuración.
func (uc *SnapshotUseCase) snapshot(ctx context.Context, asOf time.Time) (*pharmacy.Snapshot, error) {
	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	lots, err := uc.lotRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return pharmacy.ComputeSnapshot(products, lots, settings, asOf), nil
}

// Dashboard devuelve los contadores del tablero.
func (uc *SnapshotUseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	snap, err := uc.snapshot(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.DashboardDTO{
		Expired:        snap.Counts.Expired,
		NearExpiry:     snap.Counts.NearExpiry,
		OutOfStock:     snap.Counts.OutOfStock,
		NearOutOfStock: snap.Counts.NearOutOfStock,
	}, nil
}

// Alerts devuelve las listas de alertas: el detalle de lo que el dashboard
// cuenta.
func (uc *SnapshotUseCase) Alerts(ctx context.Context) (*dto.AlertsDTO, error) {
	snap, err := uc.snapshot(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	out := &dto.AlertsDTO{
		Expired:        make([]dto.ExpiryAlertDTO, 0, len(snap.ExpiredLots)),
		NearExpiry:     make([]dto.ExpiryAlertDTO, 0, len(snap.NearExpiryLots)),
		OutOfStock:     []dto.StockAlertDTO{},
		NearOutOfStock: []dto.StockAlertDTO{},
	}
	for _, a := range snap.ExpiredLots {
		out.Expired = append(out.Expired, dto.ExpiryAlertDTO{
			Type: "EXPIRED", LotID: a.LotID, LotNumber: a.LotNumber,
			ProductID: a.ProductID, ProductCode: a.ProductCode, ProductLabel: a.ProductLabel,
			DatePeremption: a.DatePeremption,
		})
	}
	for _, a := range snap.NearExpiryLots {
		out.NearExpiry = append(out.NearExpiry, dto.ExpiryAlertDTO{
			Type: "NEAR_EXPIRY", LotID: a.LotID, LotNumber: a.LotNumber,
			ProductID: a.ProductID, ProductCode: a.ProductCode, ProductLabel: a.ProductLabel,
			DatePeremption: a.DatePeremption, DaysUntilExpiry: a.DaysUntilExpiry,
		})
	}
	for _, p := range snap.Products {
		if p.OutOfStock {
			out.OutOfStock = append(out.OutOfStock, dto.StockAlertDTO{
				ProductID: p.ProductID, ProductCode: p.ProductCode, ProductLabel: p.ProductLabel,
				Quantity: 0,
			})
		} else if p.NearOutOfStock {
			out.NearOutOfStock = append(out.NearOutOfStock, dto.StockAlertDTO{
				ProductID: p.ProductID, ProductCode: p.ProductCode, ProductLabel: p.ProductLabel,
				Quantity: p.AvailableQty, MinStock: p.MinStock,
			})
		}
	}
	return out, nil
}

// Inventory devuelve la valorización de inventario a la fecha dada.
func (uc *SnapshotUseCase) Inventory(ctx context.Context, asOf time.Time) ([]dto.InventoryRowDTO, error) {
	snap, err := uc.snapshot(ctx, asOf)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.InventoryRowDTO, 0, len(snap.Products))
	for _, p := range snap.Products {
		rows = append(rows, dto.InventoryRowDTO{
			ProductID:    p.ProductID,
			ProductCode:  p.ProductCode,
			ProductLabel: p.ProductLabel,
			Quantity:     p.AvailableQty,
			Value:        p.Value,
			Lots:         p.LotCount,
		})
	}
	return rows, nil
}

// ListProducts devuelve una página del catálogo con la disponibilidad y la
// próxima fecha de vencimiento calculadas por el agregador.
func (uc *SnapshotUseCase) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]dto.ProductStockDTO, int, error) {
	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	lots, err := uc.lotRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, 0, err
	}

	snap := pharmacy.ComputeSnapshot(products, lots, settings, time.Now())
	out := make([]dto.ProductStockDTO, 0, len(products))
	for i, p := range products {
		pa := snap.Products[i]
		out = append(out, productStockDTO(p, pa))
	}
	return out, total, nil
}

// GetProduct devuelve un producto con sus lotes y disponibilidad.
func (uc *SnapshotUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductStockDTO, []*entity.Lot, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	lots, err := uc.lotRepo.List(ctx, repository.LotFilter{ProductID: id})
	if err != nil {
		return nil, nil, err
	}
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	snap := pharmacy.ComputeSnapshot([]*entity.Product{product}, lots, settings, time.Now())
	view := productStockDTO(product, snap.Products[0])
	return &view, lots, nil
}

func productStockDTO(p *entity.Product, pa pharmacy.ProductAvailability) dto.ProductStockDTO {
	return dto.ProductStockDTO{
		ID:                p.ID,
		Code:              p.Code,
		Label:             p.Label,
		Category:          p.Category,
		MinStock:          p.MinStock,
		PricePublic:       p.PricePublic,
		PriceCession:      p.PriceCession,
		Active:            p.Active,
		AvailableQuantity: pa.AvailableQty,
		NextExpiration:    pa.NextExpiration,
	}
}
