// Package pharmacy contiene la lógica de dominio pura del motor de stock:
// la clasificación de disponibilidad, vencimiento y ruptura que consumen el
// dashboard, las alertas y la valorización de inventario. Es el único lugar
// donde viven estos umbrales; las tres vistas son proyecciones de una misma
// función para que no diverjan.
package pharmacy

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

// ProductAvailability es la situación de un producto en el snapshot.
type ProductAvailability struct {
	ProductID      string
	ProductCode    string
	ProductLabel   string
	AvailableQty   int
	Value          decimal.Decimal // disponible × costo unitario, sumado por lote
	LotCount       int             // lotes con disponibilidad que aportan al total
	MinStock       int
	NextExpiration *time.Time
	OutOfStock     bool
	NearOutOfStock bool
}

// LotAlert es un lote vencido o próximo a vencer.
type LotAlert struct {
	LotID           string
	LotNumber       string
	ProductID       string
	ProductCode     string
	ProductLabel    string
	DatePeremption  time.Time
	AvailableQty    int
	DaysUntilExpiry int // solo significativo en próximos a vencer
}

// SnapshotCounts son los contadores del dashboard. Por construcción coinciden
// con los largos de las listas del snapshot.
type SnapshotCounts struct {
	Expired        int
	NearExpiry     int
	OutOfStock     int
	NearOutOfStock int
}

// Snapshot es el resultado del agregador: estado derivado completo del stock
// a una fecha dada.
type Snapshot struct {
	AsOf           time.Time
	Products       []ProductAvailability
	ExpiredLots    []LotAlert
	NearExpiryLots []LotAlert
	Counts         SnapshotCounts
}

// ComputeSnapshot clasifica lotes y productos a la fecha asOf. Función pura:
// mismas entradas, mismo resultado.
//
// Reglas:
//   - disponible por producto: suma de (quantity - quantityUsed) sobre lotes
//     no EXHAUSTED y no vencidos a asOf (regla por fecha, uniforme);
//   - vencido: datePeremption < asOf y no EXHAUSTED;
//   - próximo a vencer: asOf <= datePeremption <= asOf + alertExpirationDays;
//   - ruptura: disponible <= 0 (un producto sin lotes cuenta como ruptura);
//   - casi en ruptura: 0 < disponible <= minStock × minStockAlertRatio.
func ComputeSnapshot(products []*entity.Product, lots []*entity.Lot, settings *entity.PharmacySettings, asOf time.Time) *Snapshot {
	if settings == nil {
		settings = entity.DefaultPharmacySettings()
	}
	expiryThreshold := asOf.AddDate(0, 0, settings.AlertExpirationDays)

	snap := &Snapshot{AsOf: asOf}

	productByID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	lotsByProduct := make(map[string][]*entity.Lot, len(products))
	for _, lot := range lots {
		lotsByProduct[lot.ProductID] = append(lotsByProduct[lot.ProductID], lot)

		if lot.Status == entity.LotStatusExhausted {
			continue
		}
		if lot.IsExpired(asOf) {
			snap.ExpiredLots = append(snap.ExpiredLots, lotAlert(lot, productByID[lot.ProductID], asOf))
		} else if !lot.DatePeremption.After(expiryThreshold) {
			snap.NearExpiryLots = append(snap.NearExpiryLots, lotAlert(lot, productByID[lot.ProductID], asOf))
		}
	}

	for _, product := range products {
		pa := ProductAvailability{
			ProductID:    product.ID,
			ProductCode:  product.Code,
			ProductLabel: product.Label,
			MinStock:     product.MinStock,
			Value:        decimal.Zero,
		}

		productLots := lotsByProduct[product.ID]
		sort.Slice(productLots, func(i, j int) bool {
			if productLots[i].DatePeremption.Equal(productLots[j].DatePeremption) {
				return productLots[i].ID < productLots[j].ID
			}
			return productLots[i].DatePeremption.Before(productLots[j].DatePeremption)
		})

		for _, lot := range productLots {
			if lot.Status == entity.LotStatusExhausted || lot.IsExpired(asOf) {
				continue
			}
			avail := lot.Available()
			if avail <= 0 {
				continue
			}
			pa.AvailableQty += avail
			pa.Value = pa.Value.Add(lot.UnitCost.Mul(decimal.NewFromInt(int64(avail))))
			pa.LotCount++
			if pa.NextExpiration == nil {
				exp := lot.DatePeremption
				pa.NextExpiration = &exp
			}
		}

		if pa.AvailableQty <= 0 {
			pa.OutOfStock = true
			snap.Counts.OutOfStock++
		} else {
			threshold := decimal.NewFromInt(int64(product.MinStock)).Mul(settings.MinStockAlertRatio)
			if decimal.NewFromInt(int64(pa.AvailableQty)).LessThanOrEqual(threshold) {
				pa.NearOutOfStock = true
				snap.Counts.NearOutOfStock++
			}
		}
		snap.Products = append(snap.Products, pa)
	}

	snap.Counts.Expired = len(snap.ExpiredLots)
	snap.Counts.NearExpiry = len(snap.NearExpiryLots)
	return snap
}

// DaysUntilExpiry devuelve los días hasta el vencimiento, redondeando hacia
// arriba. Solo se usa para presentación en la proyección de alertas.
func DaysUntilExpiry(datePeremption, asOf time.Time) int {
	d := datePeremption.Sub(asOf)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func lotAlert(lot *entity.Lot, product *entity.Product, asOf time.Time) LotAlert {
	alert := LotAlert{
		LotID:           lot.ID,
		LotNumber:       lot.LotNumber,
		ProductID:       lot.ProductID,
		DatePeremption:  lot.DatePeremption,
		AvailableQty:    lot.Available(),
		DaysUntilExpiry: DaysUntilExpiry(lot.DatePeremption, asOf),
	}
	if product != nil {
		alert.ProductCode = product.Code
		alert.ProductLabel = product.Label
	}
	return alert
}
