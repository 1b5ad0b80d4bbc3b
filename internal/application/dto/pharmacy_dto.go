package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest body para POST /api/pharmacy/lots (recepción de mercadería).
type CreateLotRequest struct {
	ProductID      string          `json:"product_id"`
	LotNumber      string          `json:"lot_number"`
	Quantity       int             `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	DatePeremption time.Time       `json:"date_peremption"`
	Source         string          `json:"source,omitempty"`
}

// UpdateLotRequest body para PUT /api/pharmacy/lots/:id.
// Solo metadatos: las cantidades no son editables por esta vía; todo cambio
// de cantidad pasa por movimientos de stock que dejan rastro en el ledger.
type UpdateLotRequest struct {
	Status         *string          `json:"status,omitempty"`
	Source         *string          `json:"source,omitempty"`
	DatePeremption *time.Time       `json:"date_peremption,omitempty"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
}

// StockMovementRequest body para POST /api/pharmacy/stock/movement.
// type OUT sin lot_id = salida FEFO agrupada; con lot_id = salida dirigida.
// type IN exige lot_id. type ADJUST exige reason.
type StockMovementRequest struct {
	ProductID string           `json:"product_id"`
	LotID     string           `json:"lot_id,omitempty"`
	Type      string           `json:"type"`
	Qty       int              `json:"qty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// LotDTO representación de un lote en respuestas.
type LotDTO struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductLabel   string          `json:"product_label,omitempty"`
	ProductCode    string          `json:"product_code,omitempty"`
	LotNumber      string          `json:"lot_number"`
	Quantity       int             `json:"quantity"`
	QuantityUsed   int             `json:"quantity_used"`
	Available      int             `json:"available"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	DateEntry      time.Time       `json:"date_entry"`
	DatePeremption time.Time       `json:"date_peremption"`
	Source         string          `json:"source,omitempty"`
	Status         string          `json:"status"`
}

// MovementDTO entrada del ledger en respuestas.
type MovementDTO struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	LotID     *string          `json:"lot_id,omitempty"`
	Type      string           `json:"type"`
	Qty       int              `json:"qty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// ConsumedLotDTO cuánto se tomó de cada lote en una salida agrupada.
type ConsumedLotDTO struct {
	LotID     string `json:"lot_id"`
	LotNumber string `json:"lot_number"`
	QtyTaken  int    `json:"qty_taken"`
}

// AllocationResponse respuesta de una salida de stock.
type AllocationResponse struct {
	ConsumedLots []ConsumedLotDTO `json:"consumed_lots"`
	Movements    []MovementDTO    `json:"movements"`
}

// ProductStockDTO producto del catálogo con su disponibilidad calculada.
type ProductStockDTO struct {
	ID                string           `json:"id"`
	Code              string           `json:"code,omitempty"`
	Label             string           `json:"label"`
	Category          string           `json:"category,omitempty"`
	MinStock          int              `json:"min_stock"`
	PricePublic       *decimal.Decimal `json:"price_public,omitempty"`
	PriceCession      *decimal.Decimal `json:"price_cession,omitempty"`
	Active            bool             `json:"active"`
	AvailableQuantity int              `json:"available_quantity"`
	NextExpiration    *time.Time       `json:"next_expiration,omitempty"`
}

// InventoryRowDTO fila de la valorización de inventario.
type InventoryRowDTO struct {
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code,omitempty"`
	ProductLabel string          `json:"product_label"`
	Quantity     int             `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
	Lots         int             `json:"lots"`
}

// DashboardDTO contadores de GET /api/pharmacy/dashboard.
type DashboardDTO struct {
	Expired        int `json:"expired"`
	NearExpiry     int `json:"near_expiry"`
	OutOfStock     int `json:"out_of_stock"`
	NearOutOfStock int `json:"near_out_of_stock"`
}

// ExpiryAlertDTO lote vencido o próximo a vencer en GET /api/pharmacy/alerts.
type ExpiryAlertDTO struct {
	Type            string    `json:"type"` // EXPIRED | NEAR_EXPIRY
	LotID           string    `json:"lot_id"`
	LotNumber       string    `json:"lot_number"`
	ProductID       string    `json:"product_id"`
	ProductCode     string    `json:"product_code,omitempty"`
	ProductLabel    string    `json:"product_label"`
	DatePeremption  time.Time `json:"date_peremption"`
	DaysUntilExpiry int       `json:"days_until_expiry,omitempty"`
}

// StockAlertDTO producto en ruptura o casi en ruptura.
type StockAlertDTO struct {
	ProductID    string `json:"product_id"`
	ProductCode  string `json:"product_code,omitempty"`
	ProductLabel string `json:"product_label"`
	Quantity     int    `json:"quantity"`
	MinStock     int    `json:"min_stock,omitempty"`
}

// AlertsDTO respuesta de GET /api/pharmacy/alerts.
type AlertsDTO struct {
	Expired        []ExpiryAlertDTO `json:"expired"`
	NearExpiry     []ExpiryAlertDTO `json:"near_expiry"`
	OutOfStock     []StockAlertDTO  `json:"out_of_stock"`
	NearOutOfStock []StockAlertDTO  `json:"near_out_of_stock"`
}

// SettingsDTO configuración de la farmacia en respuestas.
type SettingsDTO struct {
	AlertExpirationDays int             `json:"alert_expiration_days"`
	MinStockAlertRatio  decimal.Decimal `json:"min_stock_alert_ratio"`
	StockMethod         string          `json:"stock_method"`
	EnableNotifications bool            `json:"enable_notifications"`
	NotificationEmail   string          `json:"notification_email,omitempty"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// UpdateSettingsRequest body para PUT /api/pharmacy/settings (merge parcial).
type UpdateSettingsRequest struct {
	AlertExpirationDays *int             `json:"alert_expiration_days,omitempty"`
	MinStockAlertRatio  *decimal.Decimal `json:"min_stock_alert_ratio,omitempty"`
	StockMethod         *string          `json:"stock_method,omitempty"`
	EnableNotifications *bool            `json:"enable_notifications,omitempty"`
	NotificationEmail   *string          `json:"notification_email,omitempty"`
}
