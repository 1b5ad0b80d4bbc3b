package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de consumo de stock soportados.
const (
	StockMethodFIFO = "FIFO" // primero en vencer, primero en salir (FEFO)
)

// PharmacySettings es el registro único de configuración de la farmacia.
// Se crea perezosamente con los valores por defecto en la primera lectura.
type PharmacySettings struct {
	ID                  string
	AlertExpirationDays int             // ventana de alerta de vencimiento
	MinStockAlertRatio  decimal.Decimal // factor sobre MinStock para "casi en ruptura"
	StockMethod         string
	EnableNotifications bool
	NotificationEmail   string
	UpdatedBy           string
	UpdatedAt           time.Time
}

// DefaultPharmacySettings devuelve la configuración por defecto documentada.
func DefaultPharmacySettings() *PharmacySettings {
	return &PharmacySettings{
		AlertExpirationDays: 30,
		MinStockAlertRatio:  decimal.NewFromFloat(1.2),
		StockMethod:         StockMethodFIFO,
		EnableNotifications: true,
	}
}
