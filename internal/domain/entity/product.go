package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo farmacéutico.
// El catálogo lo administra otro módulo: este motor lo lee (sobre todo
// MinStock para las alertas de reposición) pero nunca lo muta.
type Product struct {
	ID           string
	Code         string // código opcional, único si está presente
	Label        string
	Category     string
	Form         string // comprimido, jarabe, inyectable...
	Dosage       string
	Unit         string
	Packaging    string
	Manufacturer string
	PricePublic  *decimal.Decimal
	PriceCession *decimal.Decimal
	TaxPercent   *decimal.Decimal
	MinStock     int // umbral de reposición
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
