package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

func TestInitialLotStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Lote que vence en el futuro → ACTIVE
	assert.Equal(t, entity.LotStatusActive, entity.InitialLotStatus(now.AddDate(0, 6, 0), now))

	// Lote recibido ya vencido → QUARANTINE
	assert.Equal(t, entity.LotStatusQuarantine, entity.InitialLotStatus(now.AddDate(0, 0, -1), now))

	// Lote que vence exactamente ahora no está vencido todavía → ACTIVE
	assert.Equal(t, entity.LotStatusActive, entity.InitialLotStatus(now, now))
}

func TestLot_ConsumeYRestock(t *testing.T) {
	lot := &entity.Lot{Quantity: 10, Status: entity.LotStatusActive}

	lot.Consume(4)
	assert.Equal(t, 6, lot.Available())
	assert.Equal(t, entity.LotStatusActive, lot.Status)

	// Consumir todo → EXHAUSTED
	lot.Consume(6)
	assert.Equal(t, 0, lot.Available())
	assert.Equal(t, entity.LotStatusExhausted, lot.Status)

	// Devolución: un lote EXHAUSTED vuelve a ACTIVE al recuperar disponibilidad
	lot.Restock(3)
	assert.Equal(t, 3, lot.Available())
	assert.Equal(t, entity.LotStatusActive, lot.Status)
}

func TestLot_RestockNoBajaDeCero(t *testing.T) {
	lot := &entity.Lot{Quantity: 10, QuantityUsed: 2, Status: entity.LotStatusActive}

	lot.Restock(5) // más de lo consumido
	assert.Equal(t, 0, lot.QuantityUsed)
	assert.Equal(t, 10, lot.Available())
}

func TestLot_QuarantineNoSeLimpiaAutomaticamente(t *testing.T) {
	lot := &entity.Lot{Quantity: 10, Status: entity.LotStatusQuarantine}

	// Consumir y devolver no debe sacar al lote de QUARANTINE mientras quede disponibilidad
	lot.Consume(3)
	assert.Equal(t, entity.LotStatusQuarantine, lot.Status)
	lot.Restock(1)
	assert.Equal(t, entity.LotStatusQuarantine, lot.Status)

	// Pero agotarlo sí lo marca EXHAUSTED
	lot.Consume(8)
	assert.Equal(t, entity.LotStatusExhausted, lot.Status)
}

func TestLot_IsExpired(t *testing.T) {
	asOf := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	lot := &entity.Lot{DatePeremption: asOf}

	// La fecha de corte exacta no cuenta como vencido
	assert.False(t, lot.IsExpired(asOf))
	assert.True(t, lot.IsExpired(asOf.Add(time.Second)))
}
