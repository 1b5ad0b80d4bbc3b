package repository

import (
	"context"

	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

// SettingsRepository define el puerto del registro único de configuración.
// Get devuelve (nil, nil) si todavía no existe; el caso de uso lo crea
// perezosamente con los valores por defecto.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.PharmacySettings, error)
	Create(ctx context.Context, settings *entity.PharmacySettings) error
	Update(ctx context.Context, settings *entity.PharmacySettings) error
}
