package pharmacy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/domain"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// SettingsUseCase gestiona el registro único de configuración de la farmacia.
type SettingsUseCase struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settingsRepo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo}
}

// GetOrCreateDefault devuelve la configuración, creándola con los valores por
// defecto si todavía no existe.
func (uc *SettingsUseCase) GetOrCreateDefault(ctx context.Context) (*entity.PharmacySettings, error) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = entity.DefaultPharmacySettings()
	settings.ID = uuid.New().String()
	settings.UpdatedAt = time.Now()
	if err := uc.settingsRepo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update mezcla los campos presentes sobre la configuración existente (o sobre
// los valores por defecto si aún no existe) y valida rangos:
// alertExpirationDays >= 0 y minStockAlertRatio > 0.
func (uc *SettingsUseCase) Update(ctx context.Context, input dto.UpdateSettingsRequest, updatedBy string) (*entity.PharmacySettings, error) {
	if input.AlertExpirationDays != nil && *input.AlertExpirationDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.MinStockAlertRatio != nil && !input.MinStockAlertRatio.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.StockMethod != nil && *input.StockMethod != entity.StockMethodFIFO {
		return nil, domain.ErrInvalidInput
	}

	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	create := settings == nil
	if create {
		settings = entity.DefaultPharmacySettings()
		settings.ID = uuid.New().String()
	}

	if input.AlertExpirationDays != nil {
		settings.AlertExpirationDays = *input.AlertExpirationDays
	}
	if input.MinStockAlertRatio != nil {
		settings.MinStockAlertRatio = *input.MinStockAlertRatio
	}
	if input.StockMethod != nil {
		settings.StockMethod = *input.StockMethod
	}
	if input.EnableNotifications != nil {
		settings.EnableNotifications = *input.EnableNotifications
	}
	if input.NotificationEmail != nil {
		settings.NotificationEmail = *input.NotificationEmail
	}
	settings.UpdatedBy = updatedBy
	settings.UpdatedAt = time.Now()

	if create {
		err = uc.settingsRepo.Create(ctx, settings)
	} else {
		err = uc.settingsRepo.Update(ctx, settings)
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}
