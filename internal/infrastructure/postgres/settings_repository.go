package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository sobre PostgreSQL.
// La tabla guarda a lo sumo una fila; Get devuelve (nil, nil) si aún no existe.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get obtiene el registro de configuración, o (nil, nil) si no existe.
func (r *SettingsRepo) Get(ctx context.Context) (*entity.PharmacySettings, error) {
	query := `
		SELECT id, alert_expiration_days, min_stock_alert_ratio, stock_method, enable_notifications, notification_email, updated_by, updated_at
		FROM pharmacy_settings LIMIT 1`
	var s entity.PharmacySettings
	var email, updatedBy *string
	err := r.q.QueryRow(ctx, query).Scan(
		&s.ID, &s.AlertExpirationDays, &s.MinStockAlertRatio, &s.StockMethod,
		&s.EnableNotifications, &email, &updatedBy, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if email != nil {
		s.NotificationEmail = *email
	}
	if updatedBy != nil {
		s.UpdatedBy = *updatedBy
	}
	return &s, nil
}

// Create inserta el registro de configuración.
func (r *SettingsRepo) Create(ctx context.Context, settings *entity.PharmacySettings) error {
	query := `
		INSERT INTO pharmacy_settings (id, alert_expiration_days, min_stock_alert_ratio, stock_method, enable_notifications, notification_email, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		settings.ID, settings.AlertExpirationDays, settings.MinStockAlertRatio,
		settings.StockMethod, settings.EnableNotifications,
		nullIfEmpty(settings.NotificationEmail), nullIfEmpty(settings.UpdatedBy), settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

// Update actualiza el registro de configuración existente.
func (r *SettingsRepo) Update(ctx context.Context, settings *entity.PharmacySettings) error {
	query := `
		UPDATE pharmacy_settings
		SET alert_expiration_days = $1, min_stock_alert_ratio = $2, stock_method = $3,
		    enable_notifications = $4, notification_email = $5, updated_by = $6, updated_at = $7
		WHERE id = $8`
	tag, err := r.q.Exec(ctx, query,
		settings.AlertExpirationDays, settings.MinStockAlertRatio, settings.StockMethod,
		settings.EnableNotifications, nullIfEmpty(settings.NotificationEmail),
		nullIfEmpty(settings.UpdatedBy), settings.UpdatedAt, settings.ID,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update settings: fila inexistente")
	}
	return nil
}
