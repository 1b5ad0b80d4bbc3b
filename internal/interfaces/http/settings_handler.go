package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/application/pharmacy"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
)

// SettingsHandler maneja la configuración de la farmacia (protegido).
type SettingsHandler struct {
	settings *pharmacy.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(settings *pharmacy.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings godoc
// @Summary      Configuración de la farmacia
// @Description  Devuelve la configuración, creándola con valores por defecto si no existe.
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.GetOrCreateDefault(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, toSettingsDTO(settings))
}

// UpdateSettings godoc
// @Summary      Actualizar la configuración
// @Description  Merge parcial: solo los campos presentes en el body se modifican.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "campos a modificar"
// @Success      200   {object}  dto.SettingsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido"})
	}
	settings, err := h.settings.Update(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, toSettingsDTO(settings))
}

func toSettingsDTO(s *entity.PharmacySettings) dto.SettingsDTO {
	return dto.SettingsDTO{
		AlertExpirationDays: s.AlertExpirationDays,
		MinStockAlertRatio:  s.MinStockAlertRatio,
		StockMethod:         s.StockMethod,
		EnableNotifications: s.EnableNotifications,
		NotificationEmail:   s.NotificationEmail,
		UpdatedAt:           s.UpdatedAt,
	}
}
