package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-stock/internal/application/pharmacy"
)

// DashboardHandler sirve los contadores del tablero y el detalle de alertas
// (protegido). Ambas vistas salen del mismo snapshot, así los contadores
// siempre coinciden con las listas.
type DashboardHandler struct {
	snapshot *pharmacy.SnapshotUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(snapshot *pharmacy.SnapshotUseCase) *DashboardHandler {
	return &DashboardHandler{snapshot: snapshot}
}

// Dashboard godoc
// @Summary      Contadores del tablero
// @Description  Lotes vencidos, próximos a vencer, productos en ruptura y casi en ruptura.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/dashboard [get]
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.snapshot.Dashboard(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, out)
}

// Alerts godoc
// @Summary      Detalle de alertas
// @Description  Listas de lotes vencidos / próximos a vencer y productos en ruptura / casi en ruptura.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertsDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/alerts [get]
func (h *DashboardHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.snapshot.Alerts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, out)
}
