package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/application/pharmacy"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// LotHandler maneja las peticiones HTTP de lotes (protegido).
type LotHandler struct {
	lots *pharmacy.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(lots *pharmacy.LotUseCase) *LotHandler {
	return &LotHandler{lots: lots}
}

// CreateLot godoc
// @Summary      Recepción de un lote
// @Description  Registra la llegada de mercadería: crea el lote y su movimiento IN en una sola transacción.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "product_id, lot_number, quantity, unit_cost, date_peremption, source"
// @Success      201   {object}  dto.LotDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/lots [post]
func (h *LotHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido"})
	}
	lot, err := h.lots.CreateLot(c.Context(), pharmacy.CreateLotInput{
		ProductID:      in.ProductID,
		LotNumber:      in.LotNumber,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		DatePeremption: in.DatePeremption,
		Source:         in.Source,
		CreatedBy:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, toLotDTO(lot, nil))
}

// ListLots godoc
// @Summary      Listado de lotes
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id        query  string  false  "Filtrar por producto (UUID)"
// @Param        status            query  string  false  "ACTIVE | QUARANTINE | EXHAUSTED"
// @Param        expired           query  bool    false  "Solo lotes vencidos"
// @Param        near_expire_days  query  int     false  "Lotes que vencen dentro de N días"
// @Success      200  {array}   dto.LotDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/lots [get]
func (h *LotHandler) ListLots(c *fiber.Ctx) error {
	filter := repository.LotFilter{
		ProductID: c.Query("product_id"),
		Status:    c.Query("status"),
	}
	if v := c.Query("expired"); v != "" {
		expired, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "expired debe ser booleano"})
		}
		filter.Expired = expired
	}
	if v := c.Query("near_expire_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "near_expire_days debe ser un entero positivo"})
		}
		filter.NearExpireDays = days
	}

	views, err := h.lots.ListLots(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LotDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toLotDTO(v.Lot, v.Product))
	}
	return respondData(c, fiber.StatusOK, out)
}

// GetLot godoc
// @Summary      Detalle de un lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote"
// @Success      200  {object}  dto.LotDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/lots/{id} [get]
func (h *LotHandler) GetLot(c *fiber.Ctx) error {
	view, err := h.lots.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, toLotDTO(view.Lot, view.Product))
}

// UpdateLot godoc
// @Summary      Editar metadatos de un lote
// @Description  Solo estado, procedencia, fecha de vencimiento o costo. Las cantidades no son editables por esta vía.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del lote"
// @Param        body  body  dto.UpdateLotRequest  true  "campos a editar"
// @Success      200   {object}  dto.LotDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/lots/{id} [put]
func (h *LotHandler) UpdateLot(c *fiber.Ctx) error {
	var in dto.UpdateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido"})
	}
	lot, err := h.lots.UpdateLot(c.Context(), c.Params("id"), pharmacy.UpdateLotInput{
		Status:         in.Status,
		Source:         in.Source,
		DatePeremption: in.DatePeremption,
		UnitCost:       in.UnitCost,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, toLotDTO(lot, nil))
}

func toLotDTO(lot *entity.Lot, product *entity.Product) dto.LotDTO {
	out := dto.LotDTO{
		ID:             lot.ID,
		ProductID:      lot.ProductID,
		LotNumber:      lot.LotNumber,
		Quantity:       lot.Quantity,
		QuantityUsed:   lot.QuantityUsed,
		Available:      lot.Available(),
		UnitCost:       lot.UnitCost,
		DateEntry:      lot.DateEntry,
		DatePeremption: lot.DatePeremption,
		Source:         lot.Source,
		Status:         lot.Status,
	}
	if product != nil {
		out.ProductLabel = product.Label
		out.ProductCode = product.Code
	}
	return out
}

// parseAsOf interpreta el parámetro as_of (RFC 3339 o fecha simple). Vacío = ahora.
func parseAsOf(v string) (time.Time, error) {
	if v == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
