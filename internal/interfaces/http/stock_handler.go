package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/application/pharmacy"
	"github.com/tu-usuario/pharma-stock/internal/domain/entity"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del ledger de movimientos y de la
// valorización de inventario (protegido).
type StockHandler struct {
	allocator *pharmacy.AllocatorUseCase
	ledger    *pharmacy.LedgerUseCase
	snapshot  *pharmacy.SnapshotUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(allocator *pharmacy.AllocatorUseCase, ledger *pharmacy.LedgerUseCase, snapshot *pharmacy.SnapshotUseCase) *StockHandler {
	return &StockHandler{allocator: allocator, ledger: ledger, snapshot: snapshot}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  OUT sin lot_id = salida FEFO agrupada; OUT con lot_id = salida dirigida; IN exige lot_id (devolución/corrección); ADJUST exige reason y solo escribe en el ledger.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, type, qty, lot_id/unit_price/reference/reason según el tipo"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pharmacy/stock/movement [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)

	switch in.Type {
	case entity.MovementTypeOUT:
		result, err := h.allocator.RequestOut(c.Context(), pharmacy.OutInput{
			ProductID: in.ProductID,
			LotID:     in.LotID,
			Qty:       in.Qty,
			UnitPrice: in.UnitPrice,
			Reference: in.Reference,
			Reason:    in.Reason,
			CreatedBy: userID,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, toAllocationResponse(result))

	case entity.MovementTypeIN:
		if in.LotID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "lot_id requerido para movimientos IN"})
		}
		mov, err := h.allocator.RequestIn(c.Context(), pharmacy.InInput{
			ProductID: in.ProductID,
			LotID:     in.LotID,
			Qty:       in.Qty,
			UnitPrice: in.UnitPrice,
			Reference: in.Reference,
			Reason:    in.Reason,
			CreatedBy: userID,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, toMovementDTO(mov))

	case entity.MovementTypeADJUST:
		mov, err := h.ledger.RegisterAdjust(c.Context(), pharmacy.AdjustInput{
			ProductID: in.ProductID,
			LotID:     in.LotID,
			Qty:       in.Qty,
			UnitPrice: in.UnitPrice,
			Reference: in.Reference,
			Reason:    in.Reason,
			CreatedBy: userID,
		})
		if err != nil {
			return respondError(c, err)
		}
		return respondData(c, fiber.StatusCreated, toMovementDTO(mov))

	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "type debe ser IN, OUT o ADJUST"})
	}
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        lot_id      query  string  false  "Filtrar por lote"
// @Param        type        query  string  false  "IN | OUT | ADJUST"
// @Param        from        query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (RFC 3339 o YYYY-MM-DD)"
// @Param        page        query  int     false  "Página (desde 1)"
// @Param        limit       query  int     false  "Tamaño de página (máx 100)"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "paginación inválida"})
	}
	page.DefaultPage(20)

	filter := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		LotID:     c.Query("lot_id"),
		Type:      c.Query("type"),
		Limit:     page.Limit,
		Offset:    page.Offset(),
	}
	if filter.Type != "" && !entity.ValidMovementType(filter.Type) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "type debe ser IN, OUT o ADJUST"})
	}
	var err error
	if filter.From, err = parseTimeQuery(c.Query("from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "from inválido"})
	}
	if filter.To, err = parseTimeQuery(c.Query("to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "to inválido"})
	}

	movements, total, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, mov := range movements {
		out = append(out, toMovementDTO(mov))
	}
	return respondPage(c, out, dto.NewPagination(page.Page, page.Limit, total))
}

// Inventory godoc
// @Summary      Valorización de inventario
// @Description  Cantidad disponible, valor a costo y número de lotes por producto, a la fecha indicada.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte (RFC 3339 o YYYY-MM-DD). Vacío = ahora."
// @Success      200  {array}   dto.InventoryRowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/stock/inventory [get]
func (h *StockHandler) Inventory(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c.Query("as_of"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "as_of inválido"})
	}
	rows, err := h.snapshot.Inventory(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, rows)
}

func toMovementDTO(mov *entity.StockMovement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:        mov.ID,
		ProductID: mov.ProductID,
		LotID:     mov.LotID,
		Type:      mov.Type,
		Qty:       mov.Qty,
		UnitPrice: mov.UnitPrice,
		Reference: mov.Reference,
		Reason:    mov.Reason,
		CreatedBy: mov.CreatedBy,
		CreatedAt: mov.CreatedAt,
	}
}

func toAllocationResponse(result *pharmacy.AllocationResult) dto.AllocationResponse {
	out := dto.AllocationResponse{
		ConsumedLots: make([]dto.ConsumedLotDTO, 0, len(result.ConsumedLots)),
		Movements:    make([]dto.MovementDTO, 0, len(result.Movements)),
	}
	for _, cl := range result.ConsumedLots {
		out.ConsumedLots = append(out.ConsumedLots, dto.ConsumedLotDTO{LotID: cl.LotID, LotNumber: cl.LotNumber, QtyTaken: cl.QtyTaken})
	}
	for _, mov := range result.Movements {
		out.Movements = append(out.Movements, toMovementDTO(mov))
	}
	return out
}

// parseTimeQuery interpreta filtros de fecha opcionales; vacío = sin filtro.
func parseTimeQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := parseAsOf(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
