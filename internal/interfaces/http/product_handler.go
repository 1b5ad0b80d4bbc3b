package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/application/pharmacy"
	"github.com/tu-usuario/pharma-stock/internal/domain/repository"
)

// ProductHandler sirve el catálogo de productos con la disponibilidad
// calculada a partir de los lotes (protegido, solo lectura).
type ProductHandler struct {
	snapshot *pharmacy.SnapshotUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(snapshot *pharmacy.SnapshotUseCase) *ProductHandler {
	return &ProductHandler{snapshot: snapshot}
}

// ListProducts godoc
// @Summary      Catálogo con disponibilidad
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Param        search    query  string  false  "Buscar por nombre o código"
// @Param        page      query  int     false  "Página (desde 1)"
// @Param        limit     query  int     false  "Tamaño de página (máx 100)"
// @Success      200  {array}   dto.ProductStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "paginación inválida"})
	}
	page.DefaultPage(20)

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    page.Limit,
		Offset:   page.Offset(),
	}
	products, total, err := h.snapshot.ListProducts(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, products, dto.NewPagination(page.Page, page.Limit, total))
}

// GetProduct godoc
// @Summary      Detalle de un producto con sus lotes
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pharmacy/products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, lots, err := h.snapshot.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	lotDTOs := make([]dto.LotDTO, 0, len(lots))
	for _, lot := range lots {
		lotDTOs = append(lotDTOs, toLotDTO(lot, nil))
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"product": product, "lots": lotDTOs})
}
