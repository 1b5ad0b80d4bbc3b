package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/pharma-stock/internal/application/dto"
	"github.com/tu-usuario/pharma-stock/internal/domain"
)

// respondData envía el sobre estándar {success: true, data: ...}.
func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// respondPage envía el sobre paginado {success, data, pagination}.
func respondPage(c *fiber.Ctx, data interface{}, pagination dto.Pagination) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "pagination": pagination})
}

// respondError mapea errores de dominio a códigos HTTP. ErrTxConflict solo
// llega aquí con los reintentos del asignador ya agotados; se reporta como
// error interno con un mensaje que invita a reintentar.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: "número de lote duplicado para el producto"})
	case errors.Is(err, domain.ErrInsufficientStock):
		msg := "stock insuficiente"
		if available, ok := domain.AvailableFromError(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":   false,
				"message":   msg,
				"available": available,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: msg})
	case errors.Is(err, domain.ErrTxConflict):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "conflicto de concurrencia, reintente la operación"})
	default:
		// El detalle (SQL, SQLSTATE, contexto de wrap) se queda en el log;
		// al cliente solo le llega un mensaje genérico.
		log.Error().Err(err).Str("path", c.Path()).Msg("error no mapeado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "error interno"})
	}
}
