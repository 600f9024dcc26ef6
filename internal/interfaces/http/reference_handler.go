package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/usecase"
)

// ReferenceHandler datos de referencia del formulario.
type ReferenceHandler struct {
	uc  *usecase.ReferenceUseCase
	log zerolog.Logger
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(uc *usecase.ReferenceUseCase, log zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{uc: uc, log: log}
}

// Bundle godoc
// @Summary      Datos de referencia
// @Description  Taxonomía de atributos, tiendas, árbol de categorías, marcas, países y proveedores. Cacheado en memoria.
// @Tags         reference
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Reference
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reference [get]
func (h *ReferenceHandler) Bundle(c *fiber.Ctx) error {
	out, err := h.uc.Bundle(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Invalidate godoc
// @Summary      Vaciar caché de referencia
// @Tags         reference
// @Security     Bearer
// @Success      204
// @Router       /api/reference/cache [delete]
func (h *ReferenceHandler) Invalidate(c *fiber.Ctx) error {
	h.uc.Invalidate()
	h.log.Info().Str("user_id", GetUserID(c)).Msg("caché de referencia vaciada")
	return c.SendStatus(fiber.StatusNoContent)
}
