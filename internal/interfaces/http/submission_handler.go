package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/usecase"
)

// SubmissionHandler historial de envíos por producto.
type SubmissionHandler struct {
	uc  *usecase.SubmissionUseCase
	log zerolog.Logger
}

func NewSubmissionHandler(uc *usecase.SubmissionUseCase, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{uc: uc, log: log}
}

// ListByProduct godoc
// @Summary      Historial de envíos de un producto
// @Tags         submissions
// @Security     Bearer
// @Produce      json
// @Param        id     path   int  true   "ID del producto"
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200    {object}  dto.SubmissionListResponse
// @Router       /api/products/{id}/submissions [get]
func (h *SubmissionHandler) ListByProduct(c *fiber.Ctx) error {
	productID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ListByProduct(c.UserContext(), actorFrom(c), productID, c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
