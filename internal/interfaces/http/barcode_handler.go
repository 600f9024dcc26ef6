package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/application/usecase"
)

// BarcodeHandler hojas de etiquetas en PDF.
type BarcodeHandler struct {
	uc  *usecase.BarcodeUseCase
	log zerolog.Logger
}

// NewBarcodeHandler construye el handler.
func NewBarcodeHandler(uc *usecase.BarcodeUseCase, log zerolog.Logger) *BarcodeHandler {
	return &BarcodeHandler{uc: uc, log: log}
}

// Sheet godoc
// @Summary      Hoja de etiquetas con código de barras
// @Tags         barcodes
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.BarcodeSheetRequest  true  "Productos y copias"
// @Success      200   {file}    binary
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/barcodes/sheet [post]
func (h *BarcodeHandler) Sheet(c *fiber.Ctx) error {
	var in dto.BarcodeSheetRequest
	if err := decodeBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	pdf, err := h.uc.Generate(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="etiquetas-%s.pdf"`, time.Now().Format("20060102-150405")))
	return c.Send(pdf)
}
