package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-editor/internal/application/dto"
	"github.com/jhoicas/product-editor/internal/domain"
)

// writeError traduce los errores de dominio a respuestas HTTP. Es el único lugar donde
// se deciden los códigos de estado.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msg := verr.Message
		if msg == "" {
			msg = "datos inválidos"
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code: "VALIDATION", Message: msg, Fields: verr.FirstMessages(),
		})
	}
	var uerr *domain.UpstreamError
	if errors.As(err, &uerr) {
		log.Warn().Int("upstream_status", uerr.Status).Str("path", c.Path()).Msg("error del api de catálogo")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_ERROR", Message: "el api de catálogo respondió con error"})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrRemovalNotAllowed):
		status, code = fiber.StatusConflict, "REMOVAL_NOT_ALLOWED"
	case errors.Is(err, domain.ErrDraftBusy):
		status, code = fiber.StatusConflict, "DRAFT_BUSY"
	case errors.Is(err, domain.ErrStaleLoad):
		status, code = fiber.StatusConflict, "STALE_LOAD"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusGatewayTimeout, "TIMEOUT"
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
