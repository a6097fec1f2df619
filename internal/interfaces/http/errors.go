package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Toutiscope/Facturation/internal/application/dto"
	"github.com/Toutiscope/Facturation/internal/domain"
	"github.com/Toutiscope/Facturation/internal/domain/numbering"
	"github.com/Toutiscope/Facturation/internal/domain/validation"
)

// writeError traduce los errores del dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			ErrorResponse:      dto.ErrorResponse{Code: "VALIDATION", Message: "documento inválido"},
			ValidationResponse: dto.NewValidationResponse(validation.Result{Errors: verr.Errors}),
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrLayoutOverflow):
		status, code = fiber.StatusUnprocessableEntity, "LAYOUT_OVERFLOW"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrSequencerInconsistency):
		status, code = fiber.StatusConflict, "SEQUENCE_CONFLICT"
	case errors.Is(err, numbering.ErrExhausted):
		status, code = fiber.StatusConflict, "SEQUENCE_EXHAUSTED"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrNotSupported):
		status, code = fiber.StatusNotImplemented, "NOT_SUPPORTED"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Msg("error interno")
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
