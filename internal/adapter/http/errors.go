package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

const internalErrorMessage = "Internal server error"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// handleError is the fiber ErrorHandler
// It maps domain errors to status codes; 5xx causes are logged and never sent
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, detail := classify(err)

	if status >= fiber.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		detail = errorDetail{Message: internalErrorMessage}
	}

	return c.Status(status).JSON(errorBody{Error: detail})
}

func classify(err error) (int, errorDetail) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, errorDetail{Message: verr.Message, Errors: verr.Fields}
	}

	var uerr *domain.UnauthorizedError
	if errors.As(err, &uerr) {
		return fiber.StatusUnauthorized, errorDetail{Message: uerr.Reason}
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, errorDetail{Message: ferr.Message}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, errorDetail{Message: messageOr(err, "Unauthorized")}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, errorDetail{Message: messageOr(err, "Resource not found")}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, errorDetail{Message: messageOr(err, "Resource already exists")}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, errorDetail{Message: "Validation failed"}
	}
	return fiber.StatusInternalServerError, errorDetail{Message: internalErrorMessage}
}

// messageOr returns the client-safe message of a *domain.Error, or fallback
func messageOr(err error, fallback string) string {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Message != "" {
		return derr.Message
	}
	return fallback
}
