package handlers

import (
	"errors"
	"fmt"

	"catalog/internal/logger"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Status is the status block of every envelope.
type Status struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	OK     bool     `json:"ok"`
	Status Status   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationError carries per-field messages for a 400 response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Messages)
}

func errorJSON(c *fiber.Ctx, code int, msg string, details []string) error {
	return c.Status(code).JSON(ErrorResponse{
		OK:     false,
		Status: Status{Code: code, Msg: msg},
		Errors: details,
	})
}

// ErrorHandler renders any error returned by a route as the error envelope.
// Only classified errors reach the client verbatim; everything else is
// logged and reported as a bare 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return errorJSON(c, fiber.StatusBadRequest, "Validation failed", validationErr.Messages)
	}

	if svcErr, ok := services.AsError(err); ok {
		switch svcErr.Kind {
		case services.KindBadRequest:
			return errorJSON(c, fiber.StatusBadRequest, svcErr.Message, nil)
		case services.KindNotFound:
			return errorJSON(c, fiber.StatusNotFound, svcErr.Message, nil)
		case services.KindConflict:
			return errorJSON(c, fiber.StatusConflict, svcErr.Message, nil)
		}
		logger.FromCtx(c).Error("Unexpected error", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, services.MsgUnexpected, nil)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			logger.FromCtx(c).Error("Request failed", zap.Error(err))
		}
		return errorJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	logger.FromCtx(c).Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return errorJSON(c, fiber.StatusInternalServerError, services.MsgUnexpected, nil)
}

// NotFound is the fallback for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusNotFound, "Not Found", nil)
}

// Health reports that the service is up.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":     true,
		"status": Status{Code: fiber.StatusOK, Msg: "working"},
	})
}

func validationMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
	}
	return messages
}

// parseAndValidate decodes the JSON body into dst and runs its struct tags.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &ValidationError{Messages: []string{"Invalid request body"}}
	}
	if err := validate.Struct(dst); err != nil {
		return &ValidationError{Messages: validationMessages(err)}
	}
	return nil
}
