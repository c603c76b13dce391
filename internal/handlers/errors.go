package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrCourseNotFound, fiber.StatusNotFound},
	{services.ErrCourseNotInBucket, fiber.StatusNotFound},
	{services.ErrDepartmentNotFound, fiber.StatusNotFound},
	{services.ErrEmployeeNotFound, fiber.StatusNotFound},
	{services.ErrSkillNotFound, fiber.StatusNotFound},

	{services.ErrInvalidProgress, fiber.StatusBadRequest},
	{services.ErrCourseAlreadyInBucket, fiber.StatusBadRequest},
	{services.ErrInvalidScore, fiber.StatusBadRequest},
	{services.ErrWeakPassword, fiber.StatusBadRequest},
	{services.ErrIncorrectPassword, fiber.StatusBadRequest},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrDepartmentExists, fiber.StatusConflict},

	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrForbidden, fiber.StatusForbidden},

	{services.ErrRecommendationUnavailable, fiber.StatusServiceUnavailable},
}

// serviceError writes the response for an error returned by a service.
// Known domain errors keep their message; anything else is logged and
// reported as a generic 500.
func serviceError(c *fiber.Ctx, err error, action string) error {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{
				Error: true, Message: m.err.Error(),
			})
		}
	}

	slog.Error(action+" failed",
		"error", err.Error(),
		"action", action,
		"request_id", requestID(c),
		"path", c.Path(),
	)
	captureException(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func captureException(c *fiber.Ctx, err error) {
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}

// ErrorHandler renders errors that reach Fiber. Details are only exposed
// for client errors (4xx), never for server errors (5xx).
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		captureException(c, err)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
