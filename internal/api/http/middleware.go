package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/support-hub/helpdesk/internal/observability"
	apperrors "github.com/support-hub/helpdesk/pkg/errorutil"
)

// RegisterMiddlewares wires the request pipeline: timeout, panic and
// error handling, then request logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestTimeoutMiddleware(timeout))
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// requestTimeoutMiddleware bounds each request's context.
func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if timeout <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware recovers panics and renders every error as a
// JSON envelope with a stable code.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Path()))
				err = writeError(c, metrics, apperrors.ToDomainError(fiber.ErrInternalServerError))
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			domainErr := apperrors.NewDomainError(errorCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
			return writeError(c, metrics, domainErr)
		}

		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus >= 500 {
			logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.String("code", domainErr.Code),
				zap.Error(err),
			)
		}
		return writeError(c, metrics, domainErr)
	}
}

func writeError(c *fiber.Ctx, metrics *observability.Metrics, domainErr *apperrors.DomainError) error {
	metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
	body := fiber.Map{
		"error": fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		},
	}
	if len(domainErr.Details) > 0 {
		body["error"].(fiber.Map)["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(body)
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusBadRequest:
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}
