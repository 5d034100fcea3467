package handlers

import (
	"errors"

	"gamecatalog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const (
	msgInternalError = "Internal server error"
	msgRouteNotFound = "Route not found"
)

// ErrorHandler turns anything that escaped a handler, panics included, into
// the standard envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		message := fiberErr.Message
		if fiberErr.Code == fiber.StatusNotFound {
			message = msgRouteNotFound
		}
		return c.Status(fiberErr.Code).JSON(types.Fail(message))
	}

	logger.New("handlers").
		TraceFromContext(c.UserContext()).
		File("errors_handler").
		Function("ErrorHandler").
		Er("Unhandled error", err, "method", c.Method(), "path", c.Path())

	return c.Status(fiber.StatusInternalServerError).JSON(types.Fail(msgInternalError))
}

// RouteNotFound answers every request no route claimed.
func RouteNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(types.Fail(msgRouteNotFound))
}
