package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"phone-store-be/pkg/store"
)

// ErrorHandler writes err in the response envelope.
// Collaborator outages are 503 so clients never read them as "no match".
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(Response[map[string]string]{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request",
			Data:    verr.Fields,
		})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
	}

	if store.IsUnavailable(err) {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(ErrorResponse(fiber.StatusServiceUnavailable, "Service temporarily unavailable, please try again"))
	}

	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return ErrorHandler(ctx, err)
		}
		return nil
	}
}
