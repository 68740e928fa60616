package controller

import (
	"errors"

	"hrms/chat"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:    fiber.StatusBadRequest,
	services.KindConflict:      fiber.StatusConflict,
	services.KindCapacity:      fiber.StatusConflict,
	services.KindAuth:          fiber.StatusUnauthorized,
	services.KindAuthorization: fiber.StatusForbidden,
	services.KindNotFound:      fiber.StatusNotFound,
}

// handleError writes the error envelope for a failed service call.
// Unclassified errors are reported and hidden behind a 500.
func handleError(c *fiber.Ctx, operation string, err error) error {
	if status, ok := kindStatus[services.KindOf(err)]; ok {
		return utils.ErrorResponse(c, status, err.Error(), nil)
	}

	var upstream *chat.UpstreamError
	if errors.As(err, &upstream) {
		return utils.ErrorResponse(c, upstream.Status, "AI service error", upstream)
	}
	if errors.Is(err, chat.ErrEmptyMessage) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	context := map[string]interface{}{
		"operation": operation,
		"method":    c.Method(),
		"path":      c.Path(),
	}
	if userID, ok := c.Locals("userID").(uint); ok {
		context["user_id"] = userID
	}
	utils.LogError(operation, err, context)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
}

// ErrorHandler renders errors that escape a handler, including fiber's own, in the response envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.ErrorResponse(c, fe.Code, fe.Message, nil)
	}
	return handleError(c, "unhandled", err)
}

// parseBody decodes and validates a request body
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// idParam reads a positive numeric path parameter
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id := utils.ParseUint(c.Params(name))
	if id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
