package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/utils"
)

var validate = validator.New()

// currentUserID extracts the authenticated account id from the JWT put
// in locals by the auth middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("malformed claims")
	}
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// errorResponse maps the application error taxonomy onto HTTP statuses.
// Forbidden and invalid-data failures stay distinguishable; duplicate
// reviews get their own actionable message rather than a generic 400.
func errorResponse(c *fiber.Ctx, err error) error {
	var code int
	switch {
	case errors.Is(err, utils.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, utils.ErrForbidden):
		code = fiber.StatusForbidden
	case errors.Is(err, utils.ErrDuplicateReview):
		code = fiber.StatusConflict
	case errors.Is(err, utils.ErrInvalidTransition):
		code = fiber.StatusConflict
	case errors.Is(err, utils.ErrConstraintViolation):
		code = fiber.StatusBadRequest
	default:
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
