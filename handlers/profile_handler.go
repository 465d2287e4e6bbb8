package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlink/tutorlink/policy"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/utils"
)

type ProfileHandler struct {
	users *repository.UserRepository
}

func NewProfileHandler(users *repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

type UpdateAccountRequest struct {
	FullName *string `json:"full_name"`
	TimeZone *string `json:"time_zone"`
}

func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) GetAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	actor, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	if !policy.CanReadAccount(actor) {
		return errorResponse(c, utils.ErrForbidden)
	}

	targetID, err := parseUUIDParam(c, "accountId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}
	target, err := h.users.FindByID(c.UserContext(), targetID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(target)
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return errorResponse(c, err)
	}
	if !policy.CanUpdateAccount(user, user) {
		return errorResponse(c, utils.ErrForbidden)
	}

	var req UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.TimeZone != nil {
		user.TimeZone = req.TimeZone
	}

	if err := h.users.Save(c.UserContext(), &user); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(user)
}
