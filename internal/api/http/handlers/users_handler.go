package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/dto"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/auth"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/service"
)

// UsersHandler exposes account administration and work summaries.
type UsersHandler struct {
	auth    *service.AuthService
	summary *service.SummaryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, summary *service.SummaryService) *UsersHandler {
	return &UsersHandler{auth: authService, summary: summary}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewUserListResponse(users))
}

// WorkSummary handles GET /api/users/work-summary.
func (h *UsersHandler) WorkSummary(c *fiber.Ctx) error {
	rows, _, err := h.summary.StaffSummary(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStaffHoursResponse(rows))
}

// MyWorkSummary handles GET /api/users/me/work-summary.
func (h *UsersHandler) MyWorkSummary(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	summary, err := h.summary.MySummary(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewWorkSummaryResponse(summary))
}

// SendPasswordReset handles POST /api/users/:id/forgot-password.
func (h *UsersHandler) SendPasswordReset(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.auth.AdminInitiateReset(c.UserContext(), actor, id); err != nil {
		return err
	}
	return message(c, "password reset link sent")
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.auth.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
