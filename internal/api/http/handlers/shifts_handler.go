package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/dto"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/auth"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/service"
)

// ShiftsHandler exposes confirmed shift endpoints.
type ShiftsHandler struct {
	shifts   *service.ShiftService
	validate *dto.Validator
}

// NewShiftsHandler constructs handler.
func NewShiftsHandler(shifts *service.ShiftService, validate *dto.Validator) *ShiftsHandler {
	return &ShiftsHandler{shifts: shifts, validate: validate}
}

// Create handles POST /api/shifts.
func (h *ShiftsHandler) Create(c *fiber.Ctx) error {
	var req dto.ShiftPayload
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	shift, err := h.shifts.CreateShift(c.UserContext(), service.ShiftInput{
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewShiftResponse(shift))
}

// Update handles PUT /api/shifts/:id.
func (h *ShiftsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ShiftPayload
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	shift, err := h.shifts.UpdateShift(c.UserContext(), id, service.ShiftInput{
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewShiftResponse(shift))
}

// Delete handles DELETE /api/shifts/:id.
func (h *ShiftsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.shifts.DeleteShift(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListAll handles GET /api/shifts/all.
func (h *ShiftsHandler) ListAll(c *fiber.Ctx) error {
	shifts, err := h.shifts.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewShiftListResponse(shifts))
}

// ListMine handles GET /api/shifts/my-shifts.
func (h *ShiftsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	shifts, err := h.shifts.ListMine(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewShiftListResponse(shifts))
}
