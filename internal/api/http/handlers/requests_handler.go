package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/dto"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/auth"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/service"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

// RequestsHandler exposes the shift request lifecycle.
type RequestsHandler struct {
	scheduling *service.SchedulingService
	validate   *dto.Validator
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(scheduling *service.SchedulingService, validate *dto.Validator) *RequestsHandler {
	return &RequestsHandler{scheduling: scheduling, validate: validate}
}

// Submit handles POST /api/shifts/requests.
func (h *RequestsHandler) Submit(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ShiftRequestWindow
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	created, err := h.scheduling.SubmitRequest(c.UserContext(), actor, service.RequestWindow{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewShiftRequestResponse(created))
}

// ListAll handles GET /api/shifts/requests?status=pending,approved.
func (h *RequestsHandler) ListAll(c *fiber.Ctx) error {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		return err
	}
	reqs, err := h.scheduling.ListRequests(c.UserContext(), statuses)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewShiftRequestListResponse(reqs))
}

// ListMine handles GET /api/shifts/requests/mine.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	reqs, err := h.scheduling.ListMyRequests(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewShiftRequestListResponse(reqs))
}

// Decide handles PUT /api/shifts/requests/:id.
func (h *RequestsHandler) Decide(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.DecideShiftRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}

	decided, shift, err := h.scheduling.DecideRequest(c.UserContext(), actor, id, service.DecisionInput{
		Status:    req.Status,
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewDecisionResponse(decided, shift))
}

// BulkApprove handles POST /api/shifts/requests/bulk-approve.
func (h *RequestsHandler) BulkApprove(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.BulkApproveRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	approved, err := h.scheduling.BulkApprove(c.UserContext(), actor, req.IDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.BulkApproveResponse{Approved: approved})
}

// Edit handles PATCH /api/shifts/requests/:id.
func (h *RequestsHandler) Edit(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ShiftRequestWindow
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	updated, err := h.scheduling.EditRequest(c.UserContext(), actor, id, service.RequestWindow{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewShiftRequestResponse(updated))
}

// DeleteOwn handles DELETE /api/shifts/requests/:id/own.
func (h *RequestsHandler) DeleteOwn(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.scheduling.DeleteOwnRequest(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AdminDelete handles DELETE /api/shifts/requests/:id.
func (h *RequestsHandler) AdminDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.scheduling.AdminDeleteRequest(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseStatuses(raw string) ([]domain.RequestStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []domain.RequestStatus
	for _, part := range strings.Split(raw, ",") {
		status := domain.RequestStatus(strings.TrimSpace(part))
		switch status {
		case domain.RequestStatusPending, domain.RequestStatusApproved, domain.RequestStatusRejected:
			out = append(out, status)
		default:
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": part})
		}
	}
	return out, nil
}
