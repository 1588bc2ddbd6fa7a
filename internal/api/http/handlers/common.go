package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/dto"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

// bind decodes the JSON body into dst and validates it.
func bind(c *fiber.Ctx, v *dto.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return v.Struct(dst)
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// respond writes payload as the top-level JSON body.
func respond(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(payload)
}

func message(c *fiber.Ctx, msg string) error {
	return respond(c, fiber.StatusOK, fiber.Map{"message": msg})
}
