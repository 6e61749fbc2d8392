package adminValidator

import (
	"strconv"
	"strings"

	"elearn/middleware"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
)

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(utils.Pagination)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := reqData.Normalize(); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("list", reqData)
		return c.Next()
	}
}

// UserID parses the :id route param into Locals("targetUserID").
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 64)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", uint(id))
		return c.Next()
	}
}

func SetRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RoleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Role = strings.ToLower(strings.TrimSpace(reqData.Role))

		if errors := utils.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}
