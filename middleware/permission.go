package middleware

import (
	"errors"

	"elearn/database"
	"elearn/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// currentRole loads the caller's role from the users table so a demotion
// or deletion takes effect before the token expires. The result is cached
// on the request.
func currentRole(c *fiber.Ctx) (string, error) {
	if role, ok := c.Locals("currentRole").(string); ok {
		return role, nil
	}
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return "", gorm.ErrRecordNotFound
	}

	var user models.User
	err := database.Database.Db.WithContext(c.UserContext()).
		Select("id", "role").
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if err != nil {
		return "", err
	}
	c.Locals("currentRole", user.Role)
	return user.Role, nil
}

// RequireRole returns a middleware that only lets callers whose stored role
// matches through. It must run after JWTMiddleware.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userId").(uint); !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		current, err := currentRole(c)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		if err != nil {
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify permissions!", nil)
		}
		if current != role {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}

		c.Locals("role", current)
		return c.Next()
	}
}

// IsAdmin reports whether the caller is currently an admin.
func IsAdmin(c *fiber.Ctx) bool {
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		return false
	}
	current, err := currentRole(c)
	return err == nil && current == models.RoleAdmin
}
