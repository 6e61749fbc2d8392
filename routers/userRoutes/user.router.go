package userProfileRoutes

import (
	userProfileController "elearn/controllers/userControllers"
	"elearn/middleware"
	userProfileValidator "elearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/users", middleware.JWTMiddleware)

	userGroup.Get("/stats", userProfileController.Stats)
	userGroup.Put("/profile", userProfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	userGroup.Put("/password", userProfileValidator.ChangePassword(), userProfileController.ChangePassword)
}
