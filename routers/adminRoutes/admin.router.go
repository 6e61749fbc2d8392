package adminRoutes

import (
	adminController "elearn/controllers/admin"
	"elearn/middleware"
	"elearn/models"
	adminValidator "elearn/validators/admin"
	courseValidator "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/users", adminValidator.List(), adminController.UserList)
	adminGroup.Patch("/users/:id/role", adminValidator.UserID(), adminValidator.SetRole(), adminController.SetUserRole)
	adminGroup.Get("/courses/:id/learners", courseValidator.CourseID(), adminValidator.List(), adminController.CourseLearners)
}
