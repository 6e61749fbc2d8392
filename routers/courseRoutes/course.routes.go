package courseRoutes

import (
	controllers "elearn/controllers/course"
	"elearn/middleware"
	"elearn/models"
	validators "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes registers the public catalogue and the admin-only
// course management routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", middleware.OptionalJWT, validators.CourseList(), controllers.ListCourses)
	courseGroup.Get("/:id", middleware.OptionalJWT, validators.CourseID(), controllers.GetCourse)

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	courseGroup.Post("/", middleware.JWTMiddleware, adminOnly, validators.CourseBody(), controllers.AdminCreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, adminOnly, validators.CourseID(), validators.CourseBody(), controllers.AdminUpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, adminOnly, validators.CourseID(), controllers.AdminDeleteCourse)
	courseGroup.Post("/:id/resync", middleware.JWTMiddleware, adminOnly, validators.CourseID(), controllers.AdminResyncCourse)
}
