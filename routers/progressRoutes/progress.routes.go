package progressRoutes

import (
	controllers "elearn/controllers/progress"
	"elearn/middleware"
	validators "elearn/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/api/progress", middleware.JWTMiddleware)

	progressGroup.Post("/initialize", validators.Initialize(), controllers.InitializeProgress)
	progressGroup.Get("/dashboard", controllers.Dashboard)
	progressGroup.Get("/course/:courseId", validators.CourseParam(), controllers.CourseProgress)

	subtopic := "/course/:courseId/unit/:unitId/topic/:topicId/subtopic/:subtopicId"
	progressGroup.Put(subtopic, validators.CourseParam(), validators.SubtopicParams(), validators.SubtopicUpdate(), controllers.UpdateSubtopic)
	progressGroup.Post(subtopic+"/bookmark", validators.CourseParam(), validators.SubtopicParams(), controllers.ToggleBookmark)
}
