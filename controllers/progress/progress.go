package progressController

import (
	"elearn/middleware"
	progressService "elearn/services/progress"
	"elearn/utils"
	progressValidator "elearn/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// InitializeProgress enrols the caller. 201 when a document was created,
// 200 when one already existed.
func InitializeProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	progress, created, err := progressService.Default.Initialize(c.UserContext(), userId, courseID)
	if err != nil {
		return utils.ServiceError(c, err, "Failed to initialize progress!")
	}

	if created {
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully.", progress)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Already enrolled.", progress)
}

func Dashboard(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	dashboard, err := progressService.Default.Dashboard(c.UserContext(), userId)
	if err != nil {
		return utils.ServiceError(c, err, "Failed to build dashboard!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully.", dashboard)
}

func CourseProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	view, err := progressService.Default.CourseProgress(c.UserContext(), userId, courseID)
	if err != nil {
		return utils.ServiceError(c, err, "Failed to fetch progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", view)
}

func UpdateSubtopic(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	ref := c.Locals("subtopicRef").(progressService.SubtopicRef)

	reqData, ok := c.Locals("validatedSubtopicUpdate").(*progressValidator.SubtopicUpdateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	progress, err := progressService.Default.SetSubtopicCompletion(c.UserContext(), userId, courseID, ref, progressService.CompletionUpdate{
		IsCompleted: *reqData.IsCompleted,
		Notes:       reqData.Notes,
		TimeSpent:   reqData.TimeSpent,
	})
	if err != nil {
		return utils.ServiceError(c, err, "Failed to update progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully.", progress)
}

func ToggleBookmark(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	ref := c.Locals("subtopicRef").(progressService.SubtopicRef)

	progress, err := progressService.Default.ToggleBookmark(c.UserContext(), userId, courseID, ref)
	if err != nil {
		return utils.ServiceError(c, err, "Failed to toggle bookmark!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bookmark updated.", progress)
}
