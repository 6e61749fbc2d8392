package progressValidator

import (
	"strconv"
	"strings"

	"elearn/middleware"
	progressService "elearn/services/progress"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InitializeRequest struct {
	CourseID uint `json:"courseId" validate:"required,gt=0"`
}

type SubtopicUpdateRequest struct {
	IsCompleted *bool   `json:"isCompleted" validate:"required"`
	Notes       *string `json:"notes" validate:"omitempty,max=5000"`
	TimeSpent   int     `json:"timeSpent" validate:"gte=0"`
}

func Initialize() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(InitializeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := utils.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", reqData.CourseID)
		return c.Next()
	}
}

// CourseParam parses :courseId into Locals("courseID").
func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.ParseUint(strings.TrimSpace(c.Params("courseId")), 10, 64)
		if err != nil || courseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}

// SubtopicParams parses the unit/topic/subtopic path ids into
// Locals("subtopicRef"). Malformed ids are a 400, not a 404.
func SubtopicParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := progressService.SubtopicRef{
			UnitID:     strings.TrimSpace(c.Params("unitId")),
			TopicID:    strings.TrimSpace(c.Params("topicId")),
			SubtopicID: strings.TrimSpace(c.Params("subtopicId")),
		}

		for name, id := range map[string]string{"unitId": ref.UnitID, "topicId": ref.TopicID, "subtopicId": ref.SubtopicID} {
			if _, err := uuid.Parse(id); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+name+"!", nil)
			}
		}

		c.Locals("subtopicRef", ref)
		return c.Next()
	}
}

func SubtopicUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubtopicUpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := utils.ValidateStruct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubtopicUpdate", reqData)
		return c.Next()
	}
}
