package courseValidator

import (
	"strconv"
	"strings"

	"elearn/middleware"
	courseModels "elearn/models/course"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
)

// CourseID parses the :id route param into Locals("courseID").
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.ParseUint(courseIDStr, 10, 64)
		if err != nil || courseID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(utils.Pagination)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := reqData.Normalize(); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CourseBody validates the create/update payload, including node id
// uniqueness across the whole tree.
func CourseBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseModels.CourseInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Author = strings.TrimSpace(reqData.Author)

		errors := utils.ValidateStruct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if dups := reqData.DuplicateIDs(); len(dups) > 0 {
			errors["units"] = "Duplicate node id: " + strings.Join(dups, ", ")
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}
