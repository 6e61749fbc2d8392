package courseController

import (
	"errors"

	"elearn/database"
	"elearn/logger"
	"elearn/middleware"
	courseModels "elearn/models/course"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListCourses pages through the catalogue. Unpublished courses are only
// listed for admins.
func ListCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourseList").(*utils.Pagination)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	query := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if !middleware.IsAdmin(c) {
		query = query.Where("is_published = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Error("count courses", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []courseModels.Course
	if err := query.Order("id asc").Offset(reqData.Offset()).Limit(reqData.Limit).Find(&courses).Error; err != nil {
		logger.Log.Error("list courses", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

func GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	query := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false)
	if !middleware.IsAdmin(c) {
		query = query.Where("is_published = ?", true)
	}

	var course courseModels.Course
	err := query.First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		logger.Log.Error("load course", "courseId", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", course)
}
