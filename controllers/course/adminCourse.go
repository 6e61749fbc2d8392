package courseController

import (
	"errors"

	"elearn/database"
	"elearn/logger"
	"elearn/middleware"
	courseModels "elearn/models/course"
	progressService "elearn/services/progress"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseModels.CourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:            reqData.Title,
		Description:      reqData.Description,
		Category:         reqData.Category,
		Difficulty:       reqData.Difficulty,
		Author:           reqData.Author,
		ThumbnailURL:     reqData.ThumbnailURL,
		IsPublished:      reqData.IsPublished != nil && *reqData.IsPublished,
		StructureVersion: 1,
		Units:            reqData.BuildUnits(),
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		logger.Log.Error("create course", "title", course.Title, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse replaces a course. A changed unit tree bumps the
// structure version and resyncs every enrolled learner's progress.
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedCourse").(*courseModels.CourseInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		logger.Log.Error("load course", "courseId", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	units := reqData.BuildUnits()
	structureChanged := !courseModels.SameStructure(course.Units, units)

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Category = reqData.Category
	course.Difficulty = reqData.Difficulty
	course.Author = reqData.Author
	course.ThumbnailURL = reqData.ThumbnailURL
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}
	course.Units = units
	if structureChanged {
		course.StructureVersion++
	}

	if err := db.Save(&course).Error; err != nil {
		logger.Log.Error("save course", "courseId", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	resynced := 0
	if structureChanged {
		// the course is saved; a failed resync is healed lazily and by the nightly job
		resynced, err = progressService.Default.ResyncCourse(c.UserContext(), course.ID)
		if err != nil {
			logger.Log.Warn("resync after course update", "courseId", course.ID, "error", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", fiber.Map{
		"course":           course,
		"structureChanged": structureChanged,
		"resynced":         resynced,
	})
}

// AdminDeleteCourse soft deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	result := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		logger.Log.Error("delete course", "courseId", courseID, "error", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminResyncCourse reconciles every progress document of the course with
// its current tree.
func AdminResyncCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	n, err := progressService.Default.ResyncCourse(c.UserContext(), courseID)
	if err != nil {
		return utils.ServiceError(c, err, "Failed to resync course progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress resynced.", fiber.Map{
		"resynced": n,
	})
}
