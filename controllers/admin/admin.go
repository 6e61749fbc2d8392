package adminController

import (
	"time"

	"elearn/database"
	"elearn/logger"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	"elearn/utils"
	adminValidator "elearn/validators/admin"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	reqData, ok := c.Locals("list").(*utils.Pagination)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var users []models.User
	var total int64

	if err := db.
		Where("is_deleted = ?", false).
		Order("id asc").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Find(&users).Error; err != nil {
		logger.Log.Error("list users", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&total)

	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

// SetUserRole promotes or demotes an account. Admins cannot change their
// own role, so at least one admin always remains.
func SetUserRole(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	targetID := c.Locals("targetUserID").(uint)

	reqData, ok := c.Locals("validatedRole").(*adminValidator.RoleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if targetID == userId {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You cannot change your own role!", nil)
	}

	result := database.Database.Db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", targetID, false).
		Update("role", reqData.Role)
	if result.Error != nil {
		logger.Log.Error("set role", "userId", targetID, "error", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update role!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	logger.Log.Info("role changed", "by", userId, "userId", targetID, "role", reqData.Role)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated successfully.", fiber.Map{
		"userId": targetID,
		"role":   reqData.Role,
	})
}

type learnerRow struct {
	UserID          uint       `json:"userId"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	OverallProgress int        `json:"overallProgress"`
	Status          string     `json:"status"`
	EnrolledAt      time.Time  `json:"enrolledAt"`
	LastAccessedAt  *time.Time `json:"lastAccessedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// CourseLearners lists the enrolled learners of a course with their stored
// overall progress.
func CourseLearners(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("list").(*utils.Pagination)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	query := database.Database.Db.Model(&courseModels.Progress{}).
		Joins("JOIN users ON users.id = progresses.user_id").
		Where("progresses.course_id = ? AND users.is_deleted = ?", courseID, false).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Error("count learners", "courseId", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learners!", nil)
	}

	var rows []learnerRow
	if err := query.
		Select("progresses.user_id, users.name, users.email, progresses.overall_progress, progresses.status, progresses.enrolled_at, progresses.last_accessed_at, progresses.completed_at").
		Order("progresses.overall_progress desc, progresses.user_id asc").
		Offset(reqData.Offset()).
		Limit(reqData.Limit).
		Scan(&rows).Error; err != nil {
		logger.Log.Error("list learners", "courseId", courseID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch learners!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course learners.", fiber.Map{
		"learners": rows,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
