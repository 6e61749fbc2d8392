package userProfileController

import (
	"elearn/config"
	"elearn/database"
	"elearn/logger"
	"elearn/middleware"
	"elearn/models"
	progressService "elearn/services/progress"
	"elearn/utils"
	userValidator "elearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func UpdateProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	result := db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userId, false).
		Update("name", reqData.Name)
	if result.Error != nil {
		logger.Log.Error("update profile", "userId", userId, "error", result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var user models.User
	db.First(&user, userId)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

func ChangePassword(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedPassword").(*userValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("hash password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		logger.Log.Error("save password", "userId", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

// Stats returns streak, XP and this week's completions.
func Stats(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	stats, err := progressService.Default.Stats(c.UserContext(), userId)
	if err != nil {
		return utils.ServiceError(c, err, "Failed to fetch stats!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully.", stats)
}
