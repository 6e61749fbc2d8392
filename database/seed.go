package database

import (
	"errors"
	"fmt"
	"strings"

	"elearn/logger"
	"elearn/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap admin account, or promotes an existing
// account with that email. The password of an existing account is left alone.
func EnsureAdmin(db *gorm.DB, email, password string, cost int) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role == models.RoleAdmin {
			return nil
		}
		logger.Log.Info("promoting bootstrap admin", "email", email)
		return db.Model(&user).Update("role", models.RoleAdmin).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if len(password) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Role:     models.RoleAdmin,
		Password: string(hash),
		Level:    1,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Log.Info("bootstrap admin created", "email", email)
	return nil
}
