package database

import (
	"testing"

	"elearn/config"
	"elearn/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DBDriver: "sqlite", DBName: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	return db
}

func TestEnsureAdminCreates(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, EnsureAdmin(db, " Root@Example.com ", "supersecret", bcrypt.MinCost))
	require.NoError(t, EnsureAdmin(db, "root@example.com", "supersecret", bcrypt.MinCost))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "root@example.com", users[0].Email)
	assert.True(t, users[0].IsAdmin())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("supersecret")))
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, db.Create(&models.User{Email: "lead@example.com", Password: "x", Role: models.RoleStudent}).Error)

	require.NoError(t, EnsureAdmin(db, "lead@example.com", "", bcrypt.MinCost))

	var user models.User
	require.NoError(t, db.Where("email = ?", "lead@example.com").First(&user).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "x", user.Password)
}

func TestEnsureAdminRejectsShortPassword(t *testing.T) {
	db := openMemory(t)
	assert.Error(t, EnsureAdmin(db, "root@example.com", "short", bcrypt.MinCost))
	assert.NoError(t, EnsureAdmin(db, "", "", bcrypt.MinCost))
}

func TestIsPostgres(t *testing.T) {
	assert.False(t, IsPostgres(openMemory(t)))
}
