package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testApp stores a student with id 1 and an admin with id 2.
func testApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", TokenTTLHours: 1}

	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBName: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}
	for _, u := range []models.User{
		{Model: gorm.Model{ID: 1}, Name: "Student", Email: "student@example.com", Password: "x", Role: models.RoleStudent},
		{Model: gorm.Model{ID: 2}, Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId"), "role": c.Locals("role")})
	})
	app.Get("/admin", JWTMiddleware, RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/public", OptionalJWT, func(c *fiber.Ctx) error {
		if IsAdmin(c) {
			return c.SendString("admin")
		}
		return c.SendString("anon")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func body(t *testing.T, app *fiber.App, path, token string) string {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestJWTMiddleware(t *testing.T) {
	app := testApp(t)

	token, err := GenerateJWT(42, "student")
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "garbage"))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", token) // missing Bearer prefix
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsExpiredAndForeignTokens(t *testing.T) {
	app := testApp(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1, "role": "admin", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", signed))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1, "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err = foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", signed))
}

func TestRequireRole(t *testing.T) {
	app := testApp(t)

	student, err := GenerateJWT(1, "student")
	require.NoError(t, err)
	admin, err := GenerateJWT(2, "admin")
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", ""))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", student))
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", admin))
}

func TestRequireRoleUsesStoredRole(t *testing.T) {
	app := testApp(t)

	admin, err := GenerateJWT(2, "admin")
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", admin))

	db := database.Database.Db
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 2).Update("role", models.RoleStudent).Error)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", admin))
	assert.Equal(t, "anon", body(t, app, "/public", admin))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", 2).
		Updates(map[string]interface{}{"role": models.RoleAdmin, "is_deleted": true}).Error)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", admin))

	unknown, err := GenerateJWT(99, "admin")
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", unknown))
}

func TestOptionalJWT(t *testing.T) {
	app := testApp(t)
	admin, err := GenerateJWT(2, "admin")
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/public", ""))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/public", "broken"))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/public", admin))
	assert.Equal(t, "admin", body(t, app, "/public", admin))
	assert.Equal(t, "anon", body(t, app, "/public", ""))
}
