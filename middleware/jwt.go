package middleware

import (
	"fmt"
	"strings"
	"time"

	"elearn/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, role string) (string, error) {
	ttl := time.Duration(config.AppConfig.TokenTTLHours) * time.Hour
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// parseBearer validates the Authorization header and returns (userId, role).
func parseBearer(authHeader string) (uint, string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, "", fmt.Errorf("invalid Authorization header format")
	}
	tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token payload")
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, "", fmt.Errorf("invalid token payload")
	}
	role, _ := claims["role"].(string)
	return uint(userID), role, nil
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	userID, role, err := parseBearer(authHeader)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, capitalize(err.Error()), nil)
	}

	c.Locals("userId", userID)
	c.Locals("role", role)
	return c.Next()
}

// OptionalJWT sets userId/role when a valid token is present and never rejects.
func OptionalJWT(c *fiber.Ctx) error {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		if userID, role, err := parseBearer(authHeader); err == nil {
			c.Locals("userId", userID)
			c.Locals("role", role)
		}
	}
	return c.Next()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
