package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Toutiscope/Facturation/internal/application/dto"
	"github.com/Toutiscope/Facturation/pkg/jwt"
)

// Locals keys para Subject y Scope en Fiber.
const (
	LocalSubject = "subject"
	LocalScope   = "scope"
)

// LocalSubjectAnonymous sujeto asignado cuando la autenticación está desactivada.
const LocalSubjectAnonymous = "local"

// AuthMiddleware valida el Bearer Token JWT y extrae Subject y Scope a c.Locals.
// Con secret vacío la API queda abierta (uso local de escritorio) con alcance de escritura.
func AuthMiddleware(secret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			c.Locals(LocalSubject, LocalSubjectAnonymous)
			c.Locals(LocalScope, jwt.ScopeWrite)
			return c.Next()
		}
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(secret, issuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSubject, claims.Subject)
		c.Locals(LocalScope, claims.Scope)
		return c.Next()
	}
}

// RequireWrite exige alcance de escritura. Debe usarse DESPUÉS de AuthMiddleware.
func RequireWrite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetScope(c) != jwt.ScopeWrite {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el token no permite modificar datos",
			})
		}
		return c.Next()
	}
}

// GetSubject devuelve el sujeto del token (después del middleware de auth).
func GetSubject(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSubject).(string)
	return s
}

// GetScope devuelve el alcance del token (después del middleware de auth).
func GetScope(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalScope).(string)
	return s
}
