package middleware

import (
	"strings"

	"stockroom/internal/apierror"
	"stockroom/internal/authz"
	"stockroom/internal/repository"
	"stockroom/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// RequireAuth validates the bearer token, re-reads the user row (so
// suspension and grant changes apply mid-session) and stores the principal
// in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account suspended"})
		}

		c.Locals(principalKey, authz.FromUser(user))
		return c.Next()
	}
}

// RequirePermission gates a route on a permission code through the injected
// authorization service.
func RequirePermission(svc authz.Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Authorize(PrincipalFrom(c), permission); err != nil {
			return err
		}
		return c.Next()
	}
}

// PrincipalFrom returns the authenticated principal, or nil on unauthenticated
// routes.
func PrincipalFrom(c *fiber.Ctx) *authz.Principal {
	p, _ := c.Locals(principalKey).(*authz.Principal)
	return p
}

// ErrorHandler is the app-level Fiber error handler. It maps the apierror
// taxonomy to status codes and never leaks internals on unknown errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if verr, ok := apierror.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	}
	if apierror.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if apierror.IsDenied(err) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}
