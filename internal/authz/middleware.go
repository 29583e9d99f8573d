package authz

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/propline/backoffice/internal/apperr"
	"github.com/propline/backoffice/internal/database"
	"github.com/propline/backoffice/internal/response"
)

// RequirePermission gates a route on one permission key. It runs after the
// JWT middleware has stored user_id in locals and re-resolves the effective
// set on every request. Denials are logged for security visibility but do
// not produce audit entries, since no entity was touched.
func RequirePermission(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		perms, err := ResolveEffectivePermissions(database.DB, userID)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthorized) {
				return response.Unauthorized(c, "Unauthorized")
			}
			return response.InternalError(c, "Failed to resolve permissions")
		}

		if !perms[key] {
			slog.Warn("permission denied",
				"user_id", userID,
				"permission", key,
				"path", c.Path(),
				"method", c.Method(),
			)
			return response.Forbidden(c, "You don't have permission to perform this action")
		}

		return c.Next()
	}
}
