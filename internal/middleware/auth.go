package middleware

import (
	"context"
	"strings"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// IdentityKey is the fiber locals key holding the authenticated models.Identity.
const IdentityKey = "identity"

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

// AuthRequired is a middleware that enforces authentication for protected
// routes. A missing token is rejected with 401 and an invalid one with 403.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewMissingTokenError())
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusForbidden, models.NewInvalidTokenError())
		}

		// Store identity in locals
		c.Locals(IdentityKey, identity)
		c.Locals("userID", identity.UserID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), UserIDKey, identity.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (models.Identity, bool) {
	id, ok := c.Locals(IdentityKey).(models.Identity)
	return id, ok
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
