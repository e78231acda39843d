package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/KRN-011/OwnDiary-Backend/internal/apperr"
)

const identityLocal = "identity"

// Middleware returns the fiber handler guarding authenticated routes. It
// accepts both bare tokens and "Bearer <token>" Authorization headers and
// stores the verified identity in c.Locals.
func Middleware(tokens *Tokens) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get("Authorization"))
		if header == "" {
			return apperr.Unauthorized("Unauthorized")
		}

		raw := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			raw = strings.TrimSpace(parts[1])
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			return apperr.Unauthorized("Unauthorized")
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// IdentityFromCtx returns the authenticated caller stored by Middleware.
func IdentityFromCtx(c *fiber.Ctx) (Identity, error) {
	identity, ok := c.Locals(identityLocal).(Identity)
	if !ok || strings.TrimSpace(identity.ID) == "" {
		return Identity{}, apperr.Unauthorized("Unauthorized")
	}
	return identity, nil
}

// UserIDFromCtx is a shorthand for handlers that only need the caller id.
func UserIDFromCtx(c *fiber.Ctx) (string, error) {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return "", err
	}
	return identity.ID, nil
}
