package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

// RequireRole ensures the authenticated account has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		account, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("sign-in required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[account.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin restricts a route to administrators.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireAuthenticated ensures the caller is signed in, any role.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
