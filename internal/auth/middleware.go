package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

const principalKey = "auth_principal"

// AccountLoader resolves token subjects to directory accounts.
type AccountLoader interface {
	GetByID(ctx context.Context, id string) (*domain.Account, bool)
}

// Middleware validates bearer tokens and loads the caller's account.
type Middleware struct {
	tokens   *TokenManager
	accounts AccountLoader
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, accounts AccountLoader) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, found := m.accounts.GetByID(c.Context(), claims.AccountID)
	if !found {
		return apperrors.NewUnauthorized("account not found")
	}

	c.Locals(principalKey, account)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}
