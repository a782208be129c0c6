package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ejcents/schoolfix-minicapstone/internal/api/dto"
	"github.com/ejcents/schoolfix-minicapstone/internal/auth"
	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/service"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

// AuthHandler exposes registration, login, logout and session endpoints.
type AuthHandler struct {
	directory *service.Directory
	tokens    *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(directory *service.Directory, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{directory: directory, tokens: tokens}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	if req.Role == "" {
		req.Role = domain.RoleStudent
	}
	// Admin and maintenance accounts are provisioned, not self-registered.
	if req.Role == domain.RoleAdmin || req.Role == domain.RoleMaintenance {
		return apperrors.NewForbidden("role not available for self-registration")
	}

	account, err := h.directory.Register(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	token, exp, err := h.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountResponseFrom(account.Sanitize()),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, err := h.directory.FindByCredentials(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, exp, err := h.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountResponseFrom(account.Sanitize()),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.directory.Logout(c.Context())
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session handles GET /auth/session, returning the authenticated caller.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}
	return c.JSON(fiber.Map{"data": dto.AccountResponseFrom(account.Sanitize())})
}
