package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ejcents/schoolfix-minicapstone/internal/api/dto"
	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/service"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

// AdminHandler exposes directory listings, staff provisioning and analytics.
// All routes are admin-guarded at registration.
type AdminHandler struct {
	directory *service.Directory
	view      *service.View
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.Directory, view *service.View) *AdminHandler {
	return &AdminHandler{directory: directory, view: view}
}

// ListAccounts GET /accounts. Sanitized, insertion order.
func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	accounts := h.directory.ListSanitized()
	items := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, dto.AccountResponseFrom(account))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMaintenanceStaff GET /accounts/maintenance.
func (h *AdminHandler) ListMaintenanceStaff(c *fiber.Ctx) error {
	staff := h.view.MaintenanceStaff()
	items := make([]dto.AccountResponse, 0, len(staff))
	for _, account := range staff {
		items = append(items, dto.AccountResponseFrom(account))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateMaintenanceAccount POST /accounts/maintenance. Admins provision
// staff accounts; these cannot be self-registered.
func (h *AdminHandler) CreateMaintenanceAccount(c *fiber.Ctx) error {
	var req dto.CreateMaintenanceAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	account, err := h.directory.Register(c.Context(), req.Name, req.Email, req.Password, domain.RoleMaintenance)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AccountResponseFrom(account.Sanitize())})
}

// Analytics GET /analytics. Counts over the unfiltered issue list.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	byStatus := h.view.CountByStatus()
	byCategory := h.view.CountByCategory()

	total := 0
	for _, count := range byStatus {
		total += count
	}
	return c.JSON(fiber.Map{"data": dto.AnalyticsResponse{
		ByStatus:   byStatus,
		ByCategory: byCategory,
		Total:      total,
	}})
}
