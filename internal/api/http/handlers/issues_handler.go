package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ejcents/schoolfix-minicapstone/internal/api/dto"
	"github.com/ejcents/schoolfix-minicapstone/internal/auth"
	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/service"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

// IssuesHandler manages issue reporting, listing and mutation endpoints.
type IssuesHandler struct {
	ledger *service.Ledger
	view   *service.View
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(ledger *service.Ledger, view *service.View) *IssuesHandler {
	return &IssuesHandler{ledger: ledger, view: view}
}

// CreateIssue POST /issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Location) == "" {
		return apperrors.NewValidationError("title, description, location required", nil)
	}
	if !domain.ValidCategory(req.Category) {
		return apperrors.NewValidationError("invalid category", map[string]any{"category": req.Category})
	}
	if req.Priority != "" && !domain.ValidPriority(req.Priority) {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": req.Priority})
	}

	issue := h.ledger.Create(c.Context(), service.IssueCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		Status:      domain.IssueStatusPending,
		Priority:    req.Priority,
		ReportedBy: domain.Reporter{
			ID:   account.ID,
			Name: account.Name,
			Role: account.Role,
		},
		Images: req.Images,
	})
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueDetail(issue)})
}

// ListIssues GET /issues. The visible subset depends on the caller's role;
// an optional status query narrows it further.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	statusFilter := c.Query("status", service.StatusFilterAll)
	if statusFilter != service.StatusFilterAll && !domain.ValidStatus(domain.IssueStatus(statusFilter)) {
		return apperrors.NewValidationError("invalid status filter", map[string]any{"status": statusFilter})
	}

	issues := h.view.VisibleIssues(account, statusFilter)
	items := make([]dto.IssueSummary, 0, len(issues))
	for i := range issues {
		items = append(items, issueSummary(issues[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	issue, found := h.ledger.GetByID(c.Params("id"))
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": c.Params("id")})
	}
	if !h.view.CanComment(account, issue) && !h.view.CanEdit(account, issue) {
		return apperrors.NewForbidden("access denied")
	}
	return c.JSON(fiber.Map{"data": issueDetail(issue)})
}

// UpdateIssue PATCH /issues/:id. Only the original reporter or an admin may
// edit.
func (h *IssuesHandler) UpdateIssue(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	issue, found := h.ledger.GetByID(c.Params("id"))
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": c.Params("id")})
	}
	if !h.view.CanEdit(account, issue) {
		return apperrors.NewForbidden("you don't have permission to edit this issue")
	}

	var req dto.UpdateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Category != nil && !domain.ValidCategory(*req.Category) {
		return apperrors.NewValidationError("invalid category", map[string]any{"category": *req.Category})
	}
	if req.Priority != nil && !domain.ValidPriority(*req.Priority) {
		return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *req.Priority})
	}

	updated, found := h.ledger.Update(c.Context(), account, issue.ID, service.IssuePatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		Priority:    req.Priority,
		Images:      req.Images,
	})
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": issue.ID})
	}
	return c.JSON(fiber.Map{"data": issueDetail(updated)})
}

// UpdateStatus PATCH /issues/:id/status. Admins or the assigned maintenance
// staff member.
func (h *IssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	issue, found := h.ledger.GetByID(c.Params("id"))
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": c.Params("id")})
	}
	if !h.view.CanUpdateStatus(account, issue) {
		return apperrors.NewForbidden("access denied")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidStatus(req.Status) {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}

	updated, found := h.ledger.Update(c.Context(), account, issue.ID, service.IssuePatch{Status: &req.Status})
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": issue.ID})
	}
	return c.JSON(fiber.Map{"data": issueSummary(updated)})
}

// AssignIssue POST /issues/:id/assign. Admin only.
func (h *IssuesHandler) AssignIssue(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	var req dto.AssignIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}

	assignee, err := h.view.AuthorizeAssign(c.Context(), account, req.AssigneeID)
	if err != nil {
		return err
	}

	updated, found := h.ledger.Update(c.Context(), account, c.Params("id"), service.IssuePatch{
		AssignedTo: &domain.Assignee{ID: assignee.ID, Name: assignee.Name},
	})
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": issueSummary(updated)})
}

// AddComment POST /issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	issue, found := h.ledger.GetByID(c.Params("id"))
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": c.Params("id")})
	}
	if !h.view.CanComment(account, issue) {
		return apperrors.NewForbidden("access denied")
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}

	updated, found := h.ledger.AddComment(c.Context(), account, issue.ID, req.Text, account.Name)
	if !found {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": issue.ID})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": issueDetail(updated)})
}

// DeleteIssue DELETE /issues/:id. Admin only; the route guard enforces the
// role.
func (h *IssuesHandler) DeleteIssue(c *fiber.Ctx) error {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("sign-in required")
	}
	if !h.ledger.Delete(c.Context(), account, c.Params("id")) {
		return apperrors.NewNotFound("issue", map[string]any{"issue_id": c.Params("id")})
	}
	return c.SendStatus(http.StatusNoContent)
}

func issueSummary(issue domain.Issue) dto.IssueSummary {
	return dto.IssueSummary{
		ID:         issue.ID,
		Title:      issue.Title,
		Location:   issue.Location,
		Category:   issue.Category,
		Status:     issue.Status,
		Priority:   issue.Priority,
		ReportedBy: issue.ReportedBy,
		AssignedTo: issue.AssignedTo,
		CreatedAt:  issue.CreatedAt,
		UpdatedAt:  issue.UpdatedAt,
	}
}

func issueDetail(issue domain.Issue) dto.IssueDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(issue.Comments))
	for _, comment := range issue.Comments {
		comments = append(comments, dto.CommentResponse{
			ID:        comment.ID,
			Text:      comment.Text,
			Author:    comment.Author,
			CreatedAt: comment.CreatedAt,
		})
	}
	return dto.IssueDetailResponse{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Location:    issue.Location,
		Category:    issue.Category,
		Status:      issue.Status,
		Priority:    issue.Priority,
		ReportedBy:  issue.ReportedBy,
		AssignedTo:  issue.AssignedTo,
		Images:      issue.Images,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
		Comments:    comments,
	}
}
