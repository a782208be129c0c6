package service

import (
	"context"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	apperrors "github.com/ejcents/schoolfix-minicapstone/pkg/util"
)

// StatusFilterAll widens the status filter to every status.
const StatusFilterAll = "all"

// View derives per-role projections of the ledger and the directory. It
// holds no state of its own; every call recomputes from the current
// snapshots.
type View struct {
	ledger    *Ledger
	directory *Directory
}

// NewView constructs the view over the two stores of record.
func NewView(ledger *Ledger, directory *Directory) *View {
	return &View{ledger: ledger, directory: directory}
}

// VisibleIssues returns the subset of issues the account may see, narrowed
// by an optional status filter ("all" or empty means no narrowing). Admins
// see everything; maintenance staff see issues assigned to them; everyone
// else sees only what they reported.
func (v *View) VisibleIssues(account *domain.Account, statusFilter string) []domain.Issue {
	issues := v.ledger.List()
	visible := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if !visibleTo(account, issue) {
			continue
		}
		if statusFilter != "" && statusFilter != StatusFilterAll && string(issue.Status) != statusFilter {
			continue
		}
		visible = append(visible, issue)
	}
	return visible
}

func visibleTo(account *domain.Account, issue domain.Issue) bool {
	if account == nil {
		return false
	}
	switch account.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleMaintenance:
		return issue.AssignedTo != nil && issue.AssignedTo.ID == account.ID
	default:
		return issue.ReportedBy.ID == account.ID
	}
}

// CountByStatus aggregates the unfiltered ledger for analytics.
func (v *View) CountByStatus() map[domain.IssueStatus]int {
	counts := map[domain.IssueStatus]int{
		domain.IssueStatusPending:    0,
		domain.IssueStatusInProgress: 0,
		domain.IssueStatusResolved:   0,
		domain.IssueStatusClosed:     0,
	}
	for _, issue := range v.ledger.List() {
		counts[issue.Status]++
	}
	return counts
}

// CountByCategory aggregates the unfiltered ledger for analytics.
func (v *View) CountByCategory() map[domain.IssueCategory]int {
	counts := map[domain.IssueCategory]int{
		domain.IssueCategoryElectrical: 0,
		domain.IssueCategoryPlumbing:   0,
		domain.IssueCategoryStructural: 0,
		domain.IssueCategoryCleaning:   0,
		domain.IssueCategoryOther:      0,
	}
	for _, issue := range v.ledger.List() {
		counts[issue.Category]++
	}
	return counts
}

// MaintenanceStaff is the directory subset admins assign work from.
func (v *View) MaintenanceStaff() []domain.SanitizedAccount {
	return v.directory.ListByRole(domain.RoleMaintenance)
}

// AssignablePool is the wider detail-view pool: maintenance staff plus
// admins.
func (v *View) AssignablePool() []domain.SanitizedAccount {
	pool := v.directory.ListByRole(domain.RoleAdmin)
	return append(pool, v.directory.ListByRole(domain.RoleMaintenance)...)
}

// CanEdit reports whether the account may edit the issue: its original
// reporter or any admin.
func (v *View) CanEdit(account *domain.Account, issue domain.Issue) bool {
	if account == nil {
		return false
	}
	return account.Role == domain.RoleAdmin || issue.ReportedBy.ID == account.ID
}

// CanUpdateStatus reports whether the account may change the issue's status:
// admins, or the maintenance staff member the issue is assigned to.
func (v *View) CanUpdateStatus(account *domain.Account, issue domain.Issue) bool {
	if account == nil {
		return false
	}
	if account.Role == domain.RoleAdmin {
		return true
	}
	return account.Role == domain.RoleMaintenance &&
		issue.AssignedTo != nil && issue.AssignedTo.ID == account.ID
}

// CanComment reports whether the account may append to the issue's thread:
// anyone who can see it and act on it.
func (v *View) CanComment(account *domain.Account, issue domain.Issue) bool {
	return visibleTo(account, issue)
}

// AuthorizeAssign validates an assignment request: only admins assign, and
// the assignee must come from the assignable pool.
func (v *View) AuthorizeAssign(ctx context.Context, actor *domain.Account, assigneeID string) (*domain.Account, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("only admins may assign issues")
	}
	assignee, found := v.directory.GetByID(ctx, assigneeID)
	if !found {
		return nil, apperrors.NewNotFound("account", map[string]any{"account_id": assigneeID})
	}
	if assignee.Role != domain.RoleMaintenance && assignee.Role != domain.RoleAdmin {
		return nil, apperrors.NewValidationError("assignee must be maintenance staff", map[string]any{
			"account_id": assigneeID,
			"role":       assignee.Role,
		})
	}
	return assignee, nil
}
