package dto

import (
	"time"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Location    string               `json:"location"`
	Category    domain.IssueCategory `json:"category"`
	Priority    domain.IssuePriority `json:"priority"`
	Images      []string             `json:"images"`
}

// UpdateIssueRequest is a partial update; absent fields are left unchanged.
type UpdateIssueRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Location    *string               `json:"location"`
	Category    *domain.IssueCategory `json:"category"`
	Priority    *domain.IssuePriority `json:"priority"`
	Images      *[]string             `json:"images"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IssueStatus `json:"status"`
}

// AssignIssueRequest payload.
type AssignIssueRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueSummary response.
type IssueSummary struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Location   string               `json:"location"`
	Category   domain.IssueCategory `json:"category"`
	Status     domain.IssueStatus   `json:"status"`
	Priority   domain.IssuePriority `json:"priority"`
	ReportedBy domain.Reporter      `json:"reported_by"`
	AssignedTo *domain.Assignee     `json:"assigned_to,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// IssueDetailResponse provides full issue info including the comment thread.
type IssueDetailResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Location    string               `json:"location"`
	Category    domain.IssueCategory `json:"category"`
	Status      domain.IssueStatus   `json:"status"`
	Priority    domain.IssuePriority `json:"priority"`
	ReportedBy  domain.Reporter      `json:"reported_by"`
	AssignedTo  *domain.Assignee     `json:"assigned_to,omitempty"`
	Images      []string             `json:"images"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Comments    []CommentResponse    `json:"comments"`
}

// AnalyticsResponse aggregates the unfiltered ledger.
type AnalyticsResponse struct {
	ByStatus   map[domain.IssueStatus]int   `json:"by_status"`
	ByCategory map[domain.IssueCategory]int `json:"by_category"`
	Total      int                          `json:"total"`
}
