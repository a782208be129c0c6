package events

import (
	"time"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated      EventType = "issue_created"
	EventIssueUpdated      EventType = "issue_updated"
	EventIssueAssigned     EventType = "issue_assigned"
	EventIssueCommentAdded EventType = "issue_comment_added"
	EventIssueDeleted      EventType = "issue_deleted"
	EventAccountRegistered EventType = "account_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Title    string               `json:"title"`
	Category domain.IssueCategory `json:"category"`
	Priority domain.IssuePriority `json:"priority"`
	Location string               `json:"location"`
}

// IssueUpdatedPayload payload. OldStatus/NewStatus are set when the update
// changed the status field.
type IssueUpdatedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status,omitempty"`
	NewStatus domain.IssueStatus `json:"new_status,omitempty"`
	Fields    []string           `json:"fields"`
}

// IssueAssignedPayload payload.
type IssueAssignedPayload struct {
	AssigneeID   string `json:"assignee_id"`
	AssigneeName string `json:"assignee_name"`
}

// IssueCommentAddedPayload payload.
type IssueCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	Author      string `json:"author"`
	TextPreview string `json:"text_preview"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}
