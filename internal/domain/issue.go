package domain

import "time"

// IssueStatus enumerates lifecycle states for reported issues. Transitions
// are unconstrained: any status may be set from any other.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "pending"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

// IssueCategory enumerates maintenance categories.
type IssueCategory string

const (
	IssueCategoryElectrical IssueCategory = "electrical"
	IssueCategoryPlumbing   IssueCategory = "plumbing"
	IssueCategoryStructural IssueCategory = "structural"
	IssueCategoryCleaning   IssueCategory = "cleaning"
	IssueCategoryOther      IssueCategory = "other"
)

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "low"
	IssuePriorityMedium IssuePriority = "medium"
	IssuePriorityHigh   IssuePriority = "high"
)

// ValidStatus reports whether s is one of the four issue statuses.
func ValidStatus(s IssueStatus) bool {
	switch s {
	case IssueStatusPending, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// ValidCategory reports whether c is a recognized category.
func ValidCategory(c IssueCategory) bool {
	switch c {
	case IssueCategoryElectrical, IssueCategoryPlumbing, IssueCategoryStructural, IssueCategoryCleaning, IssueCategoryOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p IssuePriority) bool {
	switch p {
	case IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh:
		return true
	}
	return false
}

// Reporter identifies the account that submitted an issue. Immutable after
// creation.
type Reporter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Assignee identifies the staff member an issue is assigned to.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Comment is one entry in an issue's append-only comment thread.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Issue is the aggregate for facility maintenance reports.
type Issue struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Category    IssueCategory `json:"category"`
	Status      IssueStatus   `json:"status"`
	Priority    IssuePriority `json:"priority"`
	ReportedBy  Reporter      `json:"reportedBy"`
	AssignedTo  *Assignee     `json:"assignedTo,omitempty"`
	Images      []string      `json:"images"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Comments    []Comment     `json:"comments"`
}

// Clone returns a deep copy so callers never hold a writable reference into
// the ledger's backing list.
func (i Issue) Clone() Issue {
	clone := i
	if i.AssignedTo != nil {
		assignee := *i.AssignedTo
		clone.AssignedTo = &assignee
	}
	if i.Images != nil {
		clone.Images = append([]string(nil), i.Images...)
	}
	if i.Comments != nil {
		clone.Comments = append([]Comment(nil), i.Comments...)
	}
	return clone
}
