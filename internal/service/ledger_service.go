package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/events"
	"github.com/ejcents/schoolfix-minicapstone/internal/store"
)

// Ledger owns the canonical issue list in insertion order. Every mutation
// flushes the full list to the issues slot before returning. All reads hand
// out deep copies; nothing outside the ledger ever holds a writable
// reference to the backing slice.
type Ledger struct {
	mu         sync.Mutex
	store      store.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	issues     []domain.Issue
}

// LedgerDependencies bundles collaborators for the ledger.
type LedgerDependencies struct {
	Store      store.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// IssueCreateInput describes issue creation payload. ID and timestamps are
// assigned by the ledger.
type IssueCreateInput struct {
	Title       string
	Description string
	Location    string
	Category    domain.IssueCategory
	Status      domain.IssueStatus
	Priority    domain.IssuePriority
	ReportedBy  domain.Reporter
	Images      []string
}

// IssuePatch is a partial update. Nil fields are left unchanged; a non-nil
// AssignedTo replaces the previous assignee wholesale.
type IssuePatch struct {
	Title       *string
	Description *string
	Location    *string
	Category    *domain.IssueCategory
	Status      *domain.IssueStatus
	Priority    *domain.IssuePriority
	AssignedTo  *domain.Assignee
	Images      *[]string
}

// NewLedger loads the issues slot. After the startup reset policy the slot
// is normally empty.
func NewLedger(ctx context.Context, deps LedgerDependencies) (*Ledger, error) {
	l := &Ledger{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if l.now == nil {
		l.now = time.Now
	}

	issues, _, err := store.Load[domain.Issue](ctx, l.store, store.SlotIssues)
	if err != nil {
		return nil, err
	}
	l.issues = issues
	return l, nil
}

// Create appends a new issue. CreatedAt and UpdatedAt are set to the same
// instant; status defaults to pending, priority to medium.
func (l *Ledger) Create(ctx context.Context, input IssueCreateInput) domain.Issue {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	issue := domain.Issue{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Category:    input.Category,
		Status:      input.Status,
		Priority:    input.Priority,
		ReportedBy:  input.ReportedBy,
		Images:      append([]string(nil), input.Images...),
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []domain.Comment{},
	}
	if issue.Status == "" {
		issue.Status = domain.IssueStatusPending
	}
	if issue.Priority == "" {
		issue.Priority = domain.IssuePriorityMedium
	}
	if issue.Images == nil {
		issue.Images = []string{}
	}

	l.issues = append(l.issues, issue)
	l.flush(ctx)
	l.publish(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Actor:   events.Actor{AccountID: issue.ReportedBy.ID, Role: issue.ReportedBy.Role},
		Payload: events.IssueCreatedPayload{
			Title:    issue.Title,
			Category: issue.Category,
			Priority: issue.Priority,
			Location: issue.Location,
		},
	})
	return issue.Clone()
}

// Update shallow-merges the patch over the stored issue. UpdatedAt is bumped
// whenever the patch is applied, even if no field changed value. Unknown ids
// are a no-op reported through the second return value.
func (l *Ledger) Update(ctx context.Context, actor *domain.Account, id string, patch IssuePatch) (domain.Issue, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Issue{}, false
	}

	issue := &l.issues[idx]
	oldStatus := issue.Status
	fields := []string{}

	if patch.Title != nil {
		issue.Title = *patch.Title
		fields = append(fields, "title")
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
		fields = append(fields, "description")
	}
	if patch.Location != nil {
		issue.Location = *patch.Location
		fields = append(fields, "location")
	}
	if patch.Category != nil {
		issue.Category = *patch.Category
		fields = append(fields, "category")
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
		fields = append(fields, "status")
	}
	if patch.Priority != nil {
		issue.Priority = *patch.Priority
		fields = append(fields, "priority")
	}
	if patch.AssignedTo != nil {
		assignee := *patch.AssignedTo
		issue.AssignedTo = &assignee
		fields = append(fields, "assignedTo")
	}
	if patch.Images != nil {
		issue.Images = append([]string(nil), *patch.Images...)
		fields = append(fields, "images")
	}
	issue.UpdatedAt = l.now()

	l.flush(ctx)

	if patch.AssignedTo != nil {
		l.publish(ctx, events.Event{
			Type:    events.EventIssueAssigned,
			IssueID: issue.ID,
			Actor:   actorOf(actor),
			Payload: events.IssueAssignedPayload{
				AssigneeID:   patch.AssignedTo.ID,
				AssigneeName: patch.AssignedTo.Name,
			},
		})
	}
	payload := events.IssueUpdatedPayload{Fields: fields}
	if patch.Status != nil {
		payload.OldStatus = oldStatus
		payload.NewStatus = issue.Status
	}
	l.publish(ctx, events.Event{
		Type:    events.EventIssueUpdated,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Payload: payload,
	})
	return issue.Clone(), true
}

// AddComment appends to the issue's comment thread and bumps UpdatedAt.
// Comments are never edited or removed.
func (l *Ledger) AddComment(ctx context.Context, actor *domain.Account, id, text, author string) (domain.Issue, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Issue{}, false
	}

	issue := &l.issues[idx]
	comment := domain.Comment{
		ID:        uuid.NewString(),
		Text:      text,
		Author:    author,
		CreatedAt: l.now(),
	}
	issue.Comments = append(issue.Comments, comment)
	issue.UpdatedAt = comment.CreatedAt

	l.flush(ctx)
	l.publish(ctx, events.Event{
		Type:    events.EventIssueCommentAdded,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Payload: events.IssueCommentAddedPayload{
			CommentID:   comment.ID,
			Author:      comment.Author,
			TextPreview: textPreview(comment.Text, 120),
		},
	})
	return issue.Clone(), true
}

// GetByID returns a copy of the issue, reporting absence via the second
// return value.
func (l *Ledger) GetByID(id string) (domain.Issue, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Issue{}, false
	}
	return l.issues[idx].Clone(), true
}

// List returns copies of all issues in insertion order.
func (l *Ledger) List() []domain.Issue {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Issue, 0, len(l.issues))
	for i := range l.issues {
		out = append(out, l.issues[i].Clone())
	}
	return out
}

// Delete removes the issue if present; unknown ids are a no-op.
func (l *Ledger) Delete(ctx context.Context, actor *domain.Account, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return false
	}
	l.issues = append(l.issues[:idx], l.issues[idx+1:]...)
	l.flush(ctx)
	l.publish(ctx, events.Event{
		Type:    events.EventIssueDeleted,
		IssueID: id,
		Actor:   actorOf(actor),
	})
	return true
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.issues {
		if l.issues[i].ID == id {
			return i
		}
	}
	return -1
}

// flush persists the full ledger synchronously. Failures are logged and not
// surfaced; persistence is best-effort by contract.
func (l *Ledger) flush(ctx context.Context) {
	if err := store.Save(ctx, l.store, store.SlotIssues, l.issues); err != nil {
		l.logger.Warn("failed to persist issues", zap.Error(err))
	}
}

func (l *Ledger) publish(ctx context.Context, event events.Event) {
	if l.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}
	_ = l.dispatcher.Publish(ctx, event)
}

func actorOf(account *domain.Account) events.Actor {
	if account == nil {
		return events.Actor{}
	}
	return events.Actor{AccountID: account.ID, Role: account.Role}
}

func textPreview(text string, max int) string {
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
