package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
	"github.com/ejcents/schoolfix-minicapstone/internal/events"
	"github.com/ejcents/schoolfix-minicapstone/internal/store"
)

// stepClock advances one second per reading so updatedAt comparisons are
// strict.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestLedger(t *testing.T) (*Ledger, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l, err := NewLedger(context.Background(), LedgerDependencies{
		Store:  st,
		Logger: zap.NewNop(),
		Now:    clock.Now,
	})
	require.NoError(t, err)
	return l, st
}

func janeReporter() domain.Reporter {
	return domain.Reporter{ID: "2", Name: "Jane", Role: domain.RoleFaculty}
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:       "Leaky faucet",
		Description: "Dripping all night",
		Location:    "Building A",
		Category:    domain.IssueCategoryPlumbing,
		Status:      domain.IssueStatusPending,
		ReportedBy:  janeReporter(),
	})

	assert.NotEmpty(t, issue.ID)
	assert.Equal(t, issue.CreatedAt, issue.UpdatedAt)
	assert.Equal(t, domain.IssueStatusPending, issue.Status)
	assert.Equal(t, domain.IssuePriorityMedium, issue.Priority, "priority defaults to medium")
	assert.Empty(t, issue.Comments)

	// The ledger flushes synchronously on every mutation.
	stored, ok, err := store.Load[domain.Issue](ctx, st, store.SlotIssues)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, stored, 1)
	assert.Equal(t, issue.ID, stored[0].ID)
}

func TestCreate_DistinctIDs(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		issue := l.Create(ctx, IssueCreateInput{
			Title:      "Broken light",
			Category:   domain.IssueCategoryElectrical,
			ReportedBy: janeReporter(),
		})
		assert.False(t, seen[issue.ID])
		seen[issue.ID] = true
	}
}

func TestUpdate_MergesAndBumpsUpdatedAt(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:       "Leaky faucet",
		Description: "Dripping",
		Location:    "Building A",
		Category:    domain.IssueCategoryPlumbing,
		ReportedBy:  janeReporter(),
	})

	status := domain.IssueStatusResolved
	updated, found := l.Update(ctx, nil, issue.ID, IssuePatch{Status: &status})
	require.True(t, found)

	assert.Equal(t, domain.IssueStatusResolved, updated.Status)
	assert.True(t, updated.UpdatedAt.After(issue.UpdatedAt))
	// Fields absent from the patch are unchanged.
	assert.Equal(t, issue.Title, updated.Title)
	assert.Equal(t, issue.Description, updated.Description)
	assert.Equal(t, issue.Location, updated.Location)
	assert.Equal(t, issue.CreatedAt, updated.CreatedAt)
	assert.Equal(t, issue.ReportedBy, updated.ReportedBy)
}

func TestUpdate_EmptyPatchStillBumpsUpdatedAt(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Squeaky door",
		Category:   domain.IssueCategoryOther,
		ReportedBy: janeReporter(),
	})

	updated, found := l.Update(ctx, nil, issue.ID, IssuePatch{})
	require.True(t, found)
	assert.True(t, updated.UpdatedAt.After(issue.UpdatedAt))
}

func TestUpdate_UnknownIDIsNoOp(t *testing.T) {
	l, _ := newTestLedger(t)

	_, found := l.Update(context.Background(), nil, "missing", IssuePatch{})
	assert.False(t, found)
	assert.Empty(t, l.List())
}

func TestUpdate_AssigneeReplacedWholesale(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Flickering light",
		Category:   domain.IssueCategoryElectrical,
		ReportedBy: janeReporter(),
	})

	_, found := l.Update(ctx, nil, issue.ID, IssuePatch{
		AssignedTo: &domain.Assignee{ID: "m1", Name: "Bob"},
	})
	require.True(t, found)

	updated, found := l.Update(ctx, nil, issue.ID, IssuePatch{
		AssignedTo: &domain.Assignee{ID: "m2", Name: "Rita"},
	})
	require.True(t, found)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "m2", updated.AssignedTo.ID)
	assert.Equal(t, "Rita", updated.AssignedTo.Name)
}

func TestAddComment_AppendOnly(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Clogged drain",
		Category:   domain.IssueCategoryPlumbing,
		ReportedBy: janeReporter(),
	})

	first, found := l.AddComment(ctx, nil, issue.ID, "On it", "Bob")
	require.True(t, found)
	require.Len(t, first.Comments, 1)

	second, found := l.AddComment(ctx, nil, issue.ID, "Done", "Bob")
	require.True(t, found)
	require.Len(t, second.Comments, 2)

	// Prior comments are untouched and order is preserved.
	assert.Equal(t, first.Comments[0], second.Comments[0])
	assert.Equal(t, "Done", second.Comments[1].Text)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	_, found = l.AddComment(ctx, nil, "missing", "text", "author")
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Graffiti",
		Category:   domain.IssueCategoryCleaning,
		ReportedBy: janeReporter(),
	})

	assert.True(t, l.Delete(ctx, nil, issue.ID))
	assert.Empty(t, l.List())
	assert.False(t, l.Delete(ctx, nil, issue.ID), "second delete is a no-op")

	stored, _, err := store.Load[domain.Issue](ctx, st, store.SlotIssues)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestList_ReturnsCopies(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Loose railing",
		Category:   domain.IssueCategoryStructural,
		ReportedBy: janeReporter(),
	})
	_, found := l.AddComment(ctx, nil, issue.ID, "noted", "Admin")
	require.True(t, found)

	listed := l.List()
	require.Len(t, listed, 1)
	listed[0].Title = "tampered"
	listed[0].Comments[0].Text = "tampered"

	fresh, found := l.GetByID(issue.ID)
	require.True(t, found)
	assert.Equal(t, "Loose railing", fresh.Title)
	assert.Equal(t, "noted", fresh.Comments[0].Text)
}

func TestScenario_ReportResolveComment(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	before := len(l.List())
	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Leaky faucet",
		Category:   domain.IssueCategoryPlumbing,
		Status:     domain.IssueStatusPending,
		ReportedBy: domain.Reporter{ID: "2", Name: "Jane", Role: domain.RoleFaculty},
	})
	assert.Len(t, l.List(), before+1)
	assert.Equal(t, issue.CreatedAt, issue.UpdatedAt)
	assert.Equal(t, domain.IssueStatusPending, issue.Status)

	status := domain.IssueStatusResolved
	resolved, found := l.Update(ctx, nil, issue.ID, IssuePatch{Status: &status})
	require.True(t, found)
	assert.Equal(t, domain.IssueStatusResolved, resolved.Status)
	assert.True(t, resolved.UpdatedAt.After(issue.CreatedAt))

	commented, found := l.AddComment(ctx, nil, issue.ID, "Fixed", "Bob")
	require.True(t, found)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "Bob", commented.Comments[0].Author)
}

func TestLedger_PublishesEvents(t *testing.T) {
	st := store.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.EventType
	for _, eventType := range []events.EventType{
		events.EventIssueCreated,
		events.EventIssueUpdated,
		events.EventIssueAssigned,
		events.EventIssueCommentAdded,
		events.EventIssueDeleted,
	} {
		et := eventType
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			seen = append(seen, e.Type)
			return nil
		})
	}

	l, err := NewLedger(context.Background(), LedgerDependencies{
		Store:      st,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	issue := l.Create(ctx, IssueCreateInput{
		Title:      "Leak",
		Category:   domain.IssueCategoryPlumbing,
		ReportedBy: janeReporter(),
	})
	_, _ = l.Update(ctx, nil, issue.ID, IssuePatch{
		AssignedTo: &domain.Assignee{ID: "m1", Name: "Bob"},
	})
	_, _ = l.AddComment(ctx, nil, issue.ID, "ok", "Bob")
	l.Delete(ctx, nil, issue.ID)

	assert.Equal(t, []events.EventType{
		events.EventIssueCreated,
		events.EventIssueAssigned,
		events.EventIssueUpdated,
		events.EventIssueCommentAdded,
		events.EventIssueDeleted,
	}, seen)
}
