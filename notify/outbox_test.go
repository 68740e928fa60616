package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"hrms/models"
	"hrms/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOutbox(t *testing.T) (*Outbox, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	o, err := NewOutbox(st, st, "HRMS", logger)
	require.NoError(t, err)
	return o, st
}

func addUser(t *testing.T, st *store.MemoryStore, first, email, employeeID string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, LastName: "Test", Email: email, EmployeeID: employeeID}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func TestOutboxTaskAssigned(t *testing.T) {
	ctx := context.Background()
	o, st := newTestOutbox(t)
	leader := addUser(t, st, "Alice", "alice@example.com", "EMP001")
	bob := addUser(t, st, "Bob", "bob@example.com", "EMP002")

	due := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	team := &models.Team{Name: "Launch"}
	task := &models.Task{Title: "Write <plan>", Priority: models.PriorityHigh, AssignerID: leader.ID, DueDate: &due}

	require.NoError(t, o.TaskAssigned(ctx, bob, team, task))

	pending, err := st.PendingNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	n := pending[0]
	assert.Equal(t, bob.ID, n.RecipientID)
	assert.Equal(t, "bob@example.com", n.Email)
	assert.Equal(t, TemplateTaskAssigned, n.Template)
	assert.Equal(t, models.NotificationPending, n.Status)
	assert.True(t, strings.Contains(n.Body, "Hello Bob"))
	assert.True(t, strings.Contains(n.Body, "Alice Test"))
	assert.True(t, strings.Contains(n.Body, "Write &lt;plan&gt;"), "html must be escaped")
	assert.True(t, strings.Contains(n.Body, "Sep 1, 2025"))
}

func TestOutboxLeaveReviewedAndRemoval(t *testing.T) {
	ctx := context.Background()
	o, st := newTestOutbox(t)
	manager := addUser(t, st, "Mona", "mona@example.com", "EMP001")
	rita := addUser(t, st, "Rita", "rita@example.com", "EMP002")

	leave := &models.Leave{
		Type:       models.LeaveSick,
		StartDate:  time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:     models.LeaveApproved,
		ReviewNote: "get well",
	}
	require.NoError(t, o.LeaveReviewed(ctx, rita, leave, manager))
	require.NoError(t, o.RemovedFromTeam(ctx, rita, &models.Team{Name: "Launch"}))

	pending, err := st.PendingNotifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	byTemplate := map[string]models.Notification{}
	for _, n := range pending {
		byTemplate[n.Template] = n
	}
	assert.Equal(t, "Leave request approved", byTemplate[TemplateLeaveReviewed].Subject)
	assert.True(t, strings.Contains(byTemplate[TemplateLeaveReviewed].Body, "get well"))
	assert.Equal(t, "Removed from Launch", byTemplate[TemplateRemovedFromTeam].Subject)
}
