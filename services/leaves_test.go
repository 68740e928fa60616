package services

import (
	"context"
	"testing"
	"time"

	"hrms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaveInput(employeeID uint) CreateLeaveInput {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	return CreateLeaveInput{
		EmployeeID: employeeID,
		Type:       models.LeaveVacation,
		StartDate:  &start,
		EndDate:    &end,
		Reason:     "summer",
	}
}

func TestCreateLeave(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "Mona", models.RoleManager)
	report := env.createReport(t, "Rita", manager)
	other := env.createUser(t, "Omar", models.RoleEmployee)

	own, err := env.leaves.CreateLeave(ctx, report, leaveInput(0))
	require.NoError(t, err)
	assert.Equal(t, report.ID, own.EmployeeID)
	assert.Equal(t, models.LeavePending, own.Status)

	_, err = env.leaves.CreateLeave(ctx, report, leaveInput(other.ID))
	requireKind(t, err, KindAuthorization)

	_, err = env.leaves.CreateLeave(ctx, manager, leaveInput(report.ID))
	require.NoError(t, err)

	_, err = env.leaves.CreateLeave(ctx, manager, leaveInput(other.ID))
	requireKind(t, err, KindAuthorization)

	bad := leaveInput(0)
	bad.Type = "holiday"
	_, err = env.leaves.CreateLeave(ctx, report, bad)
	requireKind(t, err, KindValidation)

	backwards := leaveInput(0)
	backwards.EndDate, backwards.StartDate = backwards.StartDate, backwards.EndDate
	_, err = env.leaves.CreateLeave(ctx, report, backwards)
	requireKind(t, err, KindValidation)

	_, err = env.leaves.CreateLeave(ctx, report, CreateLeaveInput{Type: models.LeaveSick})
	requireKind(t, err, KindValidation)
}

func TestListLeavesVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "Mona", models.RoleManager)
	report := env.createReport(t, "Rita", manager)
	other := env.createUser(t, "Omar", models.RoleEmployee)
	admin := env.createUser(t, "Ada", models.RoleAdmin)

	for _, u := range []*models.User{manager, report, other} {
		_, err := env.leaves.CreateLeave(ctx, u, leaveInput(0))
		require.NoError(t, err)
	}

	mine, err := env.leaves.ListLeaves(ctx, report)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, report.ID, mine[0].EmployeeID)

	team, err := env.leaves.ListLeaves(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, team, 2)

	all, err := env.leaves.ListLeaves(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateLeave(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "Mona", models.RoleManager)
	otherManager := env.createUser(t, "Max", models.RoleManager)
	report := env.createReport(t, "Rita", manager)
	admin := env.createUser(t, "Ada", models.RoleAdmin)

	leave, err := env.leaves.CreateLeave(ctx, report, leaveInput(0))
	require.NoError(t, err)

	_, err = env.leaves.UpdateLeave(ctx, report, leave.ID, models.LeaveApproved, "")
	requireKind(t, err, KindAuthorization)

	_, err = env.leaves.UpdateLeave(ctx, otherManager, leave.ID, models.LeaveApproved, "")
	requireKind(t, err, KindAuthorization)

	_, err = env.leaves.UpdateLeave(ctx, manager, leave.ID, models.LeavePending, "")
	requireKind(t, err, KindValidation)

	_, err = env.leaves.UpdateLeave(ctx, manager, 999, models.LeaveApproved, "")
	requireKind(t, err, KindNotFound)

	approved, err := env.leaves.UpdateLeave(ctx, manager, leave.ID, models.LeaveApproved, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, manager.ID, *approved.ReviewedByID)
	assert.Equal(t, []uint{report.ID}, env.notifier.reviewed)

	rejected, err := env.leaves.UpdateLeave(ctx, admin, leave.ID, models.LeaveRejected, "")
	require.NoError(t, err)
	assert.Equal(t, models.LeaveRejected, rejected.Status)
}
