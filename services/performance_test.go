package services

import (
	"context"
	"testing"

	"hrms/models"
	"hrms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "Mona", models.RoleManager)
	report := env.createReport(t, "Rita", manager)
	other := env.createUser(t, "Omar", models.RoleEmployee)

	in := CreateReviewInput{
		EmployeeID: report.ID,
		Cycle:      "Q2 2025",
		Goals:      []models.ReviewGoal{{Description: "Ship v2", Weightage: 50}},
		Feedback:   "solid quarter",
	}

	_, err := env.perf.CreateReview(ctx, report, in)
	requireKind(t, err, KindAuthorization)

	review, err := env.perf.CreateReview(ctx, manager, in)
	require.NoError(t, err)
	assert.Equal(t, manager.ID, review.ReviewerID)
	assert.Len(t, review.Goals, 1)

	in.EmployeeID = other.ID
	_, err = env.perf.CreateReview(ctx, manager, in)
	requireKind(t, err, KindAuthorization)

	in.EmployeeID = 999
	_, err = env.perf.CreateReview(ctx, manager, in)
	requireKind(t, err, KindNotFound)

	in.EmployeeID = report.ID
	in.Cycle = ""
	_, err = env.perf.CreateReview(ctx, manager, in)
	requireKind(t, err, KindValidation)

	mine, err := env.perf.ListReviews(ctx, report)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := env.perf.ListReviews(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	manager := env.createUser(t, "Mona", models.RoleManager)
	report := env.createReport(t, "Rita", manager)
	other := env.createUser(t, "Omar", models.RoleEmployee)
	admin := env.createUser(t, "Ada", models.RoleAdmin)

	_, err := env.perf.CreateGoal(ctx, report, GoalInput{Title: ""})
	requireKind(t, err, KindValidation)
	_, err = env.perf.CreateGoal(ctx, report, GoalInput{Title: "Learn Go", Progress: 101})
	requireKind(t, err, KindValidation)

	goal, err := env.perf.CreateGoal(ctx, report, GoalInput{Title: "Learn Go", Weightage: 30})
	require.NoError(t, err)
	assert.Equal(t, report.ID, goal.EmployeeID)

	_, err = env.perf.UpdateGoal(ctx, other, goal.ID, GoalUpdate{Progress: utils.Pointer(50)})
	requireKind(t, err, KindAuthorization)

	_, err = env.perf.UpdateGoal(ctx, report, goal.ID, GoalUpdate{Progress: utils.Pointer(-1)})
	requireKind(t, err, KindValidation)

	done, err := env.perf.UpdateGoal(ctx, report, goal.ID, GoalUpdate{Progress: utils.Pointer(100)})
	require.NoError(t, err)
	assert.True(t, done.Completed)

	_, err = env.perf.UpdateGoal(ctx, admin, goal.ID, GoalUpdate{Title: utils.Pointer("Master Go")})
	require.NoError(t, err)

	byManager, err := env.perf.ListGoals(ctx, manager, report.ID)
	require.NoError(t, err)
	require.Len(t, byManager, 1)
	assert.Equal(t, "Master Go", byManager[0].Title)

	_, err = env.perf.ListGoals(ctx, other, report.ID)
	requireKind(t, err, KindAuthorization)

	own, err := env.perf.ListGoals(ctx, report, 0)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}
