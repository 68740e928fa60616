package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms/models"
	"hrms/store"

	"github.com/sirupsen/logrus"
)

type PerformanceService struct {
	store  store.Store
	logger logrus.FieldLogger
}

func NewPerformanceService(deps Dependencies) *PerformanceService {
	deps = deps.withDefaults()
	return &PerformanceService{
		store:  deps.Store,
		logger: deps.Logger.WithField("service", "performance"),
	}
}

type CreateReviewInput struct {
	EmployeeID   uint
	Cycle        string
	Goals        []models.ReviewGoal
	Feedback     string
	OverallScore *float64
}

type GoalInput struct {
	Title       string
	Description string
	Weightage   float64
	DueDate     *time.Time
	Progress    int
}

// GoalUpdate holds goal changes. Nil fields are left as they are.
type GoalUpdate struct {
	Title       *string
	Description *string
	Weightage   *float64
	DueDate     *time.Time
	Progress    *int
	Completed   *bool
}

func (s *PerformanceService) ListReviews(ctx context.Context, actor *models.User) ([]models.PerformanceReview, error) {
	ids, err := visibleEmployeeIDs(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PerformanceService) CreateReview(ctx context.Context, actor *models.User, in CreateReviewInput) (*models.PerformanceReview, error) {
	if err := RequireRole(actor, models.RoleManager, models.RoleAdmin); err != nil {
		return nil, err
	}
	cycle := strings.TrimSpace(in.Cycle)
	if in.EmployeeID == 0 || cycle == "" {
		return nil, ValidationError("employee and review cycle are required")
	}
	if in.OverallScore != nil && (*in.OverallScore < 0 || *in.OverallScore > 5) {
		return nil, ValidationError("overall score must be between 0 and 5")
	}

	employee, err := s.store.FindUserByID(ctx, in.EmployeeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("employee not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if err := CanManageEmployee(actor, employee); err != nil {
		return nil, err
	}

	goals := in.Goals
	if goals == nil {
		goals = []models.ReviewGoal{}
	}
	review := &models.PerformanceReview{
		EmployeeID:   employee.ID,
		ReviewerID:   actor.ID,
		Cycle:        cycle,
		Goals:        goals,
		OverallScore: in.OverallScore,
		Feedback:     strings.TrimSpace(in.Feedback),
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// ListGoals returns the goals of employeeID, or of the actor when it is zero
func (s *PerformanceService) ListGoals(ctx context.Context, actor *models.User, employeeID uint) ([]models.Goal, error) {
	if employeeID == 0 {
		employeeID = actor.ID
	}
	if employeeID != actor.ID {
		employee, err := s.store.FindUserByID(ctx, employeeID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError("employee not found")
		}
		if err != nil {
			return nil, fmt.Errorf("find employee: %w", err)
		}
		if err := CanViewAccount(actor, employee); err != nil {
			return nil, err
		}
	}

	goals, err := s.store.ListGoals(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func validProgress(p int) error {
	if p < 0 || p > 100 {
		return ValidationError("progress must be between 0 and 100")
	}
	return nil
}

func (s *PerformanceService) CreateGoal(ctx context.Context, actor *models.User, in GoalInput) (*models.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError("goal title is required")
	}
	if err := validProgress(in.Progress); err != nil {
		return nil, err
	}

	goal := &models.Goal{
		EmployeeID:  actor.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Weightage:   in.Weightage,
		DueDate:     in.DueDate,
		Progress:    in.Progress,
		Completed:   in.Progress == 100,
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

func (s *PerformanceService) UpdateGoal(ctx context.Context, actor *models.User, goalID uint, in GoalUpdate) (*models.Goal, error) {
	goal, err := s.store.FindGoal(ctx, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("goal not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find goal: %w", err)
	}
	if goal.EmployeeID != actor.ID && actor.Role != models.RoleAdmin {
		return nil, AuthorizationError("not authorized to update this goal")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ValidationError("goal title is required")
		}
		goal.Title = title
	}
	if in.Progress != nil {
		if err := validProgress(*in.Progress); err != nil {
			return nil, err
		}
		goal.Progress = *in.Progress
		goal.Completed = goal.Progress == 100
	}
	if in.Description != nil {
		goal.Description = strings.TrimSpace(*in.Description)
	}
	if in.Weightage != nil {
		goal.Weightage = *in.Weightage
	}
	if in.DueDate != nil {
		goal.DueDate = in.DueDate
	}
	if in.Completed != nil {
		goal.Completed = *in.Completed
	}

	if err := s.store.SaveGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}
