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

type LeaveService struct {
	store    store.Store
	notifier Notifier
	logger   logrus.FieldLogger
}

func NewLeaveService(deps Dependencies) *LeaveService {
	deps = deps.withDefaults()
	return &LeaveService{
		store:    deps.Store,
		notifier: deps.Notifier,
		logger:   deps.Logger.WithField("service", "leaves"),
	}
}

type CreateLeaveInput struct {
	// EmployeeID defaults to the actor when zero
	EmployeeID uint
	Type       string
	StartDate  *time.Time
	EndDate    *time.Time
	Reason     string
}

func (s *LeaveService) ListLeaves(ctx context.Context, actor *models.User) ([]models.Leave, error) {
	ids, err := visibleEmployeeIDs(ctx, s.store, actor)
	if err != nil {
		return nil, err
	}
	leaves, err := s.store.ListLeaves(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return leaves, nil
}

func (s *LeaveService) CreateLeave(ctx context.Context, actor *models.User, in CreateLeaveInput) (*models.Leave, error) {
	if in.Type == "" || in.StartDate == nil || in.EndDate == nil {
		return nil, ValidationError("please include type, start date, and end date")
	}
	if !models.ValidLeaveType(in.Type) {
		return nil, ValidationError("invalid leave type")
	}
	if in.EndDate.Before(*in.StartDate) {
		return nil, ValidationError("end date cannot be before start date")
	}

	employeeID := in.EmployeeID
	if employeeID == 0 {
		employeeID = actor.ID
	}
	if employeeID != actor.ID {
		if actor.Role == models.RoleEmployee {
			return nil, AuthorizationError("employees can only create leaves for themselves")
		}
		employee, err := s.store.FindUserByID(ctx, employeeID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFoundError("employee not found")
		}
		if err != nil {
			return nil, fmt.Errorf("find employee: %w", err)
		}
		if err := CanManageEmployee(actor, employee); err != nil {
			return nil, err
		}
	}

	leave := &models.Leave{
		EmployeeID: employeeID,
		Type:       in.Type,
		StartDate:  *in.StartDate,
		EndDate:    *in.EndDate,
		Reason:     strings.TrimSpace(in.Reason),
		Status:     models.LeavePending,
	}
	if err := s.store.CreateLeave(ctx, leave); err != nil {
		return nil, fmt.Errorf("create leave: %w", err)
	}
	return leave, nil
}

// UpdateLeave records a manager or admin decision on a leave request
func (s *LeaveService) UpdateLeave(ctx context.Context, actor *models.User, leaveID uint, status, note string) (*models.Leave, error) {
	if err := RequireRole(actor, models.RoleManager, models.RoleAdmin); err != nil {
		return nil, err
	}
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return nil, ValidationError("status must be approved or rejected")
	}

	leave, err := s.store.FindLeave(ctx, leaveID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("leave request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find leave: %w", err)
	}

	employee, err := s.store.FindUserByID(ctx, leave.EmployeeID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if actor.Role == models.RoleManager && (employee == nil || !isManagerOf(actor, employee)) {
		return nil, AuthorizationError("not authorized to update this leave request")
	}

	leave.Status = status
	leave.ReviewNote = strings.TrimSpace(note)
	leave.ReviewedByID = &actor.ID
	if err := s.store.SaveLeave(ctx, leave); err != nil {
		return nil, fmt.Errorf("save leave: %w", err)
	}

	if employee != nil {
		if err := s.notifier.LeaveReviewed(ctx, employee, leave, actor); err != nil {
			s.logger.WithError(err).WithField("leave_id", leave.ID).Warn("leave notification not queued")
		}
	}
	return leave, nil
}
