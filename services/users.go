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

const maxCapacityHours = 80

// UserService reads and edits account profiles
type UserService struct {
	store  store.Store
	logger logrus.FieldLogger
}

func NewUserService(deps Dependencies) *UserService {
	deps = deps.withDefaults()
	return &UserService{
		store:  deps.Store,
		logger: deps.Logger.WithField("service", "users"),
	}
}

// UserUpdate holds profile changes. Nil fields are left as they are. The fields in
// the second group are only applied for admins.
type UserUpdate struct {
	FirstName       *string
	LastName        *string
	PhoneNumber     *string
	Address         *string
	Location        *string
	DateOfBirth     *time.Time
	Title           *string
	Skills          []string
	ExperienceLevel *string
	CapacityHours   *int

	Role          *string
	Department    *string
	EmployeeID    *string
	ManagerID     *uint
	Salary        *float64
	IsActive      *bool
	DateOfJoining *time.Time
}

// withoutSensitive drops the admin-only fields
func (u UserUpdate) withoutSensitive() UserUpdate {
	u.Role, u.Department, u.EmployeeID, u.ManagerID = nil, nil, nil, nil
	u.Salary, u.IsActive, u.DateOfJoining = nil, nil, nil
	return u
}

func (s *UserService) findUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanViewAccount(actor, user); err != nil {
		return nil, err
	}
	redactFor(actor, user)
	return user, nil
}

// redactFor hides the salary from viewers other than the account holder and admins
func redactFor(actor, user *models.User) {
	if actor.Role != models.RoleAdmin && actor.ID != user.ID {
		user.Salary = nil
	}
}

func (s *UserService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.store.ListUsers(ctx, store.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DirectReports lists accounts whose manager is the actor
func (s *UserService) DirectReports(ctx context.Context, actor *models.User) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx, store.UserFilter{ManagerID: &actor.ID})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	for i := range users {
		redactFor(actor, &users[i])
	}
	return users, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *models.User, id uint, in UserUpdate) (*models.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanUpdateAccount(actor, user); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		in = in.withoutSensitive()
	}
	return s.apply(ctx, user, in)
}

// UpdateProfile edits the actor's own non-sensitive fields
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, in UserUpdate) (*models.User, error) {
	user, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, in.withoutSensitive())
}

func (s *UserService) apply(ctx context.Context, user *models.User, in UserUpdate) (*models.User, error) {
	if err := s.validate(ctx, user, in); err != nil {
		return nil, err
	}

	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setString(&user.FirstName, in.FirstName)
	setString(&user.LastName, in.LastName)
	setString(&user.PhoneNumber, in.PhoneNumber)
	setString(&user.Address, in.Address)
	setString(&user.Location, in.Location)
	setString(&user.Title, in.Title)
	setString(&user.ExperienceLevel, in.ExperienceLevel)
	setString(&user.Role, in.Role)
	setString(&user.Department, in.Department)
	setString(&user.EmployeeID, in.EmployeeID)
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}
	if in.Skills != nil {
		user.Skills = in.Skills
	}
	if in.CapacityHours != nil {
		user.CapacityHours = *in.CapacityHours
	}
	if in.ManagerID != nil {
		if *in.ManagerID == 0 {
			user.ManagerID = nil
		} else {
			user.ManagerID = in.ManagerID
		}
	}
	if in.Salary != nil {
		user.Salary = in.Salary
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.DateOfJoining != nil {
		user.DateOfJoining = in.DateOfJoining
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError("employee id already in use")
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *UserService) validate(ctx context.Context, user *models.User, in UserUpdate) error {
	required := []struct {
		name  string
		value *string
	}{
		{"first name", in.FirstName},
		{"last name", in.LastName},
		{"location", in.Location},
		{"department", in.Department},
		{"employee id", in.EmployeeID},
	}
	for _, f := range required {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return ValidationError("%s cannot be empty", f.name)
		}
	}
	if in.ExperienceLevel != nil && !models.ValidExperienceLevel(*in.ExperienceLevel) {
		return ValidationError("invalid experience level")
	}
	if in.CapacityHours != nil && (*in.CapacityHours < 0 || *in.CapacityHours > maxCapacityHours) {
		return ValidationError("capacity hours must be between 0 and %d", maxCapacityHours)
	}
	if in.Role != nil && !models.ValidRole(*in.Role) {
		return ValidationError("invalid role")
	}
	if in.Salary != nil && *in.Salary < 0 {
		return ValidationError("salary cannot be negative")
	}
	if in.ManagerID != nil && *in.ManagerID != 0 {
		if *in.ManagerID == user.ID {
			return ValidationError("a user cannot manage themselves")
		}
		if _, err := s.findUser(ctx, *in.ManagerID); err != nil {
			if IsKind(err, KindNotFound) {
				return ValidationError("manager not found")
			}
			return err
		}
	}
	return nil
}
