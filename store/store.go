package store

import (
	"context"
	"errors"

	"hrms/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrTeamFull      = errors.New("team is at maximum capacity")
	ErrAlreadyMember = errors.New("user is already a member of this team")
)

// UserFilter narrows ListUsers. Zero values do not filter.
type UserFilter struct {
	Department string
	Location   string
	Skills     []string // matches users holding any of the skills
	ManagerID  *uint
}

// TeamFilter narrows ListTeams. Zero values do not filter.
type TeamFilter struct {
	Name          string
	ProjectStatus string
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	CountUsers(ctx context.Context) (int64, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByFirstName(ctx context.Context, firstName string) ([]models.User, error)
	FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

type TeamStore interface {
	JoinCodeExists(ctx context.Context, code string) (bool, error)
	// CreateTeam inserts the team and its leader membership together.
	CreateTeam(ctx context.Context, team *models.Team, leaderID uint) error
	FindTeam(ctx context.Context, id uint) (*models.Team, error)
	FindActiveTeamByCode(ctx context.Context, code string) (*models.Team, error)
	ListTeamsForUser(ctx context.Context, userID uint) ([]models.Team, error)
	ListTeams(ctx context.Context, filter TeamFilter) ([]models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
	// DeleteTeam removes the team with its memberships and tasks.
	DeleteTeam(ctx context.Context, id uint) error
	// AddMember checks capacity and existing membership and inserts in one step.
	AddMember(ctx context.Context, teamID uint, member *models.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID uint) error
	UpdateMemberRole(ctx context.Context, teamID, userID uint, role string) error
}

type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
	FindTask(ctx context.Context, teamID, taskID uint) (*models.Task, error)
	SaveTask(ctx context.Context, task *models.Task) error
	// ListTasks returns the team's tasks, optionally only those of one assignee.
	ListTasks(ctx context.Context, teamID uint, assigneeID *uint) ([]models.Task, error)
}

type LeaveStore interface {
	CreateLeave(ctx context.Context, leave *models.Leave) error
	FindLeave(ctx context.Context, id uint) (*models.Leave, error)
	SaveLeave(ctx context.Context, leave *models.Leave) error
	// ListLeaves returns leaves of the given employees, or all leaves when employeeIDs is nil.
	ListLeaves(ctx context.Context, employeeIDs []uint) ([]models.Leave, error)
}

type PerformanceStore interface {
	CreateReview(ctx context.Context, review *models.PerformanceReview) error
	// ListReviews returns reviews of the given employees, or all reviews when employeeIDs is nil.
	ListReviews(ctx context.Context, employeeIDs []uint) ([]models.PerformanceReview, error)
	CreateGoal(ctx context.Context, goal *models.Goal) error
	FindGoal(ctx context.Context, id uint) (*models.Goal, error)
	SaveGoal(ctx context.Context, goal *models.Goal) error
	ListGoals(ctx context.Context, employeeID uint) ([]models.Goal, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	PendingNotifications(ctx context.Context, limit int) ([]models.Notification, error)
	SaveNotification(ctx context.Context, n *models.Notification) error
}

// Store is the full persistence surface used by the services
type Store interface {
	UserStore
	TeamStore
	TaskStore
	LeaveStore
	PerformanceStore
	NotificationStore

	// WithinTx runs fn against a transactional view of the store. Writes made through
	// the view are discarded when fn returns an error.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
