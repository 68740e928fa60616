package models

import (
	"time"

	"gorm.io/gorm"
)

// Team roles
const (
	TeamRoleLeader = "leader"
	TeamRoleMember = "member"
)

// Capacity bounds for a team
const (
	DefaultMaxMembers = 10
	MinMaxMembers     = 2
	MaxMaxMembers     = 50
)

// Project statuses
const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in-progress"
	ProjectCompleted  = "completed"
	ProjectOnHold     = "on-hold"
)

// Task statuses
const (
	TaskAssigned   = "assigned"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Team represents a project/collaboration unit joined through a code
type Team struct {
	gorm.Model
	Name        string `gorm:"not null;size:100" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	JoinCode    string `gorm:"uniqueIndex;not null;size:8" json:"team_code"`
	CreatorID   uint   `gorm:"not null;index" json:"creator_id"`
	MaxMembers  int    `gorm:"default:10" json:"max_members"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Project Project `gorm:"embedded;embeddedPrefix:project_" json:"project"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// Project is the project metadata embedded in a team
type Project struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `gorm:"default:'planning'" json:"status"` // planning, in-progress, completed, on-hold
}

// TeamMember links a user to a team. The row is the only reference between the two,
// so removing it detaches the team from the user as well.
type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_team_member;index" json:"user_id"`
	Role     string    `gorm:"default:'member'" json:"role"` // leader, member
	JoinedAt time.Time `json:"joined_at"`

	User *UserSummary `gorm:"-" json:"user,omitempty"`
}

// Task is a unit of work scoped to a team
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TeamID      uint       `gorm:"not null;index" json:"team_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	AssigneeID  uint       `gorm:"not null;index" json:"assigned_to"`
	AssignerID  uint       `gorm:"not null" json:"assigned_by"`
	Status      string     `gorm:"default:'assigned'" json:"status"` // assigned, in-progress, completed
	Priority    string     `gorm:"default:'medium'" json:"priority"` // low, medium, high
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MemberCount returns the current number of memberships
func (t *Team) MemberCount() int {
	return len(t.Members)
}

// Member returns the membership of the given user, or nil
func (t *Team) Member(userID uint) *TeamMember {
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			return &t.Members[i]
		}
	}
	return nil
}

// IsLeader reports whether the user holds the leader role
func (t *Team) IsLeader(userID uint) bool {
	m := t.Member(userID)
	return m != nil && m.Role == TeamRoleLeader
}

func ValidTaskStatus(status string) bool {
	switch status {
	case TaskAssigned, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}
