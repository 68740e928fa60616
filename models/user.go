package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles a user can hold across the organisation
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// Experience levels recorded in work info
const (
	ExperienceJunior = "junior"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
	ExperienceLead   = "lead"
)

// Placeholders used when an account is created before the profile is filled in
const (
	DefaultLocation      = "Not specified"
	DefaultDepartment    = "Not assigned"
	DefaultSkill         = "To be updated"
	DefaultCapacityHours = 40
)

// User represents an employee account in the system
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'employee';index" json:"role"` // employee, manager, admin
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion int    `gorm:"default:1" json:"-"`

	// Personal information
	FirstName   string     `gorm:"not null;index" json:"first_name"`
	LastName    string     `gorm:"not null" json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Address     string     `json:"address,omitempty"`
	Location    string     `gorm:"not null;default:'Not specified'" json:"location"`

	// Work information
	EmployeeID      string                      `gorm:"uniqueIndex;not null" json:"employee_id"`
	Title           string                      `json:"title,omitempty"`
	Department      string                      `gorm:"not null;default:'Not assigned';index" json:"department"`
	DateOfJoining   *time.Time                  `json:"date_of_joining,omitempty"`
	ManagerID       *uint                       `gorm:"index" json:"manager_id,omitempty"`
	Salary          *float64                    `json:"salary,omitempty"`
	Skills          datatypes.JSONSlice[string] `json:"skills"`
	ExperienceLevel string                      `gorm:"default:'junior'" json:"experience_level"` // junior, mid, senior, lead
	CurrentProjects datatypes.JSONSlice[string] `json:"current_projects"`
	CapacityHours   int                         `gorm:"default:40" json:"capacity_hours"`
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// UserSummary is the projection embedded in team and task responses
type UserSummary struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Summary returns the public projection of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Department: u.Department,
	}
}

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func ValidExperienceLevel(level string) bool {
	switch level {
	case ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	}
	return false
}
