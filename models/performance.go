package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PerformanceReview is a review of an employee for a cycle such as "Q2 2025"
type PerformanceReview struct {
	gorm.Model
	EmployeeID   uint                            `gorm:"not null;index" json:"employee_id"`
	ReviewerID   uint                            `gorm:"not null;index" json:"reviewer_id"`
	Cycle        string                          `json:"cycle"`
	Goals        datatypes.JSONSlice[ReviewGoal] `json:"goals"`
	OverallScore *float64                        `json:"overall_score,omitempty"`
	Feedback     string                          `json:"feedback,omitempty"`
}

// ReviewGoal is a goal scored inside a review
type ReviewGoal struct {
	Description   string   `json:"description"`
	Weightage     float64  `json:"weightage"`
	SelfRating    *float64 `json:"self_rating,omitempty"`
	ManagerRating *float64 `json:"manager_rating,omitempty"`
	Comments      string   `json:"comments,omitempty"`
}

// Goal is a standalone objective tracked by an employee
type Goal struct {
	gorm.Model
	EmployeeID  uint       `gorm:"not null;index" json:"employee_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Weightage   float64    `json:"weightage"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    int        `gorm:"default:0" json:"progress"` // 0-100
	Completed   bool       `gorm:"default:false" json:"completed"`
}
