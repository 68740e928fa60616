package models

import (
	"time"

	"gorm.io/gorm"
)

// Leave types
const (
	LeaveSick      = "sick"
	LeaveVacation  = "vacation"
	LeavePersonal  = "personal"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
)

// Leave statuses
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Leave is a leave request filed for an employee
type Leave struct {
	gorm.Model
	EmployeeID   uint      `gorm:"not null;index" json:"employee_id"`
	Type         string    `gorm:"not null" json:"type"` // sick, vacation, personal, maternity, paternity
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null" json:"end_date"`
	Reason       string    `json:"reason,omitempty"`
	Status       string    `gorm:"default:'pending';index" json:"status"` // pending, approved, rejected
	ReviewedByID *uint     `json:"reviewed_by,omitempty"`
	ReviewNote   string    `json:"review_note,omitempty"`
}

func ValidLeaveType(t string) bool {
	switch t {
	case LeaveSick, LeaveVacation, LeavePersonal, LeaveMaternity, LeavePaternity:
		return true
	}
	return false
}
