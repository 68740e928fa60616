package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification statuses
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is an outgoing email waiting in the outbox
type Notification struct {
	gorm.Model
	RecipientID uint       `gorm:"not null;index" json:"recipient_id"`
	Email       string     `gorm:"not null" json:"email"`
	Subject     string     `gorm:"not null" json:"subject"`
	Template    string     `json:"template"`
	Body        string     `gorm:"type:text" json:"-"`
	Status      string     `gorm:"default:'pending';index" json:"status"` // pending, sent, failed
	Attempts    int        `gorm:"default:0" json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
}
