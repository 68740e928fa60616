package services

import (
	"context"
	"crypto/rand"
	"io"

	"hrms/events"
	"hrms/models"
	"hrms/store"
	"hrms/utils"

	"github.com/sirupsen/logrus"
)

// TokenIssuer signs and verifies bearer tokens
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
	ParseToken(token string) (*utils.Claims, error)
}

// PasswordHasher hashes and verifies credentials
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// Notifier delivers user-facing notifications for workflow outcomes
type Notifier interface {
	TaskAssigned(ctx context.Context, assignee *models.User, team *models.Team, task *models.Task) error
	LeaveReviewed(ctx context.Context, employee *models.User, leave *models.Leave, reviewer *models.User) error
	RemovedFromTeam(ctx context.Context, user *models.User, team *models.Team) error
}

// EventPublisher fans team events out to live subscribers
type EventPublisher interface {
	Publish(event events.Event)
}

// Dependencies are shared by every service constructor. Nil optional fields get no-op defaults.
type Dependencies struct {
	Store    store.Store
	Tokens   TokenIssuer
	Hasher   PasswordHasher
	Notifier Notifier
	Events   EventPublisher
	Logger   logrus.FieldLogger
	Random   io.Reader
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Events == nil {
		d.Events = nopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.Random == nil {
		d.Random = rand.Reader
	}
	return d
}

type nopNotifier struct{}

func (nopNotifier) TaskAssigned(context.Context, *models.User, *models.Team, *models.Task) error {
	return nil
}

func (nopNotifier) LeaveReviewed(context.Context, *models.User, *models.Leave, *models.User) error {
	return nil
}

func (nopNotifier) RemovedFromTeam(context.Context, *models.User, *models.Team) error {
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}
