package services

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"hrms/events"
	"hrms/models"
	"hrms/store"
	"hrms/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store    *store.MemoryStore
	deps     Dependencies
	auth     *AuthService
	teams    *TeamService
	users    *UserService
	leaves   *LeaveService
	perf     *PerformanceService
	notifier *recordingNotifier
	events   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	env := &testEnv{
		store:    store.NewMemoryStore(),
		notifier: &recordingNotifier{},
		events:   &recordingPublisher{},
	}
	env.deps = Dependencies{
		Store:    env.store,
		Tokens:   utils.NewJWTManager("test-secret", time.Hour),
		Hasher:   utils.NewPasswordHasher(bcrypt.MinCost),
		Notifier: env.notifier,
		Events:   env.events,
		Logger:   logger,
	}
	env.auth = NewAuthService(env.deps)
	env.teams = NewTeamService(env.deps)
	env.users = NewUserService(env.deps)
	env.leaves = NewLeaveService(env.deps)
	env.perf = NewPerformanceService(env.deps)
	return env
}

// withCodes makes the team service draw join codes from the given symbol sequences
func (e *testEnv) withCodes(codes ...string) {
	var buf bytes.Buffer
	for _, code := range codes {
		for _, r := range code {
			buf.WriteByte(byte(bytes.IndexRune([]byte(joinCodeAlphabet), r)))
		}
	}
	deps := e.deps
	deps.Random = &buf
	e.teams = NewTeamService(deps)
}

var userSeq int

func (e *testEnv) createUser(t *testing.T, firstName, role string) *models.User {
	t.Helper()
	userSeq++
	u := &models.User{
		Email:        fmt.Sprintf("%s%d@example.com", firstName, userSeq),
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
		TokenVersion: 1,
		FirstName:    firstName,
		LastName:     "Test",
		Location:     models.DefaultLocation,
		EmployeeID:   fmt.Sprintf("T%04d", userSeq),
		Department:   models.DefaultDepartment,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) createReport(t *testing.T, firstName string, manager *models.User) *models.User {
	t.Helper()
	u := e.createUser(t, firstName, models.RoleEmployee)
	u.ManagerID = &manager.ID
	require.NoError(t, e.store.SaveUser(context.Background(), u))
	return u
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}

type recordingNotifier struct {
	mu       sync.Mutex
	assigned []uint
	reviewed []uint
	removed  []uint
}

func (n *recordingNotifier) TaskAssigned(_ context.Context, assignee *models.User, _ *models.Team, _ *models.Task) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, assignee.ID)
	return nil
}

func (n *recordingNotifier) LeaveReviewed(_ context.Context, employee *models.User, _ *models.Leave, _ *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewed = append(n.reviewed, employee.ID)
	return nil
}

func (n *recordingNotifier) RemovedFromTeam(_ context.Context, user *models.User, _ *models.Team) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.removed = append(n.removed, user.ID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
