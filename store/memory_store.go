package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hrms/models"
)

// MemoryStore is an in-process Store used by the demo mode and by tests.
// Records are copied on the way in and out, so callers must save to persist changes.
type MemoryStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data memoryData
}

type memoryData struct {
	nextID        uint
	users         map[uint]models.User
	teams         map[uint]models.Team
	members       map[uint]models.TeamMember
	tasks         map[uint]models.Task
	leaves        map[uint]models.Leave
	reviews       map[uint]models.PerformanceReview
	goals         map[uint]models.Goal
	notifications map[uint]models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memoryData{
		users:         map[uint]models.User{},
		teams:         map[uint]models.Team{},
		members:       map[uint]models.TeamMember{},
		tasks:         map[uint]models.Task{},
		leaves:        map[uint]models.Leave{},
		reviews:       map[uint]models.PerformanceReview{},
		goals:         map[uint]models.Goal{},
		notifications: map[uint]models.Notification{},
	}}
}

func (d memoryData) clone() memoryData {
	c := memoryData{
		nextID:        d.nextID,
		users:         make(map[uint]models.User, len(d.users)),
		teams:         make(map[uint]models.Team, len(d.teams)),
		members:       make(map[uint]models.TeamMember, len(d.members)),
		tasks:         make(map[uint]models.Task, len(d.tasks)),
		leaves:        make(map[uint]models.Leave, len(d.leaves)),
		reviews:       make(map[uint]models.PerformanceReview, len(d.reviews)),
		goals:         make(map[uint]models.Goal, len(d.goals)),
		notifications: make(map[uint]models.Notification, len(d.notifications)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.teams {
		c.teams[k] = v
	}
	for k, v := range d.members {
		c.members[k] = v
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	for k, v := range d.leaves {
		c.leaves[k] = v
	}
	for k, v := range d.reviews {
		c.reviews[k] = v
	}
	for k, v := range d.goals {
		c.goals[k] = v
	}
	for k, v := range d.notifications {
		c.notifications[k] = v
	}
	return c
}

// WithinTx runs fn against a private copy of the data and commits the copy only when fn
// succeeds. Writes on the store itself wait until the transaction finishes.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	view := &MemoryStore{data: s.data.clone()}
	s.mu.Unlock()

	if err := fn(view); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = view.data
	s.mu.Unlock()
	return nil
}

// lockWrite takes the transaction gate and the data lock. Call the returned func to release both.
func (s *MemoryStore) lockWrite() func() {
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *MemoryStore) id() uint {
	s.data.nextID++
	return s.data.nextID
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lockWrite()()

	user.Email = strings.ToLower(user.Email)
	for _, u := range s.data.users {
		if u.Email == user.Email || strings.EqualFold(u.EmployeeID, user.EmployeeID) {
			return ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = s.id()
	user.CreatedAt, user.UpdatedAt = now, now
	s.data.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data.users)), nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUsersByFirstName(ctx context.Context, firstName string) ([]models.User, error) {
	return s.filterUsers(func(u models.User) bool { return u.FirstName == firstName }), nil
}

func (s *MemoryStore) FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	found := s.filterUsers(func(u models.User) bool { return strings.EqualFold(u.EmployeeID, employeeID) })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (s *MemoryStore) FindUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	want := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return s.filterUsers(func(u models.User) bool {
		_, ok := want[u.ID]
		return ok
	}), nil
}

func (s *MemoryStore) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	return s.filterUsers(func(u models.User) bool {
		if filter.Department != "" && u.Department != filter.Department {
			return false
		}
		if filter.Location != "" && u.Location != filter.Location {
			return false
		}
		if filter.ManagerID != nil && (u.ManagerID == nil || *u.ManagerID != *filter.ManagerID) {
			return false
		}
		if len(filter.Skills) > 0 && !hasAnySkill(u.Skills, filter.Skills) {
			return false
		}
		return true
	}), nil
}

func hasAnySkill(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (s *MemoryStore) filterUsers(keep func(models.User) bool) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.data.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	defer s.lockWrite()()
	if _, ok := s.data.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.Email = strings.ToLower(user.Email)
	for id, u := range s.data.users {
		if id != user.ID && (u.Email == user.Email || strings.EqualFold(u.EmployeeID, user.EmployeeID)) {
			return ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	s.data.users[user.ID] = *user
	return nil
}

// Teams

func (s *MemoryStore) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.teams {
		if t.JoinCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) CreateTeam(ctx context.Context, team *models.Team, leaderID uint) error {
	defer s.lockWrite()()
	for _, t := range s.data.teams {
		if t.JoinCode == team.JoinCode {
			return ErrDuplicate
		}
	}
	now := time.Now()
	team.ID = s.id()
	team.CreatedAt, team.UpdatedAt = now, now
	team.Members = nil
	s.data.teams[team.ID] = *team

	leader := models.TeamMember{
		ID:       s.id(),
		TeamID:   team.ID,
		UserID:   leaderID,
		Role:     models.TeamRoleLeader,
		JoinedAt: now,
	}
	s.data.members[leader.ID] = leader
	team.Members = []models.TeamMember{leader}
	return nil
}

// loadTeam attaches ordered memberships; s.mu must be held
func (s *MemoryStore) loadTeam(t models.Team) models.Team {
	t.Members = nil
	for _, m := range s.data.members {
		if m.TeamID == t.ID {
			t.Members = append(t.Members, m)
		}
	}
	sort.Slice(t.Members, func(i, j int) bool {
		a, b := t.Members[i], t.Members[j]
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
	return t
}

func (s *MemoryStore) FindTeam(ctx context.Context, id uint) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = s.loadTeam(t)
	return &t, nil
}

func (s *MemoryStore) FindActiveTeamByCode(ctx context.Context, code string) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.teams {
		if t.JoinCode == code && t.IsActive {
			t = s.loadTeam(t)
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListTeamsForUser(ctx context.Context, userID uint) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Team
	for _, m := range s.data.members {
		if m.UserID != userID {
			continue
		}
		if t, ok := s.data.teams[m.TeamID]; ok && t.IsActive {
			out = append(out, s.loadTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListTeams(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Team
	for _, t := range s.data.teams {
		if !t.IsActive {
			continue
		}
		if filter.Name != "" && t.Name != filter.Name {
			continue
		}
		if filter.ProjectStatus != "" && t.Project.Status != filter.ProjectStatus {
			continue
		}
		out = append(out, s.loadTeam(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateTeam(ctx context.Context, team *models.Team) error {
	defer s.lockWrite()()
	if _, ok := s.data.teams[team.ID]; !ok {
		return ErrNotFound
	}
	stored := *team
	stored.Members = nil
	stored.UpdatedAt = time.Now()
	s.data.teams[team.ID] = stored
	team.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteTeam(ctx context.Context, id uint) error {
	defer s.lockWrite()()
	if _, ok := s.data.teams[id]; !ok {
		return ErrNotFound
	}
	for mid, m := range s.data.members {
		if m.TeamID == id {
			delete(s.data.members, mid)
		}
	}
	for tid, t := range s.data.tasks {
		if t.TeamID == id {
			delete(s.data.tasks, tid)
		}
	}
	delete(s.data.teams, id)
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, teamID uint, member *models.TeamMember) error {
	defer s.lockWrite()()
	team, ok := s.data.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	count := 0
	for _, m := range s.data.members {
		if m.TeamID != teamID {
			continue
		}
		if m.UserID == member.UserID {
			return ErrAlreadyMember
		}
		count++
	}
	if count >= team.MaxMembers {
		return ErrTeamFull
	}
	member.ID = s.id()
	member.TeamID = teamID
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	s.data.members[member.ID] = *member
	return nil
}

func (s *MemoryStore) RemoveMember(ctx context.Context, teamID, userID uint) error {
	defer s.lockWrite()()
	for id, m := range s.data.members {
		if m.TeamID == teamID && m.UserID == userID {
			delete(s.data.members, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) UpdateMemberRole(ctx context.Context, teamID, userID uint, role string) error {
	defer s.lockWrite()()
	for id, m := range s.data.members {
		if m.TeamID == teamID && m.UserID == userID {
			m.Role = role
			s.data.members[id] = m
			return nil
		}
	}
	return ErrNotFound
}

// Tasks

func (s *MemoryStore) CreateTask(ctx context.Context, task *models.Task) error {
	defer s.lockWrite()()
	now := time.Now()
	task.ID = s.id()
	task.CreatedAt, task.UpdatedAt = now, now
	s.data.tasks[task.ID] = *task
	return nil
}

func (s *MemoryStore) FindTask(ctx context.Context, teamID, taskID uint) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.tasks[taskID]
	if !ok || t.TeamID != teamID {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) SaveTask(ctx context.Context, task *models.Task) error {
	defer s.lockWrite()()
	if _, ok := s.data.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	task.UpdatedAt = time.Now()
	s.data.tasks[task.ID] = *task
	return nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, teamID uint, assigneeID *uint) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.data.tasks {
		if t.TeamID != teamID {
			continue
		}
		if assigneeID != nil && t.AssigneeID != *assigneeID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Leaves

func (s *MemoryStore) CreateLeave(ctx context.Context, leave *models.Leave) error {
	defer s.lockWrite()()
	now := time.Now()
	leave.ID = s.id()
	leave.CreatedAt, leave.UpdatedAt = now, now
	s.data.leaves[leave.ID] = *leave
	return nil
}

func (s *MemoryStore) FindLeave(ctx context.Context, id uint) (*models.Leave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.leaves[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (s *MemoryStore) SaveLeave(ctx context.Context, leave *models.Leave) error {
	defer s.lockWrite()()
	if _, ok := s.data.leaves[leave.ID]; !ok {
		return ErrNotFound
	}
	leave.UpdatedAt = time.Now()
	s.data.leaves[leave.ID] = *leave
	return nil
}

func (s *MemoryStore) ListLeaves(ctx context.Context, employeeIDs []uint) ([]models.Leave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Leave
	for _, l := range s.data.leaves {
		if employeeIDs == nil || containsID(employeeIDs, l.EmployeeID) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Performance

func (s *MemoryStore) CreateReview(ctx context.Context, review *models.PerformanceReview) error {
	defer s.lockWrite()()
	now := time.Now()
	review.ID = s.id()
	review.CreatedAt, review.UpdatedAt = now, now
	s.data.reviews[review.ID] = *review
	return nil
}

func (s *MemoryStore) ListReviews(ctx context.Context, employeeIDs []uint) ([]models.PerformanceReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PerformanceReview
	for _, r := range s.data.reviews {
		if employeeIDs == nil || containsID(employeeIDs, r.EmployeeID) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	defer s.lockWrite()()
	now := time.Now()
	goal.ID = s.id()
	goal.CreatedAt, goal.UpdatedAt = now, now
	s.data.goals[goal.ID] = *goal
	return nil
}

func (s *MemoryStore) FindGoal(ctx context.Context, id uint) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.goals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *MemoryStore) SaveGoal(ctx context.Context, goal *models.Goal) error {
	defer s.lockWrite()()
	if _, ok := s.data.goals[goal.ID]; !ok {
		return ErrNotFound
	}
	goal.UpdatedAt = time.Now()
	s.data.goals[goal.ID] = *goal
	return nil
}

func (s *MemoryStore) ListGoals(ctx context.Context, employeeID uint) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Goal
	for _, g := range s.data.goals {
		if g.EmployeeID == employeeID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Notifications

func (s *MemoryStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	defer s.lockWrite()()
	now := time.Now()
	n.ID = s.id()
	n.CreatedAt, n.UpdatedAt = now, now
	if n.Status == "" {
		n.Status = models.NotificationPending
	}
	s.data.notifications[n.ID] = *n
	return nil
}

func (s *MemoryStore) PendingNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.data.notifications {
		if n.Status == models.NotificationPending {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SaveNotification(ctx context.Context, n *models.Notification) error {
	defer s.lockWrite()()
	if _, ok := s.data.notifications[n.ID]; !ok {
		return ErrNotFound
	}
	n.UpdatedAt = time.Now()
	s.data.notifications[n.ID] = *n
	return nil
}
