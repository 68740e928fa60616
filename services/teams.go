package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hrms/events"
	"hrms/metrics"
	"hrms/models"
	"hrms/store"

	"github.com/sirupsen/logrus"
)

const (
	maxTeamNameLength        = 100
	maxTeamDescriptionLength = 500
)

// TeamService runs the team membership and task workflows
type TeamService struct {
	store    store.Store
	notifier Notifier
	events   EventPublisher
	random   io.Reader
	logger   logrus.FieldLogger
}

func NewTeamService(deps Dependencies) *TeamService {
	deps = deps.withDefaults()
	return &TeamService{
		store:    deps.Store,
		notifier: deps.Notifier,
		events:   deps.Events,
		random:   deps.Random,
		logger:   deps.Logger.WithField("service", "teams"),
	}
}

type CreateTeamInput struct {
	Name        string
	Description string
	MaxMembers  int
}

// TeamDetails is a team with its tasks, as seen by a member
type TeamDetails struct {
	*models.Team
	Tasks []models.Task `json:"tasks"`
}

// LeaveResult describes what happened to the team when a member left
type LeaveResult struct {
	TeamDeleted bool  `json:"team_deleted"`
	NewLeaderID *uint `json:"new_leader_id,omitempty"`
}

// observe is deferred with a pointer to the named error result
func (s *TeamService) observe(op string, start time.Time, err *error) {
	metrics.ObserveTeamOp(op, start, resultLabel(*err))
}

func (s *TeamService) publish(eventType string, teamID, actorID uint, data interface{}) {
	s.events.Publish(events.Event{
		Type:    eventType,
		TeamID:  teamID,
		ActorID: actorID,
		Data:    data,
	})
}

func (s *TeamService) CreateTeam(ctx context.Context, actor *models.User, in CreateTeamInput) (team *models.Team, err error) {
	defer s.observe("create", time.Now(), &err)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("team name is required")
	}
	if len(name) > maxTeamNameLength {
		return nil, ValidationError("team name cannot exceed %d characters", maxTeamNameLength)
	}
	description := strings.TrimSpace(in.Description)
	if len(description) > maxTeamDescriptionLength {
		return nil, ValidationError("description cannot exceed %d characters", maxTeamDescriptionLength)
	}
	maxMembers := in.MaxMembers
	if maxMembers == 0 {
		maxMembers = models.DefaultMaxMembers
	}
	if err := validateMaxMembers(maxMembers); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := s.uniqueJoinCode(ctx)
		if err != nil {
			return nil, err
		}
		team = &models.Team{
			Name:        name,
			Description: description,
			JoinCode:    code,
			CreatorID:   actor.ID,
			MaxMembers:  maxMembers,
			IsActive:    true,
			Project:     models.Project{Status: models.ProjectPlanning},
		}
		err = s.store.CreateTeam(ctx, team, actor.ID)
		if errors.Is(err, store.ErrDuplicate) {
			// join code taken between the check and the insert
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create team: %w", err)
		}

		s.populateMembers(ctx, team)
		s.logger.WithFields(logrus.Fields{"team_id": team.ID, "user_id": actor.ID}).Info("team created")
		return team, nil
	}
	return nil, errJoinCodeExhausted
}

func validateMaxMembers(n int) error {
	if n < models.MinMaxMembers || n > models.MaxMaxMembers {
		return ValidationError("max members must be between %d and %d", models.MinMaxMembers, models.MaxMaxMembers)
	}
	return nil
}

func (s *TeamService) JoinTeam(ctx context.Context, actor *models.User, code string) (team *models.Team, err error) {
	defer s.observe("join", time.Now(), &err)

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ValidationError("project code is required")
	}

	team, err = s.store.FindActiveTeamByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("invalid project code or project no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	if team.Member(actor.ID) != nil {
		return nil, ConflictError("you are already a member of this project")
	}
	if team.MemberCount() >= team.MaxMembers {
		return nil, CapacityError("project has reached maximum member limit")
	}

	// the store re-checks both conditions together with the insert
	err = s.store.AddMember(ctx, team.ID, &models.TeamMember{
		UserID: actor.ID,
		Role:   models.TeamRoleMember,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyMember):
		return nil, ConflictError("you are already a member of this project")
	case errors.Is(err, store.ErrTeamFull):
		return nil, CapacityError("project has reached maximum member limit")
	case errors.Is(err, store.ErrNotFound):
		return nil, NotFoundError("invalid project code or project no longer exists")
	case err != nil:
		return nil, fmt.Errorf("add member: %w", err)
	}

	team, err = s.loadTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	s.publish(events.MemberJoined, team.ID, actor.ID, actor.Summary())
	return team, nil
}

func (s *TeamService) LeaveTeam(ctx context.Context, actor *models.User, teamID uint) (result *LeaveResult, err error) {
	defer s.observe("leave", time.Now(), &err)

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	leaver := team.Member(actor.ID)
	if leaver == nil {
		return nil, NotFoundError("you are not a member of this project")
	}

	if team.MemberCount() == 1 {
		if err := s.store.DeleteTeam(ctx, team.ID); err != nil {
			return nil, fmt.Errorf("delete team: %w", err)
		}
		s.publish(events.TeamDeleted, team.ID, actor.ID, nil)
		return &LeaveResult{TeamDeleted: true}, nil
	}

	result = &LeaveResult{}
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		if leaver.Role == models.TeamRoleLeader {
			successor := successorOf(team, actor.ID)
			if successor.Role != models.TeamRoleLeader {
				if err := tx.UpdateMemberRole(ctx, team.ID, successor.UserID, models.TeamRoleLeader); err != nil {
					return fmt.Errorf("promote successor: %w", err)
				}
			}
			if team.CreatorID == actor.ID {
				team.CreatorID = successor.UserID
				if err := tx.UpdateTeam(ctx, team); err != nil {
					return fmt.Errorf("move creator: %w", err)
				}
			}
			result.NewLeaderID = &successor.UserID
		}
		if err := tx.RemoveMember(ctx, team.ID, actor.ID); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.NewLeaderID != nil {
		s.publish(events.LeaderChanged, team.ID, actor.ID, map[string]uint{"leader_id": *result.NewLeaderID})
	}
	s.publish(events.MemberLeft, team.ID, actor.ID, nil)
	return result, nil
}

// successorOf picks the earliest-joined other member. Members are loaded in
// (joined_at, id) order, so that is the first one that is not the leaver.
func successorOf(team *models.Team, leaverID uint) *models.TeamMember {
	for i := range team.Members {
		if team.Members[i].UserID != leaverID {
			return &team.Members[i]
		}
	}
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, actor *models.User, teamID, userID uint) (err error) {
	defer s.observe("remove_member", time.Now(), &err)

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.IsLeader(actor.ID) {
		return AuthorizationError("only project leaders can remove members")
	}
	if userID == actor.ID {
		return ValidationError("you cannot remove yourself, use leave project instead")
	}
	if team.Member(userID) == nil {
		return NotFoundError("user is not a member of this project")
	}

	if err := s.store.RemoveMember(ctx, team.ID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundError("user is not a member of this project")
		}
		return fmt.Errorf("remove member: %w", err)
	}

	s.publish(events.MemberRemoved, team.ID, actor.ID, map[string]uint{"user_id": userID})
	if removed, err := s.store.FindUserByID(ctx, userID); err == nil {
		if err := s.notifier.RemovedFromTeam(ctx, removed, team); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("removal notification not queued")
		}
	}
	return nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, actor *models.User, teamID uint) (err error) {
	defer s.observe("delete", time.Now(), &err)

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.IsLeader(actor.ID) {
		return AuthorizationError("only project leaders can delete the project")
	}
	if err := s.store.DeleteTeam(ctx, team.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	s.publish(events.TeamDeleted, team.ID, actor.ID, nil)
	return nil
}

// TeamUpdate carries the fields a leader may change. Nil fields are left as they are.
type TeamUpdate struct {
	Name        *string
	Description *string
	MaxMembers  *int
	Project     *ProjectUpdate
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	Deadline    *time.Time
	Status      *string
}

func (s *TeamService) UpdateTeam(ctx context.Context, actor *models.User, teamID uint, in TeamUpdate) (team *models.Team, err error) {
	defer s.observe("update", time.Now(), &err)

	team, err = s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsLeader(actor.ID) {
		return nil, AuthorizationError("only project leaders can update the project")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError("team name is required")
		}
		if len(name) > maxTeamNameLength {
			return nil, ValidationError("team name cannot exceed %d characters", maxTeamNameLength)
		}
		team.Name = name
	}
	if in.Description != nil {
		if len(*in.Description) > maxTeamDescriptionLength {
			return nil, ValidationError("description cannot exceed %d characters", maxTeamDescriptionLength)
		}
		team.Description = *in.Description
	}
	if in.MaxMembers != nil {
		if err := validateMaxMembers(*in.MaxMembers); err != nil {
			return nil, err
		}
		if *in.MaxMembers < team.MemberCount() {
			return nil, ValidationError("max members cannot be less than the current member count (%d)", team.MemberCount())
		}
		team.MaxMembers = *in.MaxMembers
	}
	if p := in.Project; p != nil {
		if p.Status != nil && !models.ValidProjectStatus(*p.Status) {
			return nil, ValidationError("invalid project status")
		}
		if p.Name != nil {
			team.Project.Name = *p.Name
		}
		if p.Description != nil {
			team.Project.Description = *p.Description
		}
		if p.Deadline != nil {
			team.Project.Deadline = p.Deadline
		}
		if p.Status != nil {
			team.Project.Status = *p.Status
		}
	}

	if err := s.store.UpdateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	s.populateMembers(ctx, team)
	s.publish(events.TeamUpdated, team.ID, actor.ID, nil)
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, actor *models.User, teamID uint) (*TeamDetails, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := RequireMember(team, actor.ID); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasks(ctx, team.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	s.populateMembers(ctx, team)
	return &TeamDetails{Team: team, Tasks: tasks}, nil
}

func (s *TeamService) MyTeams(ctx context.Context, actor *models.User) ([]models.Team, error) {
	teams, err := s.store.ListTeamsForUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	for i := range teams {
		s.populateMembers(ctx, &teams[i])
	}
	return teams, nil
}

// CanSubscribe checks that the user may follow the team's event stream
func (s *TeamService) CanSubscribe(ctx context.Context, actor *models.User, teamID uint) error {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}
	_, err = RequireMember(team, actor.ID)
	return err
}

func (s *TeamService) findTeam(ctx context.Context, teamID uint) (*models.Team, error) {
	team, err := s.store.FindTeam(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	return team, nil
}

func (s *TeamService) loadTeam(ctx context.Context, teamID uint) (*models.Team, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	s.populateMembers(ctx, team)
	return team, nil
}

// populateMembers attaches account summaries to the memberships. Lookup failures leave them empty.
func (s *TeamService) populateMembers(ctx context.Context, team *models.Team) {
	ids := make([]uint, 0, len(team.Members))
	for _, m := range team.Members {
		ids = append(ids, m.UserID)
	}
	users, err := s.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		s.logger.WithError(err).WithField("team_id", team.ID).Warn("member lookup failed")
		return
	}
	byID := make(map[uint]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}
	for i := range team.Members {
		if summary, ok := byID[team.Members[i].UserID]; ok {
			summary := summary
			team.Members[i].User = &summary
		}
	}
}
