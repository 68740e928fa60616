package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrms/events"
	"hrms/models"
	"hrms/store"
)

type AssignTaskInput struct {
	Title       string
	Description string
	AssignedTo  uint
	Priority    string
	DueDate     *time.Time
}

func (s *TeamService) AssignTask(ctx context.Context, actor *models.User, teamID uint, in AssignTaskInput) (task *models.Task, err error) {
	defer s.observe("assign_task", time.Now(), &err)

	title := strings.TrimSpace(in.Title)
	if title == "" || in.AssignedTo == 0 {
		return nil, ValidationError("task title and assignee are required")
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, ValidationError("invalid priority")
	}

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsLeader(actor.ID) {
		return nil, AuthorizationError("only project leaders can assign tasks")
	}
	if team.Member(in.AssignedTo) == nil {
		return nil, ValidationError("cannot assign task to user who is not a project member")
	}

	task = &models.Task{
		TeamID:      team.ID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		AssigneeID:  in.AssignedTo,
		AssignerID:  actor.ID,
		Status:      models.TaskAssigned,
		Priority:    priority,
		DueDate:     in.DueDate,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.publish(events.TaskAssigned, team.ID, actor.ID, task)
	if assignee, err := s.store.FindUserByID(ctx, task.AssigneeID); err == nil {
		if err := s.notifier.TaskAssigned(ctx, assignee, team, task); err != nil {
			s.logger.WithError(err).WithField("task_id", task.ID).Warn("task notification not queued")
		}
	}
	return task, nil
}

// UpdateTaskStatus stamps completedAt on completion and clears it on any other status
func (s *TeamService) UpdateTaskStatus(ctx context.Context, actor *models.User, teamID, taskID uint, status string) (task *models.Task, err error) {
	defer s.observe("update_task", time.Now(), &err)

	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := RequireMember(team, actor.ID); err != nil {
		return nil, err
	}

	task, err = s.store.FindTask(ctx, team.ID, taskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if err := CanUpdateTaskStatus(team, task, actor.ID); err != nil {
		return nil, err
	}
	if !models.ValidTaskStatus(status) {
		return nil, ValidationError("invalid task status")
	}

	task.Status = status
	if status == models.TaskCompleted {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.publish(events.TaskUpdated, team.ID, actor.ID, task)
	return task, nil
}

func (s *TeamService) UserTasks(ctx context.Context, actor *models.User, teamID uint) ([]models.Task, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := RequireMember(team, actor.ID); err != nil {
		return nil, err
	}

	tasks, err := s.store.ListTasks(ctx, team.ID, &actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
