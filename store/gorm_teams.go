package store

import (
	"context"
	"time"

	"hrms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at ASC, id ASC")
}

func (s *GormStore) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Team{}).Where("join_code = ?", code).Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) CreateTeam(ctx context.Context, team *models.Team, leaderID uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		team.Members = nil
		if err := tx.Create(team).Error; err != nil {
			return translate(err)
		}
		leader := models.TeamMember{
			TeamID:   team.ID,
			UserID:   leaderID,
			Role:     models.TeamRoleLeader,
			JoinedAt: team.CreatedAt,
		}
		if leader.JoinedAt.IsZero() {
			leader.JoinedAt = time.Now()
		}
		if err := tx.Create(&leader).Error; err != nil {
			return translate(err)
		}
		team.Members = []models.TeamMember{leader}
		return nil
	})
}

func (s *GormStore) FindTeam(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	if err := s.conn(ctx).Preload("Members", orderedMembers).First(&team, id).Error; err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

func (s *GormStore) FindActiveTeamByCode(ctx context.Context, code string) (*models.Team, error) {
	var team models.Team
	err := s.conn(ctx).
		Preload("Members", orderedMembers).
		Where("join_code = ? AND is_active = ?", code, true).
		First(&team).Error
	if err != nil {
		return nil, translate(err)
	}
	return &team, nil
}

func (s *GormStore) ListTeamsForUser(ctx context.Context, userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.conn(ctx).
		Preload("Members", orderedMembers).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND teams.is_active = ?", userID, true).
		Order("teams.id").
		Find(&teams).Error
	return teams, translate(err)
}

func (s *GormStore) ListTeams(ctx context.Context, filter TeamFilter) ([]models.Team, error) {
	q := s.conn(ctx).Preload("Members", orderedMembers).Where("is_active = ?", true)
	if filter.Name != "" {
		q = q.Where("name = ?", filter.Name)
	}
	if filter.ProjectStatus != "" {
		q = q.Where("project_status = ?", filter.ProjectStatus)
	}
	var teams []models.Team
	err := q.Order("id").Find(&teams).Error
	return teams, translate(err)
}

func (s *GormStore) UpdateTeam(ctx context.Context, team *models.Team) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Save(team).Error)
}

func (s *GormStore) DeleteTeam(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&models.Team{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) AddMember(ctx context.Context, teamID uint, member *models.TeamMember) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, teamID).Error; err != nil {
			return translate(err)
		}

		var existing int64
		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND user_id = ?", teamID, member.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyMember
		}

		var count int64
		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= team.MaxMembers {
			return ErrTeamFull
		}

		member.TeamID = teamID
		if member.JoinedAt.IsZero() {
			member.JoinedAt = time.Now()
		}
		return translate(tx.Create(member).Error)
	})
}

func (s *GormStore) RemoveMember(ctx context.Context, teamID, userID uint) error {
	res := s.conn(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpdateMemberRole(ctx context.Context, teamID, userID uint, role string) error {
	res := s.conn(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateTask(ctx context.Context, task *models.Task) error {
	return translate(s.conn(ctx).Create(task).Error)
}

func (s *GormStore) FindTask(ctx context.Context, teamID, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.conn(ctx).Where("team_id = ? AND id = ?", teamID, taskID).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (s *GormStore) SaveTask(ctx context.Context, task *models.Task) error {
	return translate(s.conn(ctx).Save(task).Error)
}

func (s *GormStore) ListTasks(ctx context.Context, teamID uint, assigneeID *uint) ([]models.Task, error) {
	q := s.conn(ctx).Where("team_id = ?", teamID)
	if assigneeID != nil {
		q = q.Where("assignee_id = ?", *assigneeID)
	}
	var tasks []models.Task
	err := q.Order("id").Find(&tasks).Error
	return tasks, translate(err)
}
