package store

import (
	"context"

	"hrms/models"
)

func (s *GormStore) CreateLeave(ctx context.Context, leave *models.Leave) error {
	return translate(s.conn(ctx).Create(leave).Error)
}

func (s *GormStore) FindLeave(ctx context.Context, id uint) (*models.Leave, error) {
	var leave models.Leave
	if err := s.conn(ctx).First(&leave, id).Error; err != nil {
		return nil, translate(err)
	}
	return &leave, nil
}

func (s *GormStore) SaveLeave(ctx context.Context, leave *models.Leave) error {
	return translate(s.conn(ctx).Save(leave).Error)
}

func (s *GormStore) ListLeaves(ctx context.Context, employeeIDs []uint) ([]models.Leave, error) {
	var leaves []models.Leave
	q := s.conn(ctx).Order("start_date DESC, id DESC")
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return leaves, nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	err := q.Find(&leaves).Error
	return leaves, translate(err)
}

func (s *GormStore) CreateReview(ctx context.Context, review *models.PerformanceReview) error {
	return translate(s.conn(ctx).Create(review).Error)
}

func (s *GormStore) ListReviews(ctx context.Context, employeeIDs []uint) ([]models.PerformanceReview, error) {
	var reviews []models.PerformanceReview
	q := s.conn(ctx).Order("created_at DESC, id DESC")
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return reviews, nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	err := q.Find(&reviews).Error
	return reviews, translate(err)
}

func (s *GormStore) CreateGoal(ctx context.Context, goal *models.Goal) error {
	return translate(s.conn(ctx).Create(goal).Error)
}

func (s *GormStore) FindGoal(ctx context.Context, id uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.conn(ctx).First(&goal, id).Error; err != nil {
		return nil, translate(err)
	}
	return &goal, nil
}

func (s *GormStore) SaveGoal(ctx context.Context, goal *models.Goal) error {
	return translate(s.conn(ctx).Save(goal).Error)
}

func (s *GormStore) ListGoals(ctx context.Context, employeeID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.conn(ctx).Where("employee_id = ?", employeeID).Order("id").Find(&goals).Error
	return goals, translate(err)
}

func (s *GormStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return translate(s.conn(ctx).Create(n).Error)
}

func (s *GormStore) PendingNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	var pending []models.Notification
	err := s.conn(ctx).
		Where("status = ?", models.NotificationPending).
		Order("id").
		Limit(limit).
		Find(&pending).Error
	return pending, translate(err)
}

func (s *GormStore) SaveNotification(ctx context.Context, n *models.Notification) error {
	return translate(s.conn(ctx).Save(n).Error)
}
