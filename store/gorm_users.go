package store

import (
	"context"
	"encoding/json"
	"strings"

	"hrms/models"
)

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Create(user).Error)
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.User{}).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUsersByFirstName(ctx context.Context, firstName string) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Where("first_name = ?", firstName).Order("id").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("LOWER(employee_id) = LOWER(?)", employeeID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	q := s.conn(ctx).Model(&models.User{})
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}
	if filter.ManagerID != nil {
		q = q.Where("manager_id = ?", *filter.ManagerID)
	}
	if len(filter.Skills) > 0 {
		conds := make([]string, 0, len(filter.Skills))
		args := make([]interface{}, 0, len(filter.Skills))
		for _, skill := range filter.Skills {
			raw, _ := json.Marshal([]string{skill})
			conds = append(conds, "skills @> ?::jsonb")
			args = append(args, string(raw))
		}
		q = q.Where(strings.Join(conds, " OR "), args...)
	}

	var users []models.User
	err := q.Order("id").Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) SaveUser(ctx context.Context, user *models.User) error {
	return translate(s.conn(ctx).Save(user).Error)
}
