package services

import (
	"context"
	"fmt"

	"hrms/models"
	"hrms/store"
)

// visibleEmployeeIDs resolves whose records the actor may list. A nil result means everyone.
func visibleEmployeeIDs(ctx context.Context, users store.UserStore, actor *models.User) ([]uint, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return nil, nil
	case models.RoleManager:
		reports, err := users.ListUsers(ctx, store.UserFilter{ManagerID: &actor.ID})
		if err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		ids := []uint{actor.ID}
		for _, r := range reports {
			ids = append(ids, r.ID)
		}
		return ids, nil
	default:
		return []uint{actor.ID}, nil
	}
}
