package services

import "hrms/models"

// The checks below only inspect their arguments. They return nil to allow and an
// authorization error to deny.

func RequireRole(actor *models.User, roles ...string) error {
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return AuthorizationError("not authorized for this action")
}

func isManagerOf(actor, employee *models.User) bool {
	return actor.Role == models.RoleManager && employee.ManagerID != nil && *employee.ManagerID == actor.ID
}

// CanViewAccount allows self, the employee's manager and admins
func CanViewAccount(actor, target *models.User) error {
	if actor.ID == target.ID || actor.Role == models.RoleAdmin || isManagerOf(actor, target) {
		return nil
	}
	return AuthorizationError("not authorized to view this profile")
}

// CanUpdateAccount allows self and admins
func CanUpdateAccount(actor, target *models.User) error {
	if actor.ID == target.ID || actor.Role == models.RoleAdmin {
		return nil
	}
	return AuthorizationError("not authorized to update this profile")
}

// CanManageEmployee allows admins and the employee's direct manager
func CanManageEmployee(actor, employee *models.User) error {
	if actor.Role == models.RoleAdmin || isManagerOf(actor, employee) {
		return nil
	}
	return AuthorizationError("not authorized to manage this employee")
}

func RequireMember(team *models.Team, userID uint) (*models.TeamMember, error) {
	member := team.Member(userID)
	if member == nil {
		return nil, AuthorizationError("access denied, you are not a member of this project")
	}
	return member, nil
}

func RequireLeader(team *models.Team, userID uint) error {
	if !team.IsLeader(userID) {
		return AuthorizationError("only project leaders can perform this action")
	}
	return nil
}

// CanUpdateTaskStatus allows the assignee and any leader of the team
func CanUpdateTaskStatus(team *models.Team, task *models.Task, userID uint) error {
	if task.AssigneeID == userID || team.IsLeader(userID) {
		return nil
	}
	return AuthorizationError("you can only update tasks assigned to you or if you are a project leader")
}
