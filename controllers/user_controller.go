package controller

import (
	"hrms/middleware"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

// UpdateUserRequest extends the profile fields with the ones only admins may set
type UpdateUserRequest struct {
	ProfileRequest
	Role          *string     `json:"role" validate:"omitempty,oneof=employee manager admin"`
	Department    *string     `json:"department"`
	EmployeeID    *string     `json:"employee_id"`
	ManagerID     *uint       `json:"manager_id"`
	Salary        *float64    `json:"salary" validate:"omitempty,gte=0"`
	IsActive      *bool       `json:"is_active"`
	DateOfJoining *utils.Date `json:"date_of_joining"`
}

func (r UpdateUserRequest) update() services.UserUpdate {
	u := r.ProfileRequest.update()
	u.Role = r.Role
	u.Department = r.Department
	u.EmployeeID = r.EmployeeID
	u.ManagerID = r.ManagerID
	u.Salary = r.Salary
	u.IsActive = r.IsActive
	u.DateOfJoining = r.DateOfJoining.Ptr()
	return u
}

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	users, err := uc.Users.ListUsers(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return handleError(c, "list_users", err)
	}
	return c.JSON(utils.SuccessResponse(users))
}

// MyTeam lists the caller's direct reports
func (uc *UserController) MyTeam(c *fiber.Ctx) error {
	users, err := uc.Users.DirectReports(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return handleError(c, "direct_reports", err)
	}
	return c.JSON(utils.SuccessResponse(users))
}

func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	user, err := uc.Users.GetUser(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return handleError(c, "get_user", err)
	}
	return c.JSON(utils.SuccessResponse(user))
}

func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := uc.Users.UpdateUser(c.UserContext(), middleware.CurrentUser(c), id, req.update())
	if err != nil {
		return handleError(c, "update_user", err)
	}
	return c.JSON(utils.MessageResponse("User updated successfully", user))
}
