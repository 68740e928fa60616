package controller

import (
	"hrms/middleware"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
}

type JoinTeamRequest struct {
	TeamCode string `json:"team_code" validate:"required"`
}

type ProjectRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Deadline    *utils.Date `json:"deadline"`
	Status      *string     `json:"status"`
}

type UpdateTeamRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	MaxMembers  *int            `json:"max_members"`
	Project     *ProjectRequest `json:"project"`
}

func (r UpdateTeamRequest) update() services.TeamUpdate {
	u := services.TeamUpdate{
		Name:        r.Name,
		Description: r.Description,
		MaxMembers:  r.MaxMembers,
	}
	if r.Project != nil {
		u.Project = &services.ProjectUpdate{
			Name:        r.Project.Name,
			Description: r.Project.Description,
			Deadline:    r.Project.Deadline.Ptr(),
			Status:      r.Project.Status,
		}
	}
	return u
}

type AssignTaskRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	AssignedTo  uint        `json:"assigned_to" validate:"required"`
	Priority    string      `json:"priority"`
	DueDate     *utils.Date `json:"due_date"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TeamController struct {
	Teams *services.TeamService
}

func NewTeamController(teams *services.TeamService) *TeamController {
	return &TeamController{Teams: teams}
}

func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	var req CreateTeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	team, err := tc.Teams.CreateTeam(c.UserContext(), middleware.CurrentUser(c), services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		return handleError(c, "create_team", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.MessageResponse("Team created successfully", team))
}

func (tc *TeamController) JoinTeam(c *fiber.Ctx) error {
	var req JoinTeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	team, err := tc.Teams.JoinTeam(c.UserContext(), middleware.CurrentUser(c), req.TeamCode)
	if err != nil {
		return handleError(c, "join_team", err)
	}
	return c.JSON(utils.MessageResponse("Successfully joined the team", team))
}

func (tc *TeamController) MyTeams(c *fiber.Ctx) error {
	teams, err := tc.Teams.MyTeams(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return handleError(c, "my_teams", err)
	}
	return c.JSON(utils.SuccessResponse(teams))
}

func (tc *TeamController) GetTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}

	team, err := tc.Teams.GetTeam(c.UserContext(), middleware.CurrentUser(c), teamID)
	if err != nil {
		return handleError(c, "get_team", err)
	}
	return c.JSON(utils.SuccessResponse(team))
}

func (tc *TeamController) UpdateTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}
	var req UpdateTeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	team, err := tc.Teams.UpdateTeam(c.UserContext(), middleware.CurrentUser(c), teamID, req.update())
	if err != nil {
		return handleError(c, "update_team", err)
	}
	return c.JSON(utils.MessageResponse("Team updated successfully", team))
}

func (tc *TeamController) LeaveTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}

	result, err := tc.Teams.LeaveTeam(c.UserContext(), middleware.CurrentUser(c), teamID)
	if err != nil {
		return handleError(c, "leave_team", err)
	}
	message := "Successfully left the team"
	if result.TeamDeleted {
		message = "Team deleted as you were the last member"
	}
	return c.JSON(utils.MessageResponse(message, result))
}

func (tc *TeamController) DeleteTeam(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}

	if err := tc.Teams.DeleteTeam(c.UserContext(), middleware.CurrentUser(c), teamID); err != nil {
		return handleError(c, "delete_team", err)
	}
	return c.JSON(utils.MessageResponse("Team deleted successfully", nil))
}

func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}
	userID, err := idParam(c, "userId")
	if err != nil {
		return err
	}

	if err := tc.Teams.RemoveMember(c.UserContext(), middleware.CurrentUser(c), teamID, userID); err != nil {
		return handleError(c, "remove_member", err)
	}
	return c.JSON(utils.MessageResponse("Member removed successfully", nil))
}

func (tc *TeamController) AssignTask(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}
	var req AssignTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	task, err := tc.Teams.AssignTask(c.UserContext(), middleware.CurrentUser(c), teamID, services.AssignTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Ptr(),
	})
	if err != nil {
		return handleError(c, "assign_task", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.MessageResponse("Task assigned successfully", task))
}

func (tc *TeamController) UpdateTaskStatus(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}
	taskID, err := idParam(c, "taskId")
	if err != nil {
		return err
	}
	var req UpdateTaskStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	task, err := tc.Teams.UpdateTaskStatus(c.UserContext(), middleware.CurrentUser(c), teamID, taskID, req.Status)
	if err != nil {
		return handleError(c, "update_task_status", err)
	}
	return c.JSON(utils.MessageResponse("Task status updated", task))
}

func (tc *TeamController) MyTasks(c *fiber.Ctx) error {
	teamID, err := idParam(c, "teamId")
	if err != nil {
		return err
	}

	tasks, err := tc.Teams.UserTasks(c.UserContext(), middleware.CurrentUser(c), teamID)
	if err != nil {
		return handleError(c, "user_tasks", err)
	}
	return c.JSON(utils.SuccessResponse(tasks))
}
