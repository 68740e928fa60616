package controller

import (
	"hrms/middleware"
	"hrms/models"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateReviewRequest struct {
	EmployeeID   uint                `json:"employee_id" validate:"required"`
	Cycle        string              `json:"cycle" validate:"required"`
	Goals        []models.ReviewGoal `json:"goals"`
	Feedback     string              `json:"feedback"`
	OverallScore *float64            `json:"overall_score"`
}

type GoalRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Weightage   float64     `json:"weightage" validate:"gte=0"`
	DueDate     *utils.Date `json:"due_date"`
	Progress    int         `json:"progress"`
}

type UpdateGoalRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Weightage   *float64    `json:"weightage" validate:"omitempty,gte=0"`
	DueDate     *utils.Date `json:"due_date"`
	Progress    *int        `json:"progress"`
	Completed   *bool       `json:"completed"`
}

type PerformanceController struct {
	Performance *services.PerformanceService
}

func NewPerformanceController(performance *services.PerformanceService) *PerformanceController {
	return &PerformanceController{Performance: performance}
}

func (pc *PerformanceController) ListReviews(c *fiber.Ctx) error {
	reviews, err := pc.Performance.ListReviews(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return handleError(c, "list_reviews", err)
	}
	return c.JSON(utils.SuccessResponse(reviews))
}

func (pc *PerformanceController) CreateReview(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	review, err := pc.Performance.CreateReview(c.UserContext(), middleware.CurrentUser(c), services.CreateReviewInput{
		EmployeeID:   req.EmployeeID,
		Cycle:        req.Cycle,
		Goals:        req.Goals,
		Feedback:     req.Feedback,
		OverallScore: req.OverallScore,
	})
	if err != nil {
		return handleError(c, "create_review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(review))
}

// ListGoals shows the caller's goals, or another employee's with ?employee_id=
func (pc *PerformanceController) ListGoals(c *fiber.Ctx) error {
	employeeID := utils.ParseUint(c.Query("employee_id"))

	goals, err := pc.Performance.ListGoals(c.UserContext(), middleware.CurrentUser(c), employeeID)
	if err != nil {
		return handleError(c, "list_goals", err)
	}
	return c.JSON(utils.SuccessResponse(goals))
}

func (pc *PerformanceController) CreateGoal(c *fiber.Ctx) error {
	var req GoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	goal, err := pc.Performance.CreateGoal(c.UserContext(), middleware.CurrentUser(c), services.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Weightage:   req.Weightage,
		DueDate:     req.DueDate.Ptr(),
		Progress:    req.Progress,
	})
	if err != nil {
		return handleError(c, "create_goal", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(goal))
}

func (pc *PerformanceController) UpdateGoal(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateGoalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	goal, err := pc.Performance.UpdateGoal(c.UserContext(), middleware.CurrentUser(c), id, services.GoalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Weightage:   req.Weightage,
		DueDate:     req.DueDate.Ptr(),
		Progress:    req.Progress,
		Completed:   req.Completed,
	})
	if err != nil {
		return handleError(c, "update_goal", err)
	}
	return c.JSON(utils.SuccessResponse(goal))
}

