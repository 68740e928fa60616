package controller

import (
	"hrms/middleware"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateLeaveRequest struct {
	EmployeeID uint        `json:"employee_id"`
	Type       string      `json:"type" validate:"required"`
	StartDate  *utils.Date `json:"start_date" validate:"required"`
	EndDate    *utils.Date `json:"end_date" validate:"required"`
	Reason     string      `json:"reason"`
}

type ReviewLeaveRequest struct {
	Status     string `json:"status" validate:"required"`
	ReviewNote string `json:"review_note"`
}

type LeaveController struct {
	Leaves *services.LeaveService
}

func NewLeaveController(leaves *services.LeaveService) *LeaveController {
	return &LeaveController{Leaves: leaves}
}

func (lc *LeaveController) ListLeaves(c *fiber.Ctx) error {
	leaves, err := lc.Leaves.ListLeaves(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return handleError(c, "list_leaves", err)
	}
	return c.JSON(utils.SuccessResponse(leaves))
}

func (lc *LeaveController) CreateLeave(c *fiber.Ctx) error {
	var req CreateLeaveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	leave, err := lc.Leaves.CreateLeave(c.UserContext(), middleware.CurrentUser(c), services.CreateLeaveInput{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		StartDate:  req.StartDate.Ptr(),
		EndDate:    req.EndDate.Ptr(),
		Reason:     req.Reason,
	})
	if err != nil {
		return handleError(c, "create_leave", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(leave))
}

func (lc *LeaveController) UpdateLeave(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req ReviewLeaveRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	leave, err := lc.Leaves.UpdateLeave(c.UserContext(), middleware.CurrentUser(c), id, req.Status, req.ReviewNote)
	if err != nil {
		return handleError(c, "update_leave", err)
	}
	return c.JSON(utils.SuccessResponse(leave))
}
