package controller

import (
	"errors"
	"strings"

	"hrms/directory"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

type AIController struct {
	Directory directory.Directory
}

func NewAIController(dir directory.Directory) *AIController {
	return &AIController{Directory: dir}
}

// People lists directory profiles. Filters: ?department=&location=&skills=React,Figma
func (ac *AIController) People(c *fiber.Ctx) error {
	filter := directory.Filter{
		Department: c.Query("department"),
		Location:   c.Query("location"),
		Skills:     splitCSV(c.Query("skills")),
	}

	profiles, err := ac.Directory.Employees(c.UserContext(), filter)
	if err != nil {
		return handleError(c, "list_profiles", err)
	}
	return c.JSON(utils.SuccessResponse(profiles))
}

func (ac *AIController) Person(c *fiber.Ctx) error {
	profile, err := ac.Directory.EmployeeByEmployeeID(c.UserContext(), c.Params("employeeId"))
	if errors.Is(err, directory.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "AI profile not found", nil)
	}
	if err != nil {
		return handleError(c, "get_profile", err)
	}
	return c.JSON(utils.SuccessResponse(profile))
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
