package directory

import (
	"fmt"
	"strings"
	"time"

	"hrms/models"
)

const defaultPosition = "Not specified"

// Profile is the flat people-directory shape consumed by the chat agent and AI clients
type Profile struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Skills           []string `json:"skills"`
	Department       string   `json:"department"`
	Position         string   `json:"position"`
	ExperienceLevel  string   `json:"experience_level"`
	CurrentProjects  []string `json:"current_projects"`
	CapacityHours    int      `json:"capacity_hours"`
	Location         string   `json:"location"`
	PerformanceScore *float64 `json:"performance_score,omitempty"`
	LastUpdated      string   `json:"last_updated,omitempty"`
}

// SeedPerson is one entry of a people seed file
type SeedPerson struct {
	ID               string   `json:"_id"`
	EmployeeID       string   `json:"employeeID"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password,omitempty"`
	Skills           []string `json:"skills"`
	Department       string   `json:"department"`
	Position         string   `json:"position"`
	ExperienceLevel  string   `json:"experience_level"`
	CurrentProjects  []string `json:"current_projects"`
	CapacityHours    *int     `json:"capacity_hours"`
	Location         string   `json:"location"`
	PerformanceScore *float64 `json:"performance_score,omitempty"`
	LastUpdated      string   `json:"last_updated,omitempty"`
}

// Identifier returns the seed's employee identifier, preferring _id
func (p SeedPerson) Identifier() string {
	if p.ID != "" {
		return p.ID
	}
	return p.EmployeeID
}

// ProjectSummary describes a team's project in the directory
type ProjectSummary struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	TeamName    string     `json:"team_name,omitempty"`
	MemberCount int        `json:"member_count"`
}

// TitleCase upper-cases the first letter and lower-cases the rest
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FromAccount converts a stored account
func FromAccount(u models.User) Profile {
	id := u.EmployeeID
	if id == "" {
		id = fmt.Sprint(u.ID)
	}
	return Profile{
		ID:              strings.ToLower(id),
		Name:            strings.TrimSpace(u.FullName()),
		Email:           u.Email,
		Skills:          nonEmpty(u.Skills),
		Department:      orDefault(u.Department, models.DefaultDepartment),
		Position:        orDefault(u.Title, defaultPosition),
		ExperienceLevel: TitleCase(u.ExperienceLevel),
		CurrentProjects: nonEmpty(u.CurrentProjects),
		CapacityHours:   u.CapacityHours,
		Location:        orDefault(u.Location, models.DefaultLocation),
	}
}

// FromSeed converts a seed file entry
func FromSeed(p SeedPerson) Profile {
	capacity := models.DefaultCapacityHours
	if p.CapacityHours != nil {
		capacity = *p.CapacityHours
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	projects := p.CurrentProjects
	if projects == nil {
		projects = []string{}
	}
	return Profile{
		ID:               strings.ToLower(p.Identifier()),
		Name:             p.Name,
		Email:            p.Email,
		Skills:           skills,
		Department:       orDefault(p.Department, models.DefaultDepartment),
		Position:         orDefault(p.Position, defaultPosition),
		ExperienceLevel:  TitleCase(p.ExperienceLevel),
		CurrentProjects:  projects,
		CapacityHours:    capacity,
		Location:         orDefault(p.Location, models.DefaultLocation),
		PerformanceScore: p.PerformanceScore,
		LastUpdated:      p.LastUpdated,
	}
}

// FromTeam summarises the project a team works on
func FromTeam(t models.Team) ProjectSummary {
	return ProjectSummary{
		ID:          t.ID,
		Name:        orDefault(t.Project.Name, t.Name),
		Description: t.Project.Description,
		Status:      orDefault(t.Project.Status, models.ProjectPlanning),
		Deadline:    t.Project.Deadline,
		TeamName:    t.Name,
		MemberCount: t.MemberCount(),
	}
}
