package chat

import (
	"context"
	"strings"

	"hrms/directory"
)

// Reply types
const (
	ReplyEmployees = "employees"
	ReplyProjects  = "projects"
	ReplyEcho      = "echo"
	ReplyAI        = "ai"
)

// Reply is the chat answer. Fields are set according to Type.
type Reply struct {
	Type      string                     `json:"type"`
	Count     *int                       `json:"count,omitempty"`
	Employees []directory.Profile        `json:"employees,omitempty"`
	Projects  []directory.ProjectSummary `json:"projects,omitempty"`
	Message   string                     `json:"message,omitempty"`
	SessionID string                     `json:"session_id,omitempty"`
	Response  interface{}                `json:"response,omitempty"`
}

// Agent answers a few keyword intents from the directory
type Agent struct {
	dir directory.Directory
}

func NewAgent(dir directory.Directory) *Agent {
	return &Agent{dir: dir}
}

func (a *Agent) HandleChat(ctx context.Context, message string) (*Reply, error) {
	text := strings.ToLower(message)

	switch {
	case strings.Contains(text, "list") && strings.Contains(text, "employee"):
		employees, err := a.dir.Employees(ctx, directory.Filter{})
		if err != nil {
			return nil, err
		}
		n := len(employees)
		return &Reply{Type: ReplyEmployees, Count: &n, Employees: employees}, nil
	case strings.Contains(text, "project"):
		projects, err := a.dir.Projects(ctx, directory.ProjectFilter{})
		if err != nil {
			return nil, err
		}
		n := len(projects)
		return &Reply{Type: ReplyProjects, Count: &n, Projects: projects}, nil
	}
	return &Reply{Type: ReplyEcho, Message: message}, nil
}
