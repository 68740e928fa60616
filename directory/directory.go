package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"hrms/store"
)

var ErrNotFound = errors.New("profile not found")

// Filter narrows Employees. Zero values do not filter; Skills matches any.
type Filter struct {
	Department string
	Location   string
	Skills     []string
}

type ProjectFilter struct {
	Name   string
	Status string
}

// Directory is the read side of the people directory
type Directory interface {
	Employees(ctx context.Context, filter Filter) ([]Profile, error)
	Projects(ctx context.Context, filter ProjectFilter) ([]ProjectSummary, error)
	// EmployeeByEmployeeID matches case-insensitively and returns ErrNotFound when absent
	EmployeeByEmployeeID(ctx context.Context, employeeID string) (*Profile, error)
}

var (
	_ Directory = (*StoreDirectory)(nil)
	_ Directory = (*DemoDirectory)(nil)
)

// StoreDirectory serves accounts and teams from the store
type StoreDirectory struct {
	users store.UserStore
	teams store.TeamStore
}

func NewStoreDirectory(users store.UserStore, teams store.TeamStore) *StoreDirectory {
	return &StoreDirectory{users: users, teams: teams}
}

func (d *StoreDirectory) Employees(ctx context.Context, filter Filter) ([]Profile, error) {
	users, err := d.users.ListUsers(ctx, store.UserFilter{
		Department: filter.Department,
		Location:   filter.Location,
		Skills:     filter.Skills,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]Profile, 0, len(users))
	for _, u := range users {
		out = append(out, FromAccount(u))
	}
	return out, nil
}

func (d *StoreDirectory) Projects(ctx context.Context, filter ProjectFilter) ([]ProjectSummary, error) {
	teams, err := d.teams.ListTeams(ctx, store.TeamFilter{
		Name:          filter.Name,
		ProjectStatus: filter.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make([]ProjectSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, FromTeam(t))
	}
	return out, nil
}

func (d *StoreDirectory) EmployeeByEmployeeID(ctx context.Context, employeeID string) (*Profile, error) {
	u, err := d.users.FindUserByEmployeeID(ctx, employeeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	p := FromAccount(*u)
	return &p, nil
}

// DemoDirectory serves a fixed in-memory data set
type DemoDirectory struct {
	mu       sync.RWMutex
	people   []SeedPerson
	projects []ProjectSummary
}

func NewDemoDirectory(people []SeedPerson, projects []ProjectSummary) *DemoDirectory {
	return &DemoDirectory{
		people:   append([]SeedPerson(nil), people...),
		projects: append([]ProjectSummary(nil), projects...),
	}
}

// LoadSeedFile reads a JSON array of seed people
func LoadSeedFile(path string) ([]SeedPerson, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var people []SeedPerson
	if err := json.Unmarshal(raw, &people); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return people, nil
}

// LoadDemoDirectory builds a demo directory from a seed file. A missing file gives an empty directory.
func LoadDemoDirectory(path string) (*DemoDirectory, error) {
	if path == "" {
		return NewDemoDirectory(nil, nil), nil
	}
	people, err := LoadSeedFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewDemoDirectory(nil, nil), nil
	}
	if err != nil {
		return nil, err
	}
	return NewDemoDirectory(people, nil), nil
}

func (d *DemoDirectory) Employees(ctx context.Context, filter Filter) ([]Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []Profile{}
	for _, p := range d.people {
		if filter.Department != "" && p.Department != filter.Department {
			continue
		}
		if filter.Location != "" && p.Location != filter.Location {
			continue
		}
		if len(filter.Skills) > 0 && !anyOf(p.Skills, filter.Skills) {
			continue
		}
		out = append(out, FromSeed(p))
	}
	return out, nil
}

func anyOf(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (d *DemoDirectory) Projects(ctx context.Context, filter ProjectFilter) ([]ProjectSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []ProjectSummary{}
	for _, p := range d.projects {
		if filter.Name != "" && p.Name != filter.Name {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *DemoDirectory) EmployeeByEmployeeID(ctx context.Context, employeeID string) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, p := range d.people {
		if strings.EqualFold(p.Identifier(), employeeID) {
			profile := FromSeed(p)
			return &profile, nil
		}
	}
	return nil, ErrNotFound
}
