package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrms/directory"
	"hrms/models"
	"hrms/store"

	"github.com/sirupsen/logrus"
)

// Hasher hashes seed passwords
type Hasher interface {
	Hash(password string) (string, error)
}

// Result counts what an import did
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Importer creates employee accounts from seed people
type Importer struct {
	users  store.UserStore
	hasher Hasher
	logger logrus.FieldLogger
}

func NewImporter(users store.UserStore, hasher Hasher, logger logrus.FieldLogger) *Importer {
	return &Importer{
		users:  users,
		hasher: hasher,
		logger: logger.WithField("component", "seed"),
	}
}

// ImportPeople reads a JSON seed file and imports every entry
func (im *Importer) ImportPeople(ctx context.Context, path string) (Result, error) {
	people, err := directory.LoadSeedFile(path)
	if err != nil {
		return Result{}, err
	}
	im.logger.WithFields(logrus.Fields{"path": path, "count": len(people)}).Info("Seeding people")
	return im.Import(ctx, people)
}

// Import creates an account per person, skipping identifiers or emails already present
func (im *Importer) Import(ctx context.Context, people []directory.SeedPerson) (Result, error) {
	var res Result
	for _, p := range people {
		created, err := im.importOne(ctx, p)
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

func (im *Importer) importOne(ctx context.Context, p directory.SeedPerson) (bool, error) {
	employeeID := p.Identifier()
	if employeeID == "" {
		count, err := im.users.CountUsers(ctx)
		if err != nil {
			return false, fmt.Errorf("count users: %w", err)
		}
		employeeID = fmt.Sprintf("EMP%03d", count+1)
	}

	if _, err := im.users.FindUserByEmployeeID(ctx, employeeID); err == nil {
		im.logger.WithField("employee_id", employeeID).Info("Skip existing")
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("lookup employee id: %w", err)
	}

	password := p.Password
	if password == "" {
		password = employeeID + "@123"
	}
	hash, err := im.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	user := UserFromSeed(p, employeeID, hash)
	if _, err := im.users.FindUserByEmail(ctx, user.Email); err == nil {
		im.logger.WithField("email", user.Email).Info("Skip existing email")
		return false, nil
	}
	if err := im.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", employeeID, err)
	}

	im.logger.WithFields(logrus.Fields{"employee_id": employeeID, "name": p.Name}).Info("Inserted")
	return true, nil
}

// UserFromSeed builds the employee account for a seed person
func UserFromSeed(p directory.SeedPerson, employeeID, passwordHash string) models.User {
	parts := strings.Fields(p.Name)
	first, last := "New", "Employee"
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		email = strings.ToLower(employeeID) + "@example.com"
	}

	level := strings.ToLower(p.ExperienceLevel)
	if !models.ValidExperienceLevel(level) {
		level = models.ExperienceJunior
	}
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
	location := p.Location
	if location == "" {
		location = models.DefaultLocation
	}
	department := p.Department
	if department == "" {
		department = models.DefaultDepartment
	}

	return models.User{
		Email:           email,
		PasswordHash:    passwordHash,
		Role:            models.RoleEmployee,
		IsActive:        true,
		TokenVersion:    1,
		FirstName:       first,
		LastName:        last,
		Location:        location,
		EmployeeID:      employeeID,
		Title:           p.Position,
		Department:      department,
		Skills:          skills,
		ExperienceLevel: level,
		CurrentProjects: projects,
		CapacityHours:   capacity,
	}
}

// EnsureAdmin creates the bootstrap admin unless an account already holds the email.
// It reports whether an account was created.
func EnsureAdmin(ctx context.Context, users store.UserStore, hasher Hasher, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, err := users.FindUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("find admin: %w", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.DefaultAdmin(email, hash)
	if err := users.CreateUser(ctx, &admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
