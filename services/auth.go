package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrms/models"
	"hrms/store"
	"hrms/utils"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const MinPasswordLength = 6

// AuthService handles registration, login and bearer token verification
type AuthService struct {
	store  store.Store
	tokens TokenIssuer
	hasher PasswordHasher
	logger logrus.FieldLogger
}

func NewAuthService(deps Dependencies) *AuthService {
	deps = deps.withDefaults()
	return &AuthService{
		store:  deps.Store,
		tokens: deps.Tokens,
		hasher: deps.Hasher,
		logger: deps.Logger.WithField("service", "auth"),
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// Profile is the minimal account projection returned with a token
type Profile struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}

type AuthResult struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

func ProfileOf(u *models.User) Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		EmployeeID: u.EmployeeID,
		Role:       u.Role,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.TrimSpace(in.Role)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, ValidationError("please fill in all fields")
	}
	if err := checkmail.ValidateFormat(in.Email); err != nil {
		return nil, ValidationError("please provide a valid email")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if in.Role == "" {
		in.Role = models.RoleEmployee
	}
	// admins are bootstrapped or promoted, never self-registered
	if in.Role != models.RoleEmployee && in.Role != models.RoleManager {
		return nil, ValidationError("invalid role")
	}

	user, err := s.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	utils.LogEvent("user_registered", map[string]interface{}{
		"user_id":     user.ID,
		"employee_id": user.EmployeeID,
	})
	return s.issue(user)
}

func (s *AuthService) createAccount(ctx context.Context, in RegisterInput) (*models.User, error) {
	if _, err := s.store.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ConflictError("user already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	employeeID, err := s.nextEmployeeID(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:           in.Email,
		PasswordHash:    hash,
		Role:            in.Role,
		IsActive:        true,
		TokenVersion:    1,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Location:        models.DefaultLocation,
		EmployeeID:      employeeID,
		Department:      models.DefaultDepartment,
		Skills:          []string{models.DefaultSkill},
		ExperienceLevel: models.ExperienceJunior,
		CurrentProjects: []string{},
		CapacityHours:   models.DefaultCapacityHours,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ConflictError("user already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// nextEmployeeID formats count+1 and advances past identifiers already taken
func (s *AuthService) nextEmployeeID(ctx context.Context) (string, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("count users: %w", err)
	}
	for n := count + 1; ; n++ {
		id := fmt.Sprintf("EMP%03d", n)
		_, err := s.store.FindUserByEmployeeID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("lookup employee id: %w", err)
		}
	}
}

// Login matches name against the email first, then the first name
func (s *AuthService) Login(ctx context.Context, name, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, ValidationError("please provide name and password")
	}

	user, err := s.loginCandidate(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, AuthError("invalid credentials")
	}
	if !user.IsActive {
		return nil, AuthError("account is not active")
	}

	s.logger.WithField("user_id", user.ID).Debug("login succeeded")
	return s.issue(user)
}

func (s *AuthService) loginCandidate(ctx context.Context, name string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(name))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	matches, err := s.store.FindUsersByFirstName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup first name: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// GoogleIdentity is the verified identity returned by the OAuth userinfo endpoint
type GoogleIdentity struct {
	Email     string
	FirstName string
	LastName  string
}

// LoginWithGoogle signs in the account holding the email, registering it first when absent
func (s *AuthService) LoginWithGoogle(ctx context.Context, id GoogleIdentity) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return nil, ValidationError("google account has no email")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		first, last := strings.TrimSpace(id.FirstName), strings.TrimSpace(id.LastName)
		if first == "" {
			first = strings.SplitN(email, "@", 2)[0]
		}
		if last == "" {
			last = "-"
		}
		user, err = s.createAccount(ctx, RegisterInput{
			FirstName: first,
			LastName:  last,
			Email:     email,
			// random secret: the account signs in through google until a password is set
			Password: uuid.NewString(),
			Role:     models.RoleEmployee,
		})
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, AuthError("account is not active")
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token to its account
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, AuthError("not authorized, token failed")
	}

	user, err := s.store.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, AuthError("not authorized, user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return nil, AuthError("account is not active")
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, AuthError("not authorized, token revoked")
	}
	return user, nil
}

// ChangePassword re-hashes the credential and revokes outstanding tokens
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, current, next string) (string, error) {
	if current == "" || next == "" {
		return "", ValidationError("current and new password are required")
	}
	if len(next) < MinPasswordLength {
		return "", ValidationError("new password must be at least %d characters", MinPasswordLength)
	}
	if !s.hasher.Compare(user.PasswordHash, current) {
		return "", AuthError("current password is incorrect")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.TokenVersion++
	if err := s.store.SaveUser(ctx, user); err != nil {
		return "", fmt.Errorf("save user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: token, User: ProfileOf(user)}, nil
}
