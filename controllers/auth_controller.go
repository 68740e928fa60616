package controller

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hrms/middleware"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie   = "oauth_state"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleLoginTimeout = 10 * time.Second
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=employee manager admin"`
}

// LoginRequest.Name is an email address or a first name
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ProfileRequest holds the self-service profile fields
type ProfileRequest struct {
	FirstName       *string     `json:"first_name" validate:"omitempty,max=100"`
	LastName        *string     `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber     *string     `json:"phone_number"`
	Address         *string     `json:"address"`
	Location        *string     `json:"location"`
	DateOfBirth     *utils.Date `json:"date_of_birth"`
	Title           *string     `json:"title"`
	Skills          []string    `json:"skills"`
	ExperienceLevel *string     `json:"experience_level"`
	CapacityHours   *int        `json:"capacity_hours"`
}

func (r ProfileRequest) update() services.UserUpdate {
	return services.UserUpdate{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		PhoneNumber:     r.PhoneNumber,
		Address:         r.Address,
		Location:        r.Location,
		DateOfBirth:     r.DateOfBirth.Ptr(),
		Title:           r.Title,
		Skills:          r.Skills,
		ExperienceLevel: r.ExperienceLevel,
		CapacityHours:   r.CapacityHours,
	}
}

type AuthController struct {
	Auth   *services.AuthService
	Users  *services.UserService
	OAuth  *oauth2.Config
	Logger logrus.FieldLogger
}

// NewAuthController builds the controller. Google sign-in is disabled when clientID is empty.
func NewAuthController(auth *services.AuthService, users *services.UserService, clientID, clientSecret, redirectURL string, logger logrus.FieldLogger) *AuthController {
	ctrl := &AuthController{Auth: auth, Users: users, Logger: logger}
	if clientID != "" {
		ctrl.OAuth = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}
	return ctrl
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := ac.Auth.Register(c.UserContext(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return handleError(c, "register", err)
	}
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(result))
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := ac.Auth.Login(c.UserContext(), req.Name, req.Password)
	if err != nil {
		if services.IsKind(err, services.KindAuth) {
			utils.LogEvent("login_failed", map[string]interface{}{"ip": c.IP()})
		}
		return handleError(c, "login", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

// Me returns the full account of the caller
func (ac *AuthController) Me(c *fiber.Ctx) error {
	return c.JSON(utils.SuccessResponse(middleware.CurrentUser(c)))
}

func (ac *AuthController) VerifyToken(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(utils.MessageResponse("Token is valid", fiber.Map{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	}))
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := ac.Users.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), req.update())
	if err != nil {
		return handleError(c, "update_profile", err)
	}
	return c.JSON(utils.MessageResponse("Profile updated successfully", user))
}

// ChangePassword returns a fresh token since the change revokes existing ones
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := ac.Auth.ChangePassword(c.UserContext(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return handleError(c, "change_password", err)
	}
	return c.JSON(utils.MessageResponse("Password changed successfully", fiber.Map{"token": token}))
}

func (ac *AuthController) GoogleOAuth(c *fiber.Ctx) error {
	if ac.OAuth == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Google sign-in is not configured", nil)
	}

	state, err := oauthState()
	if err != nil {
		return handleError(c, "google_oauth", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(ac.OAuth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

func (ac *AuthController) GoogleOAuthCallback(c *fiber.Ctx) error {
	if ac.OAuth == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Google sign-in is not configured", nil)
	}

	state := c.Query("state")
	cookieState := c.Cookies(oauthStateCookie)
	if state == "" || cookieState == "" || state != cookieState {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid state parameter", nil)
	}
	c.ClearCookie(oauthStateCookie)

	code := c.Query("code")
	if code == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Authorization code not provided", nil)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), googleLoginTimeout)
	defer cancel()

	identity, err := ac.googleIdentity(ctx, code)
	if err != nil {
		ac.Logger.WithError(err).Warn("Google sign-in failed")
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Google sign-in failed", err)
	}

	result, err := ac.Auth.LoginWithGoogle(c.UserContext(), *identity)
	if err != nil {
		return handleError(c, "google_login", err)
	}
	return c.JSON(utils.SuccessResponse(result))
}

func (ac *AuthController) googleIdentity(ctx context.Context, code string) (*services.GoogleIdentity, error) {
	token, err := ac.OAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange token: %w", err)
	}

	resp, err := ac.OAuth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("google api error %d: %s", resp.StatusCode, body)
	}

	var googleUser struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Verified   bool   `json:"verified_email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("parse user info: %w", err)
	}
	if googleUser.Email == "" || !googleUser.Verified {
		return nil, fmt.Errorf("google account has no verified email")
	}

	return &services.GoogleIdentity{
		Email:     googleUser.Email,
		FirstName: googleUser.GivenName,
		LastName:  googleUser.FamilyName,
	}, nil
}

func oauthState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
