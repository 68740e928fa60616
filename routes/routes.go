package routes

import (
	"time"

	controller "hrms/controllers"
	"hrms/metrics"
	"hrms/middleware"
	"hrms/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Controllers groups the HTTP handlers mounted by SetupRoutes
type Controllers struct {
	Auth        *controller.AuthController
	Users       *controller.UserController
	Teams       *controller.TeamController
	TeamEvents  *controller.TeamEventsController
	Leaves      *controller.LeaveController
	Performance *controller.PerformanceController
	AI          *controller.AIController
	Chat        *controller.ChatController
}

// Options tunes the cross-cutting middleware
type Options struct {
	CORSOrigins      []string
	RateLimitStorage fiber.Storage // nil keeps limiter counters in process memory
	LoginPerMinute   int
	ChatPerMinute    int
	AccessLog        bool
}

// NewApp creates the fiber app with the envelope error handler
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: controller.ErrorHandler,
	})
}

func SetupRoutes(app *fiber.App, ctrl Controllers, auth middleware.Authenticator, opts Options) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.CORS(middleware.DefaultCORSConfig(opts.CORSOrigins...)))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	protected := middleware.Protected(auth)

	SetupAuthRoutes(app, ctrl.Auth, protected, opts)
	SetupAPIRoutes(app, ctrl, protected, opts)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "The requested resource was not found",
		})
	})
}

func SetupAuthRoutes(app *fiber.App, ac *controller.AuthController, protected fiber.Handler, opts Options) {
	auth := app.Group("/api/auth")

	auth.Post("/register", ac.Register)
	auth.Post("/login", limitPerMinute("login", opts.LoginPerMinute, opts.RateLimitStorage, nil), ac.Login)

	auth.Get("/google", ac.GoogleOAuth)
	auth.Get("/google/callback", ac.GoogleOAuthCallback)

	auth.Get("/me", protected, ac.Me)
	auth.Get("/verify-token", protected, ac.VerifyToken)
	auth.Put("/update-profile", protected, ac.UpdateProfile)
	auth.Put("/change-password", protected, ac.ChangePassword)
}

func SetupAPIRoutes(app *fiber.App, ctrl Controllers, protected fiber.Handler, opts Options) {
	// Protected is attached per group: a middleware on "/api" would also cover /api/auth.
	users := app.Group("/api/users", protected)
	users.Get("/", middleware.Authorize(models.RoleAdmin), ctrl.Users.ListUsers)
	// Static paths before parameterized ones
	users.Get("/team/my-team", ctrl.Users.MyTeam)
	users.Get("/:id", ctrl.Users.GetUser)
	users.Put("/:id", ctrl.Users.UpdateUser)

	teams := app.Group("/api/teams", protected)
	teams.Post("/create", ctrl.Teams.CreateTeam)
	teams.Post("/join", ctrl.Teams.JoinTeam)
	teams.Get("/my-teams", ctrl.Teams.MyTeams)
	teams.Get("/:teamId/events", ctrl.TeamEvents.Upgrade, ctrl.TeamEvents.Stream())
	teams.Get("/:teamId/my-tasks", ctrl.Teams.MyTasks)
	teams.Get("/:teamId", ctrl.Teams.GetTeam)
	teams.Put("/:teamId", ctrl.Teams.UpdateTeam)
	teams.Delete("/:teamId/leave", ctrl.Teams.LeaveTeam)
	teams.Delete("/:teamId/members/:userId", ctrl.Teams.RemoveMember)
	teams.Delete("/:teamId", ctrl.Teams.DeleteTeam)
	teams.Post("/:teamId/assign-task", ctrl.Teams.AssignTask)
	teams.Put("/:teamId/tasks/:taskId", ctrl.Teams.UpdateTaskStatus)

	leaves := app.Group("/api/leaves", protected)
	leaves.Get("/", ctrl.Leaves.ListLeaves)
	leaves.Post("/", ctrl.Leaves.CreateLeave)
	leaves.Put("/:id", middleware.Authorize(models.RoleManager, models.RoleAdmin), ctrl.Leaves.UpdateLeave)

	performance := app.Group("/api/performance", protected)
	performance.Get("/", ctrl.Performance.ListReviews)
	performance.Post("/", ctrl.Performance.CreateReview)
	performance.Get("/goals", ctrl.Performance.ListGoals)
	performance.Post("/goals", ctrl.Performance.CreateGoal)
	performance.Put("/goals/:id", ctrl.Performance.UpdateGoal)

	ai := app.Group("/api/ai", protected)
	ai.Get("/people", ctrl.AI.People)
	ai.Get("/people/:employeeId", ctrl.AI.Person)

	app.Post("/api/chat", protected, limitPerMinute("chat", opts.ChatPerMinute, opts.RateLimitStorage, middleware.UserOrIP), ctrl.Chat.Chat)
}

// limitPerMinute is a pass-through when max is not positive
func limitPerMinute(name string, max int, storage fiber.Storage, key func(*fiber.Ctx) string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimiter(name, max, time.Minute, storage, key)
}
