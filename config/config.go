package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"hrms/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store drivers
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var (
	DB        *gorm.DB
	AppConfig Config
	envLoaded bool
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type OAuthConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"-"`
	RedirectURI  string `json:"redirect_uri"`
}

type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
}

// Enabled reports whether outgoing mail can be delivered
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type Config struct {
	Environment string `json:"environment"`
	AppName     string `json:"app_name"`
	ServerPort  string `json:"server_port"`
	ClientURL   string `json:"client_url"`
	LogLevel    string `json:"log_level"`
	LogFormat   string `json:"log_format"`
	SentryDSN   string `json:"-"`

	StoreDriver    string `json:"store_driver"`
	DBHost         string `json:"db_host"`
	DBPort         string `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPassword     string `json:"-"`
	DBName         string `json:"db_name"`
	DBSSLMode      string `json:"db_ssl_mode"`
	DBMaxIdleConns int    `json:"db_max_idle_conns"`
	DBMaxOpenConns int    `json:"db_max_open_conns"`

	JWTSecret  string        `json:"-"`
	JWTTTL     time.Duration `json:"jwt_ttl"`
	BcryptCost int           `json:"bcrypt_cost"`

	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"-"`

	Google OAuthConfig `json:"google"`
	Redis  RedisConfig `json:"redis"`
	SMTP   SMTPConfig  `json:"smtp"`

	RateLimitLogin int `json:"rate_limit_login"`
	RateLimitChat  int `json:"rate_limit_chat"`

	NotificationInterval time.Duration `json:"notification_interval"`

	AIServiceURL string `json:"ai_service_url"`
	AIDemo       bool   `json:"ai_demo"`
	AIDemoSeed   string `json:"ai_demo_seed"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		AppName:     getEnv("APP_NAME", "HRMS"),
		ServerPort:  getEnv("PORT", "5000"),
		ClientURL:   getEnv("CLIENT_URL", "http://localhost:3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		StoreDriver:    strings.ToLower(getEnv("STORE", StorePostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "hrms"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTTTL:     getEnvAsDuration("JWT_TTL", 30*24*time.Hour),
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Google: OAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM_EMAIL", ""),
			FromName: getEnv("SMTP_FROM_NAME", "HRMS"),
		},

		RateLimitLogin: getEnvAsInt("RATE_LIMIT_LOGIN", 10),
		RateLimitChat:  getEnvAsInt("RATE_LIMIT_CHAT", 30),

		NotificationInterval: getEnvAsDuration("NOTIFICATION_INTERVAL", 30*time.Second),

		AIServiceURL: getEnv("AI_SERVICE_URL", ""),
		AIDemo:       getEnvAsBool("AI_DEMO", false),
		AIDemoSeed:   getEnv("AI_DEMO_SEED", "data/demo/ai_people.json"),
	}

	if err := AppConfig.Validate(); err != nil {
		return err
	}

	logConfig()
	return nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q, want %s or %s", c.StoreDriver, StorePostgres, StoreMemory)
	}

	if c.JWTSecret == "" {
		if c.Environment == "production" || c.StoreDriver == StorePostgres {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWTSecret = "dev-secret-change-me"
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.Environment == "production" && c.Google.ClientID != "" && c.Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required when GOOGLE_CLIENT_ID is set")
	}
	return nil
}

// UseMemoryStore reports whether data lives in process memory
func (c Config) UseMemoryStore() bool {
	return c.StoreDriver == StoreMemory
}

func ConnectDB() error {
	logrus.Info("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	logrus.WithField("dsn", maskPassword(dsn)).Debug("Using connection string")

	gormConfig := &gorm.Config{TranslateError: true}
	if AppConfig.Environment == "production" {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logrus.Info("Successfully connected to the database")
	logrus.Info("Starting database migration...")
	if err := migrateDB(DB); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	logrus.Info("Database migration completed")
	return nil
}

func migrateDB(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		logrus.Warnf("Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

// getEnvAsDuration accepts Go durations ("12h") or plain seconds
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	logrus.WithFields(logrus.Fields{
		"environment": AppConfig.Environment,
		"port":        AppConfig.ServerPort,
		"store":       AppConfig.StoreDriver,
		"database":    fmt.Sprintf("%s@%s:%s/%s", AppConfig.DBUser, AppConfig.DBHost, AppConfig.DBPort, AppConfig.DBName),
		"redis":       AppConfig.Redis.Enabled,
		"smtp":        AppConfig.SMTP.Enabled(),
		"google":      AppConfig.Google.ClientID != "",
		"ai_service":  AppConfig.AIServiceURL != "",
		"ai_demo":     AppConfig.AIDemo,
	}).Info("Loaded configuration")
}
