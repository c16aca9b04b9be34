package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points the console at the REST backend it fronts.
type BackendConfig struct {
	BaseURL        string
	APIPrefix      string
	TimeoutSeconds int
}

// SessionConfig controls how console sessions are persisted.
type SessionConfig struct {
	Store        string
	CookieName   string
	CookieSecure bool
	KeyPrefix    string
	TTLMinutes   int
}

// PostgresConfig holds DB connection values for the audit trail.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig describes how backend tokens are read and which roles reach which pages.
type AuthConfig struct {
	RoleClaim        string
	EmailClaim       string
	LoginPath        string
	UnauthorizedPath string
	ManagerRoles     []string
	AdminRoles       []string
}

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "admin-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(os.Getenv("BACKEND_BASE_URL"), "/"),
			APIPrefix:      getEnv("BACKEND_API_PREFIX", "/api"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 20),
		},
		Session: SessionConfig{
			Store:        strings.ToLower(getEnv("SESSION_STORE", SessionStoreRedis)),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "_console_sid"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", true),
			KeyPrefix:    getEnv("SESSION_KEY_PREFIX", "console:session"),
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 24*60),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 5)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			RoleClaim:        getEnv("AUTH_ROLE_CLAIM", "role"),
			EmailClaim:       getEnv("AUTH_EMAIL_CLAIM", "email"),
			LoginPath:        getEnv("AUTH_LOGIN_PATH", "/login"),
			UnauthorizedPath: getEnv("AUTH_UNAUTHORIZED_PATH", "/unauthorized"),
			ManagerRoles:     getEnvAsList("AUTH_MANAGER_ROLES", []string{"Admin", "Manager"}),
			AdminRoles:       getEnvAsList("AUTH_ADMIN_ROLES", []string{"Admin"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		return fmt.Errorf("invalid SESSION_STORE %q: expected %q or %q", c.Session.Store, SessionStoreRedis, SessionStoreMemory)
	}
	if strings.TrimSpace(c.Auth.RoleClaim) == "" {
		return fmt.Errorf("AUTH_ROLE_CLAIM must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// APIBaseURL is the origin plus API prefix every service path is joined to.
func (b BackendConfig) APIBaseURL() string {
	return b.BaseURL + "/" + strings.Trim(b.APIPrefix, "/")
}

// Timeout returns the outbound HTTP client timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// TTL returns how long an idle session survives in the store. Each request
// that loads the session starts the window again.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
