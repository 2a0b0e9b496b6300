package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
)

// BusyPolicy controls what happens to a trigger that arrives while the
// chat's previous invocation is still running
type BusyPolicy string

const (
	BusyPolicyNotify BusyPolicy = "notify" // reply with a busy notice
	BusyPolicyDrop   BusyPolicy = "drop"   // drop silently
)

// Config represents application configuration, constructed once in main and
// passed explicitly into each component
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Codex configuration
	Codex CodexConfig

	// Access configuration
	Access AccessConfig

	// Session configuration
	Session SessionConfig

	// Gateway behavior
	Gateway GatewayConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	BotToken string
}

// CodexConfig contains Codex configuration
type CodexConfig struct {
	WorkingDir     string
	Model          string
	InvokeTimeout  time.Duration
	WorkerPoolSize int
}

// AccessConfig contains access control configuration
type AccessConfig struct {
	AllowEntries []string // raw entries; resolved once at startup
}

// SessionConfig contains session configuration
type SessionConfig struct {
	DBPath      string
	IdleMinutes int
}

// GatewayConfig contains gateway behavior configuration
type GatewayConfig struct {
	BufferCapacity int
	BusyPolicy     BusyPolicy
}

// LoadFromEnv loads configuration from environment variables.
// A malformed prompts file is a startup error, not a silent default.
func LoadFromEnv() (*Config, error) {
	// Session DB path
	sessionDBPath := os.Getenv("SESSION_DB_PATH")
	if sessionDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		sessionDBPath = filepath.Join(homeDir, ".tg-codex-gateway", "sessions.db")
	}

	// Working directory
	workingDir := os.Getenv("WORKING_DIR")
	if workingDir == "" {
		workingDir = "."
	}

	busyPolicy := BusyPolicyNotify
	if os.Getenv("BUSY_POLICY") == string(BusyPolicyDrop) {
		busyPolicy = BusyPolicyDrop
	}

	// Load prompts from YAML
	promptsConfig, err := LoadPromptsConfig(os.Getenv("PROMPTS_CONFIG_PATH"))
	if err != nil {
		return nil, &ConfigError{Field: "PROMPTS_CONFIG_PATH", Message: err.Error()}
	}

	bufferCapacity := envInt("BUFFER_CAPACITY", 30)
	if promptsConfig.History.MaxCount > 0 {
		bufferCapacity = promptsConfig.History.MaxCount
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Codex: CodexConfig{
			WorkingDir:     workingDir,
			Model:          os.Getenv("CODEX_MODEL"),
			InvokeTimeout:  time.Duration(envInt("INVOKE_TIMEOUT_SECONDS", 300)) * time.Second,
			WorkerPoolSize: envInt("WORKER_POOL_SIZE", 4),
		},
		Access: AccessConfig{
			AllowEntries: domain.ParseAllowEntries(os.Getenv("ALLOWED_CHAT_USER_IDS")),
		},
		Session: SessionConfig{
			DBPath:      sessionDBPath,
			IdleMinutes: envInt("SESSION_IDLE_MINUTES", 60),
		},
		Gateway: GatewayConfig{
			BufferCapacity: bufferCapacity,
			BusyPolicy:     busyPolicy,
		},
		Prompts: promptsConfig,
		Debug:   os.Getenv("DEBUG") == "true",
	}
	return cfg, nil
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// ToSessionConfig converts to domain session configuration
func (c *SessionConfig) ToSessionConfig() domain.SessionConfig {
	return domain.SessionConfig{
		IdleTimeout: time.Duration(c.IdleMinutes) * time.Minute,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "required"}
	}
	if len(c.Access.AllowEntries) == 0 {
		return &ConfigError{Field: "ALLOWED_CHAT_USER_IDS", Message: "required"}
	}
	if _, err := os.Stat(c.Codex.WorkingDir); err != nil {
		return &ConfigError{Field: "WORKING_DIR", Message: "not found: " + c.Codex.WorkingDir}
	}
	if c.Codex.WorkerPoolSize < 1 {
		return &ConfigError{Field: "WORKER_POOL_SIZE", Message: "must be >= 1"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
