// Package config loads settings for the server and the command-line tools.
//
// Sources, lowest precedence first: built-in defaults, an optional playground.yaml,
// SANDBOX_* environment variables (SANDBOX_SERVER_PORT, SANDBOX_SANDBOX_RUNTIME, ...)
// and the bare variables the deployment scripts already set (PORT, USE_FINCH,
// ENVIRONMENT, OPENAI_API_KEY, USE_MOCK_DATA, JWT_SECRET).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sakif/tdd-playground/internal/apperror"
)

// Backend values for sandbox.backend.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Runtime values for sandbox.runtime.
const (
	RuntimeDocker    = "docker"
	RuntimeFinch     = "finch"
	RuntimeDockerAPI = "docker-api"
)

// EnvProduction selects the remote backend when ENVIRONMENT is set to it.
const EnvProduction = "production"

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SandboxConfig struct {
	Backend    string        `mapstructure:"backend"`
	Runtime    string        `mapstructure:"runtime"`
	UseFinch   bool          `mapstructure:"use_finch"`
	Binary     string        `mapstructure:"binary"`
	ImageRepo  string        `mapstructure:"image_repo"`
	Memory     string        `mapstructure:"memory"`
	CPUs       string        `mapstructure:"cpus"`
	PidsLimit  int           `mapstructure:"pids_limit"`
	Timeout    time.Duration `mapstructure:"timeout"`
	TempDir    string        `mapstructure:"temp_dir"`
	RemoteName string        `mapstructure:"remote_name"`
}

type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	UseMock     bool    `mapstructure:"use_mock"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type Config struct {
	Environment string        `mapstructure:"environment"`
	Server      ServerConfig  `mapstructure:"server"`
	Log         LogConfig     `mapstructure:"log"`
	Sandbox     SandboxConfig `mapstructure:"sandbox"`
	LLM         LLMConfig     `mapstructure:"llm"`
	Auth        AuthConfig    `mapstructure:"auth"`
}

// legacyEnv maps keys to the unprefixed variables older deployments use.
var legacyEnv = map[string]string{
	"server.port":         "PORT",
	"server.cors_origins": "CORS_ORIGINS",
	"sandbox.use_finch":   "USE_FINCH",
	"environment":         "ENVIRONMENT",
	"llm.api_key":         "OPENAI_API_KEY",
	"llm.use_mock":        "USE_MOCK_DATA",
	"auth.jwt_secret":     "JWT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")

	v.SetDefault("sandbox.backend", BackendLocal)
	v.SetDefault("sandbox.runtime", RuntimeDocker)
	v.SetDefault("sandbox.use_finch", false)
	v.SetDefault("sandbox.binary", "")
	v.SetDefault("sandbox.image_repo", "python-sandbox")
	v.SetDefault("sandbox.memory", "100m")
	v.SetDefault("sandbox.cpus", "0.5")
	v.SetDefault("sandbox.pids_limit", 50)
	v.SetDefault("sandbox.timeout", 5*time.Second)
	v.SetDefault("sandbox.temp_dir", "")
	v.SetDefault("sandbox.remote_name", "Fargate")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.use_mock", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
}

// Load reads configuration. An empty path searches for playground.yaml in the working
// directory and $HOME/.playground; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SANDBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "SANDBOX_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("playground")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.playground")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyLegacy()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyLegacy folds the old boolean switches into the explicit settings.
func (c *Config) applyLegacy() {
	if c.Sandbox.UseFinch && c.Sandbox.Runtime == RuntimeDocker {
		c.Sandbox.Runtime = RuntimeFinch
	}
	if strings.EqualFold(c.Environment, EnvProduction) {
		c.Sandbox.Backend = BackendRemote
	}
}

// Validate rejects values that would only fail later, at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperror.InvalidConfig("server.port", c.Server.Port)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Sandbox.Backend {
	case BackendLocal, BackendRemote:
	default:
		return apperror.InvalidConfig("sandbox.backend", c.Sandbox.Backend)
	}
	switch c.Sandbox.Runtime {
	case RuntimeDocker, RuntimeFinch, RuntimeDockerAPI:
	default:
		return apperror.InvalidConfig("sandbox.runtime", c.Sandbox.Runtime)
	}
	if c.Sandbox.Timeout <= 0 {
		return apperror.InvalidConfig("sandbox.timeout", c.Sandbox.Timeout)
	}
	if c.Sandbox.PidsLimit <= 0 {
		return apperror.InvalidConfig("sandbox.pids_limit", c.Sandbox.PidsLimit)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return apperror.InvalidConfig("llm.temperature", c.LLM.Temperature)
	}
	return nil
}

// LogLevel parses log.level ("debug", "info", "warn", "error").
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, apperror.InvalidConfig("log.level", c.Log.Level)
	}
	return level, nil
}

// AuthEnabled reports whether API routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}
