package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix for environment overrides. Nested keys are
	// separated by "__", e.g. APP_AUTH__API_KEY sets auth.api_key.
	EnvPrefix = "APP_"

	// EnvironmentVar selects the environment overlay file.
	EnvironmentVar = "APP_ENVIRONMENT"

	EnvironmentLocal      = "local"
	EnvironmentProduction = "production"
)

// ErrInvalidConfig is returned when required settings are missing or invalid.
// It is fatal at startup.
var ErrInvalidConfig = errors.New("invalid configuration")

// Secret holds a value that must never be printed.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// Expose returns the raw secret value.
func (s Secret) Expose() string {
	return string(s)
}

type Config struct {
	Environment string            `koanf:"environment"`
	Application ApplicationConfig `koanf:"application"`
	Auth        AuthConfig        `koanf:"auth"`
	Redis       RedisConfig       `koanf:"redis"`
	Database    DatabaseConfig    `koanf:"database"`
	Logging     LoggingConfig     `koanf:"logging"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

type ApplicationConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	BaseURL         string        `koanf:"base_url"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (a ApplicationConfig) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

type AuthConfig struct {
	APIKey Secret `koanf:"api_key"`
	// APIKeyHashed marks APIKey as a bcrypt hash rather than the plain key.
	APIKeyHashed bool          `koanf:"api_key_hashed"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
}

type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    Secret        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	OpTimeout   time.Duration `koanf:"op_timeout"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
	PoolSize    int           `koanf:"pool_size"`
}

type DatabaseConfig struct {
	DSN          Secret `koanf:"dsn"`
	Migrate      bool   `koanf:"migrate"`
	MaxOpenConns int    `koanf:"max_open_conns"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json | console
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func defaults() map[string]any {
	return map[string]any{
		"environment": EnvironmentLocal,
		"application": map[string]any{
			"host":             "0.0.0.0",
			"port":             8000,
			"base_url":         "http://127.0.0.1",
			"shutdown_timeout": "10s",
		},
		"auth": map[string]any{
			"api_key_hashed": false,
			"session_ttl":    "1h",
		},
		"redis": map[string]any{
			"db":           0,
			"key_prefix":   "session:",
			"op_timeout":   "2s",
			"dial_timeout": "2s",
			"pool_size":    10,
		},
		"database": map[string]any{
			"migrate":        true,
			"max_open_conns": 10,
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "json",
		},
		"metrics": map[string]any{
			"enabled": false,
			"addr":    ":9090",
		},
	}
}

// Load reads <dir>/base.yaml, then <dir>/<environment>.yaml, then APP_*
// environment variables, each layer overriding the previous one. Missing
// files are skipped.
func Load(dir string) (*Config, error) {
	environment := strings.ToLower(os.Getenv(EnvironmentVar))
	if environment == "" {
		environment = EnvironmentLocal
	}
	if environment != EnvironmentLocal && environment != EnvironmentProduction {
		return nil, fmt.Errorf(
			"%w: %q is not a supported environment, use either %q or %q",
			ErrInvalidConfig, environment, EnvironmentLocal, EnvironmentProduction,
		)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, name := range []string{"base.yaml", environment + ".yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to access config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Environment = environment

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps APP_REDIS__OP_TIMEOUT to redis.op_timeout.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate reports the first missing or invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Auth.APIKey == "":
		return fmt.Errorf("%w: auth.api_key is required", ErrInvalidConfig)
	case c.Auth.SessionTTL <= 0:
		return fmt.Errorf("%w: auth.session_ttl must be positive", ErrInvalidConfig)
	case c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
	case c.Redis.OpTimeout <= 0:
		return fmt.Errorf("%w: redis.op_timeout must be positive", ErrInvalidConfig)
	case c.Database.DSN == "":
		return fmt.Errorf("%w: database.dsn is required", ErrInvalidConfig)
	case c.Application.Port < 0 || c.Application.Port > 65535:
		return fmt.Errorf("%w: application.port %d out of range", ErrInvalidConfig, c.Application.Port)
	case c.Metrics.Enabled && c.Metrics.Addr == "":
		return fmt.Errorf("%w: metrics.addr is required when metrics are enabled", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}
