package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/brizzbuzz/secretload/internal/errors"
	"github.com/brizzbuzz/secretload/internal/types"
	"github.com/brizzbuzz/secretload/internal/validation"
)

const (
	DefaultRegion      = "us-east-1"
	DefaultEnvironment = "dev"
	DefaultTokenPath   = "/etc/secretload-token"
	DefaultField       = "secretstring"
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type Config struct {
	Region          string    `mapstructure:"region"`
	Environment     string    `mapstructure:"env"`
	Backend         string    `mapstructure:"backend"`
	Endpoint        string    `mapstructure:"endpoint"`
	AccessKeyID     string    `mapstructure:"access_key_id"`
	SecretAccessKey string    `mapstructure:"secret_access_key"`
	Vault           string    `mapstructure:"vault"`
	Field           string    `mapstructure:"field"`
	TokenFile       string    `mapstructure:"token_file"`
	Log             LogConfig `mapstructure:"log"`
}

var envBindings = map[string]string{
	"region":            "AWS_REGION",
	"env":               "ENV",
	"backend":           "SECRETLOAD_BACKEND",
	"endpoint":          "AWS_ENDPOINT_URL",
	"access_key_id":     "SECRETLOAD_ACCESS_KEY_ID",
	"secret_access_key": "SECRETLOAD_SECRET_ACCESS_KEY",
	"vault":             "SECRETLOAD_OP_VAULT",
	"field":             "SECRETLOAD_OP_FIELD",
	"token_file":        "SECRETLOAD_TOKEN_FILE",
	"log.level":         "SECRETLOAD_LOG_LEVEL",
	"log.format":        "SECRETLOAD_LOG_FORMAT",
	"log.output":        "SECRETLOAD_LOG_OUTPUT",
}

// flag name -> config key
var flagBindings = map[string]string{
	"region":     "region",
	"backend":    "backend",
	"env":        "env",
	"token-file": "token_file",
	"log-level":  "log.level",
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("region", DefaultRegion)
	v.SetDefault("env", DefaultEnvironment)
	v.SetDefault("backend", string(types.BackendAWS))
	v.SetDefault("endpoint", "")
	v.SetDefault("access_key_id", "")
	v.SetDefault("secret_access_key", "")
	v.SetDefault("vault", "")
	v.SetDefault("field", DefaultField)
	v.SetDefault("token_file", DefaultTokenPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return v
}

// Load builds the configuration from defaults, an optional JSON file,
// environment variables and, when flags is non-nil, changed command line flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.ConfigError(
				"Reading configuration file",
				fmt.Sprintf("Failed to read %s", path),
				err,
			)
		}
	}

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.ConfigError("Binding flags", fmt.Sprintf("Cannot bind --%s", name), err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.ConfigError("Decoding configuration", "Configuration has unexpected types", err)
	}

	cfg.Environment = normalizeEnvironment(cfg.Environment)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validation.NewValidator().ValidateSettings(validation.SettingsData{
		Region:      cfg.Region,
		Environment: cfg.Environment,
		Backend:     cfg.Backend,
		Endpoint:    cfg.Endpoint,
		Vault:       cfg.Vault,
		Field:       cfg.Field,
		LogLevel:    cfg.Log.Level,
	}); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetEnvironment returns the lowercased ENV value, or "dev" when unset or empty.
// It is the standalone form of the env key that Load resolves.
func GetEnvironment() string {
	return normalizeEnvironment(newViper().GetString("env"))
}

func normalizeEnvironment(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		return DefaultEnvironment
	}
	return env
}
