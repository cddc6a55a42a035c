package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/brizzbuzz/secretload/internal/errors"
)

// clearEnv unsets every variable Load reads so host settings don't leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Region != DefaultRegion {
		t.Errorf("Expected region %s, got %s", DefaultRegion, cfg.Region)
	}
	if cfg.Environment != DefaultEnvironment {
		t.Errorf("Expected env %s, got %s", DefaultEnvironment, cfg.Environment)
	}
	if cfg.Backend != "aws" {
		t.Errorf("Expected backend aws, got %s", cfg.Backend)
	}
	if cfg.Field != DefaultField {
		t.Errorf("Expected field %s, got %s", DefaultField, cfg.Field)
	}
	if cfg.TokenFile != DefaultTokenPath {
		t.Errorf("Expected token file %s, got %s", DefaultTokenPath, cfg.TokenFile)
	}
	if cfg.Log.Output != "stdout" {
		t.Errorf("Expected log output stdout, got %s", cfg.Log.Output)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("ENV", "Staging")
	t.Setenv("SECRETLOAD_LOG_LEVEL", "DEBUG")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Region != "eu-west-1" {
		t.Errorf("Expected region eu-west-1, got %s", cfg.Region)
	}
	if cfg.Environment != "staging" {
		t.Errorf("Expected env staging, got %s", cfg.Environment)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoad_DottedEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "EU.Prod")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Environment != "eu.prod" {
		t.Errorf("Expected env eu.prod, got %s", cfg.Environment)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	configData := `{
        "region": "ap-southeast-2",
        "env": "prod",
        "endpoint": "http://localhost:4566",
        "log": {"level": "warn", "format": "json"}
    }`

	if err := os.WriteFile(configPath, []byte(configData), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Region != "ap-southeast-2" {
		t.Errorf("Expected region ap-southeast-2, got %s", cfg.Region)
	}
	if cfg.Environment != "prod" {
		t.Errorf("Expected env prod, got %s", cfg.Environment)
	}
	if cfg.Endpoint != "http://localhost:4566" {
		t.Errorf("Expected endpoint override, got %s", cfg.Endpoint)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}

	// Environment variables win over the file
	t.Setenv("AWS_REGION", "us-west-2")
	cfg, err = Load(configPath, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Region != "us-west-2" {
		t.Errorf("Expected env region us-west-2 to win, got %s", cfg.Region)
	}
}

func TestLoad_Flags(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("region", "", "")
	flags.String("backend", "", "")
	flags.String("log-level", "", "")

	// Unchanged flags don't shadow the environment
	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Expected region eu-west-1, got %s", cfg.Region)
	}

	if err := flags.Parse([]string{"--region", "us-west-1"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	cfg, err = Load("", flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Region != "us-west-1" {
		t.Errorf("Expected flag region us-west-1, got %s", cfg.Region)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.json", nil)
		if !errors.IsKind(err, errors.KindConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		_, err := Load(path, nil)
		if !errors.IsKind(err, errors.KindConfig) {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("invalid backend", func(t *testing.T) {
		t.Setenv("SECRETLOAD_BACKEND", "gcp")
		_, err := Load("", nil)
		if !errors.IsKind(err, errors.KindValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("onepassword needs vault", func(t *testing.T) {
		t.Setenv("SECRETLOAD_BACKEND", "onepassword")
		_, err := Load("", nil)
		if !errors.IsKind(err, errors.KindValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}

		t.Setenv("SECRETLOAD_OP_VAULT", "Homelab")
		if _, err := Load("", nil); err != nil {
			t.Errorf("Expected onepassword config to load, got %v", err)
		}
	})
}

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		expected string
	}{
		{"unset", "", false, "dev"},
		{"empty", "", true, "dev"},
		{"lowercase", "staging", true, "staging"},
		{"mixed case", "PrOd", true, "prod"},
		{"dotted", "EU.Prod", true, "eu.prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", tt.value)
			if !tt.set {
				os.Unsetenv("ENV")
			}

			if got := GetEnvironment(); got != tt.expected {
				t.Errorf("GetEnvironment() = %q, expected %q", got, tt.expected)
			}

			// Load resolves the same env key
			cfg, err := Load("", nil)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if cfg.Environment != tt.expected {
				t.Errorf("Load env = %q, expected %q", cfg.Environment, tt.expected)
			}
		})
	}
}
