package validation

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/brizzbuzz/secretload/internal/errors"
	"github.com/brizzbuzz/secretload/internal/types"
)

const (
	maxSecretNameLength = 512
	maxSecretARNLength  = 2048
)

var (
	secretNamePattern  = regexp.MustCompile(`^[A-Za-z0-9/_+=.@-]+$`)
	secretARNPattern   = regexp.MustCompile(`^arn:aws[a-z-]*:secretsmanager:[a-z0-9-]+:[0-9]{12}:secret:[A-Za-z0-9/_+=.@-]+$`)
	regionPattern      = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
	environmentPattern = regexp.MustCompile(`^[a-z0-9/_+=.@-]+$`)
	logLevels          = []string{"debug", "info", "warn", "error"}
)

// Validator provides comprehensive validation with helpful error messages
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// SettingsData is the subset of configuration that needs validation
type SettingsData struct {
	Region      string
	Environment string
	Backend     string
	Endpoint    string
	Vault       string
	Field       string
	LogLevel    string
}

// ValidateSettings validates a loaded configuration
func (v *Validator) ValidateSettings(s SettingsData) error {
	if err := v.ValidateBackend(s.Backend); err != nil {
		return err
	}

	if err := v.ValidateEnvironment(s.Environment); err != nil {
		return err
	}

	if err := v.validateLogLevel(s.LogLevel); err != nil {
		return err
	}

	switch types.Backend(s.Backend) {
	case types.BackendAWS:
		if err := v.ValidateRegion(s.Region); err != nil {
			return err
		}
		if err := v.ValidateEndpoint(s.Endpoint); err != nil {
			return err
		}
	case types.BackendOnePassword:
		if s.Vault == "" {
			return errors.ConfigValidationError(
				"vault",
				"<empty>",
				"The onepassword backend needs a vault",
				[]string{
					"Set SECRETLOAD_OP_VAULT to the vault holding the secrets",
					"List available vaults: op vault list",
				},
			)
		}
		// A representative reference catches bad vault and field names early
		if err := v.ValidateReference(fmt.Sprintf("op://%s/item/%s", s.Vault, s.Field)); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSecretName checks a secret id against the secret store rules.
// Both plain names and full or partial secret ARNs are accepted.
func (v *Validator) ValidateSecretName(name string) error {
	if strings.HasPrefix(name, "arn:") {
		return v.validateSecretARN(name)
	}

	if name == "" {
		return errors.ValidationError(
			"Validating secret name",
			"name",
			"<empty>",
			"1-512 characters of letters, digits and /_+=.@-",
		)
	}

	if len(name) > maxSecretNameLength {
		return errors.ValidationError(
			"Validating secret name",
			"name",
			name[:32]+"...",
			fmt.Sprintf("at most %d characters", maxSecretNameLength),
		)
	}

	if !secretNamePattern.MatchString(name) {
		return errors.ValidationError(
			"Validating secret name",
			"name",
			name,
			"letters, digits and /_+=.@-",
		)
	}

	return nil
}

func (v *Validator) validateSecretARN(arn string) error {
	if len(arn) > maxSecretARNLength || !secretARNPattern.MatchString(arn) {
		return errors.ValidationError(
			"Validating secret ARN",
			"name",
			arn,
			"arn:<partition>:secretsmanager:<region>:<account>:secret:<name>",
		)
	}

	return nil
}

// ValidateRegion checks the shape of an AWS region name
func (v *Validator) ValidateRegion(region string) error {
	if !regionPattern.MatchString(region) {
		return errors.ConfigValidationError(
			"region",
			region,
			"Invalid AWS region",
			[]string{
				"Use a region code such as us-east-1 or eu-west-2",
				"Set AWS_REGION or pass --region",
			},
		)
	}

	return nil
}

// ValidateEnvironment checks the environment tag used in secret names
func (v *Validator) ValidateEnvironment(env string) error {
	if !environmentPattern.MatchString(env) {
		return errors.ConfigValidationError(
			"env",
			env,
			"Environment tag must be lowercase letters, digits or /_+=.@-",
			[]string{
				"Set ENV to a tag such as dev, staging or prod",
			},
		)
	}

	return nil
}

// ValidateBackend checks that backend names a supported secret store
func (v *Validator) ValidateBackend(backend string) error {
	names := make([]string, 0, len(types.Backends))
	for _, b := range types.Backends {
		if string(b) == backend {
			return nil
		}
		names = append(names, string(b))
	}

	return errors.ConfigValidationError(
		"backend",
		backend,
		"Unsupported secret store backend",
		[]string{
			fmt.Sprintf("Use one of: %s", strings.Join(names, ", ")),
		},
	)
}

// ValidateEndpoint checks an optional endpoint override
func (v *Validator) ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigValidationError(
			"endpoint",
			endpoint,
			"Endpoint must be an absolute http(s) URL",
			[]string{
				"Example: http://localhost:4566",
				"Unset AWS_ENDPOINT_URL to use the regional endpoint",
			},
		)
	}

	return nil
}

// ValidateReference validates a 1Password secret reference
func (v *Validator) ValidateReference(reference string) error {
	if reference == "" {
		return errors.ConfigValidationError(
			"reference",
			"<empty>",
			"Reference cannot be empty",
			[]string{
				"Add a valid 1Password reference: op://Vault/Item/field",
			},
		)
	}

	if !strings.HasPrefix(reference, "op://") {
		return errors.ConfigValidationError(
			"reference",
			reference,
			"Invalid 1Password reference format",
			[]string{
				"Use format: op://Vault/Item/field or op://Vault/Item/Section/field",
				"Ensure vault, item, and field names don't contain forward slashes",
			},
		)
	}

	parts := strings.Split(strings.TrimPrefix(reference, "op://"), "/")
	if len(parts) < 3 {
		return errors.ConfigValidationError(
			"reference",
			reference,
			"Reference must have at least 3 parts: vault/item/field",
			[]string{
				"Verify the reference format: op://Vault/Item/field",
				"Check for missing forward slashes",
			},
		)
	}

	vault, item := parts[0], parts[1]
	field := parts[len(parts)-1] // Field is always the last part

	if vault == "" {
		return errors.ConfigValidationError(
			"reference",
			reference,
			"Vault name cannot be empty",
			[]string{
				"Specify a valid vault name in the reference",
				"List available vaults: op vault list",
			},
		)
	}

	if item == "" {
		return errors.ConfigValidationError(
			"reference",
			reference,
			"Item name cannot be empty",
			[]string{
				fmt.Sprintf("List items in vault: op item list --vault '%s'", vault),
			},
		)
	}

	if field == "" {
		return errors.ConfigValidationError(
			"reference",
			reference,
			"Field name cannot be empty",
			[]string{
				fmt.Sprintf("View item details: op item get '%s' --vault '%s'", item, vault),
			},
		)
	}

	return nil
}

func (v *Validator) validateLogLevel(level string) error {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return nil
		}
	}

	return errors.ValidationError(
		"Validating log level",
		"log.level",
		level,
		strings.Join(logLevels, ", "),
	)
}

// ValidateTokenFile validates the token file exists, is non-empty and is not world readable
func (v *Validator) ValidateTokenFile(tokenPath string) error {
	info, err := os.Stat(tokenPath)
	if os.IsNotExist(err) {
		return errors.TokenError(
			fmt.Sprintf("Token file does not exist: %s", tokenPath),
			tokenPath,
			err,
		)
	}
	if err != nil {
		return errors.TokenError(
			fmt.Sprintf("Cannot stat token file: %s", err.Error()),
			tokenPath,
			err,
		)
	}

	content, err := os.ReadFile(tokenPath)
	if err != nil {
		return errors.TokenError(
			fmt.Sprintf("Cannot read token file: %s", err.Error()),
			tokenPath,
			err,
		)
	}

	if len(strings.TrimSpace(string(content))) == 0 {
		return errors.TokenError(
			"Token file is empty",
			tokenPath,
			nil,
		)
	}

	if info.Mode().Perm()&0004 != 0 {
		return errors.TokenError(
			fmt.Sprintf("Token file is world readable (mode %04o)", info.Mode().Perm()),
			tokenPath,
			nil,
		)
	}

	return nil
}
