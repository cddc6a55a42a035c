package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a SecretError so callers can tell failure modes apart
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindClient
	KindInvalidJSON
	KindEmptyPayload
	KindUnexpected
	KindConfig
	KindValidation
	KindToken
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindClient:
		return "client error"
	case KindInvalidJSON:
		return "invalid json"
	case KindEmptyPayload:
		return "empty payload"
	case KindUnexpected:
		return "unexpected"
	case KindConfig:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindToken:
		return "token"
	default:
		return "unknown"
	}
}

// SecretError represents a structured error with context and suggestions
type SecretError struct {
	Kind        Kind     // Failure class
	Operation   string   // What operation was being performed
	Component   string   // Which component failed (config, secret store, etc.)
	Issue       string   // The core issue description
	Context     string   // Additional context about the failure
	Suggestions []string // List of actionable suggestions to fix the issue
	Cause       error    // Underlying error that caused this
}

func (e *SecretError) Error() string {
	var parts []string

	if e.Operation != "" && e.Component != "" {
		parts = append(parts, fmt.Sprintf("ERROR: %s failed in %s", e.Operation, e.Component))
	} else if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("ERROR: %s failed", e.Operation))
	} else {
		parts = append(parts, "ERROR: Operation failed")
	}

	if e.Issue != "" {
		parts = append(parts, fmt.Sprintf("  Issue: %s", e.Issue))
	}

	if e.Context != "" {
		parts = append(parts, fmt.Sprintf("  Context: %s", e.Context))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("  Cause: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		parts = append(parts, "")
		parts = append(parts, "  Suggestions:")
		for i, suggestion := range e.Suggestions {
			parts = append(parts, fmt.Sprintf("  %d. %s", i+1, suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

func (e *SecretError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether any SecretError in err's chain has the given kind
func IsKind(err error, kind Kind) bool {
	var se *SecretError
	for err != nil {
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Kind == kind {
			return true
		}
		err = se.Cause
	}
	return false
}

// KindOf returns the kind of the outermost SecretError in err's chain
func KindOf(err error) Kind {
	var se *SecretError
	if stderrors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Secret store errors

// NotFoundError reports a secret that does not exist in the store
func NotFoundError(name, region string, cause error) *SecretError {
	ctx := fmt.Sprintf("Secret name: %s", name)
	if region != "" {
		ctx = fmt.Sprintf("Secret name: %s, region: %s", name, region)
	}

	return &SecretError{
		Kind:      KindNotFound,
		Operation: "Fetching secret",
		Component: "secret store",
		Issue:     fmt.Sprintf("Secret %s not found", name),
		Context:   ctx,
		Suggestions: []string{
			"Verify the secret name and the environment tag (ENV)",
			"Check that AWS_REGION points at the region holding the secret",
			"List secrets: aws secretsmanager list-secrets --region <region>",
		},
		Cause: cause,
	}
}

// ClientError reports an error returned by the secret store API
func ClientError(name, code, message string, cause error) *SecretError {
	suggestions := []string{}

	switch {
	case strings.Contains(code, "AccessDenied"), strings.Contains(code, "UnrecognizedClient"),
		strings.Contains(code, "InvalidSignature"), strings.Contains(code, "ExpiredToken"):
		suggestions = append(suggestions,
			"Verify the active AWS credentials: aws sts get-caller-identity",
			"Ensure the principal is allowed secretsmanager:GetSecretValue on the secret",
			"Check KMS key permissions if the secret uses a customer managed key",
		)
	case strings.Contains(code, "Throttling"), strings.Contains(code, "LimitExceeded"):
		suggestions = append(suggestions,
			"Wait a few seconds before retrying",
			"Reduce the number of concurrent secret requests",
		)
	case strings.Contains(code, "Decryption"):
		suggestions = append(suggestions,
			"Check that the KMS key used by the secret is enabled",
		)
	}

	issue := message
	if code != "" {
		issue = fmt.Sprintf("%s: %s", code, message)
	}

	return &SecretError{
		Kind:        KindClient,
		Operation:   "Fetching secret",
		Component:   "secret store",
		Issue:       issue,
		Context:     fmt.Sprintf("Secret name: %s", name),
		Suggestions: suggestions,
		Cause:       cause,
	}
}

// InvalidJSONError reports a payload that is not a JSON object
func InvalidJSONError(name string, cause error) *SecretError {
	return &SecretError{
		Kind:      KindInvalidJSON,
		Operation: "Parsing secret",
		Component: "decoding",
		Issue:     fmt.Sprintf("Secret %s is not a valid JSON string", name),
		Suggestions: []string{
			"Store the secret as a JSON object of key/value pairs",
			`Example: {"username": "app", "password": "..."}`,
		},
		Cause: cause,
	}
}

// EmptyPayloadError reports a secret without a SecretString
func EmptyPayloadError(name string) *SecretError {
	return &SecretError{
		Kind:      KindEmptyPayload,
		Operation: "Fetching secret",
		Component: "secret store",
		Issue:     fmt.Sprintf("Secret %s has no SecretString", name),
		Suggestions: []string{
			"Binary secrets are not supported, store the value as a string",
		},
	}
}

// UnexpectedError wraps any failure that does not fit the other kinds
func UnexpectedError(name string, cause error) *SecretError {
	return &SecretError{
		Kind:      KindUnexpected,
		Operation: "Fetching secret",
		Component: "secret store",
		Issue:     fmt.Sprintf("Unexpected error fetching secret %s", name),
		Cause:     cause,
	}
}

// Configuration errors

// ConfigError creates errors related to configuration parsing and validation
func ConfigError(operation, issue string, cause error) *SecretError {
	return &SecretError{
		Kind:      KindConfig,
		Operation: operation,
		Component: "configuration",
		Issue:     issue,
		Cause:     cause,
	}
}

// ConfigValidationError creates detailed validation errors with suggestions
func ConfigValidationError(field, value, issue string, suggestions []string) *SecretError {
	return &SecretError{
		Kind:        KindValidation,
		Operation:   "Configuration validation",
		Component:   "configuration",
		Issue:       issue,
		Context:     fmt.Sprintf("Field '%s' has value '%s'", field, value),
		Suggestions: suggestions,
	}
}

// ValidationError creates general validation errors
func ValidationError(operation, field, value, expectedFormat string) *SecretError {
	return &SecretError{
		Kind:      KindValidation,
		Operation: operation,
		Component: "validation",
		Issue:     fmt.Sprintf("Invalid value '%s' for field '%s'", value, field),
		Context:   fmt.Sprintf("Expected format: %s", expectedFormat),
		Suggestions: []string{
			fmt.Sprintf("Update field '%s' to match the expected format", field),
			"Check the documentation for valid values",
		},
	}
}

// TokenError creates 1Password token errors with setup instructions
func TokenError(issue, tokenPath string, cause error) *SecretError {
	suggestions := []string{
		"Set up your 1Password service account token:",
		"  1. Visit https://my.1password.com/developer-tools/infrastructure-secrets",
		"  2. Create a new service account",
		"  3. Copy the token and run: secretload token set",
		fmt.Sprintf("  4. Or manually create file: echo 'your-token' | sudo tee %s", tokenPath),
		fmt.Sprintf("  5. Set correct permissions: sudo chmod 640 %s", tokenPath),
	}

	return &SecretError{
		Kind:        KindToken,
		Operation:   "Token access",
		Component:   "authentication",
		Issue:       issue,
		Context:     fmt.Sprintf("Token file: %s", tokenPath),
		Suggestions: suggestions,
		Cause:       cause,
	}
}

// WrapWithSuggestions wraps an error and adds suggestions
func WrapWithSuggestions(err error, operation, component string, suggestions []string) error {
	if err == nil {
		return nil
	}

	return &SecretError{
		Kind:        KindOf(err),
		Operation:   operation,
		Component:   component,
		Issue:       err.Error(),
		Suggestions: suggestions,
		Cause:       err,
	}
}
