package onepass

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/1password/onepassword-sdk-go"

	"github.com/brizzbuzz/secretload/internal/errors"
)

const (
	integrationName    = "secretload"
	integrationVersion = "v1.0.0"
)

type resolver interface {
	Resolve(ctx context.Context, secretReference string) (string, error)
}

// Client reads secrets stored as 1Password item fields. A secret named
// NAME lives in item NAME of the configured vault, field Field.
type Client struct {
	secrets resolver
	vault   string
	field   string
}

func NewClient(ctx context.Context, tokenFile, vault, field string) (*Client, error) {
	token, err := GetToken(tokenFile)
	if err != nil {
		return nil, err
	}

	client, err := onepassword.NewClient(ctx,
		onepassword.WithServiceAccountToken(token),
		onepassword.WithIntegrationInfo(integrationName, integrationVersion),
	)
	if err != nil {
		return nil, errors.TokenError("Failed to authenticate with 1Password", tokenFile, err)
	}

	return newClient(client.Secrets, vault, field), nil
}

func newClient(r resolver, vault, field string) *Client {
	return &Client{secrets: r, vault: vault, field: field}
}

// Reference returns the secret reference for a secret name
func (c *Client) Reference(name string) string {
	return fmt.Sprintf("op://%s/%s/%s", c.vault, name, c.field)
}

func (c *Client) GetSecretString(ctx context.Context, name string) (string, error) {
	value, err := c.secrets.Resolve(ctx, c.Reference(name))
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "not found") || strings.Contains(msg, "no item") || strings.Contains(msg, "isn't an item") {
			return "", errors.NotFoundError(name, "", err)
		}
		return "", errors.ClientError(name, "", err.Error(), err)
	}

	if value == "" {
		return "", errors.EmptyPayloadError(name)
	}

	return value, nil
}

// GetToken reads the service account token from OP_SERVICE_ACCOUNT_TOKEN,
// falling back to tokenFile.
func GetToken(tokenFile string) (string, error) {
	if token := os.Getenv("OP_SERVICE_ACCOUNT_TOKEN"); token != "" {
		return strings.TrimSpace(token), nil
	}

	if tokenFile != "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", errors.TokenError("Failed to read token file", tokenFile, err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", errors.TokenError("Token file is empty", tokenFile, nil)
		}
		return token, nil
	}

	return "", errors.TokenError("No token provided: set OP_SERVICE_ACCOUNT_TOKEN or provide token file", tokenFile, nil)
}
