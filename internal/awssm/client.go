package awssm

import (
	"context"
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"

	"github.com/brizzbuzz/secretload/internal/errors"
)

// Options configures a Secrets Manager client.
type Options struct {
	Region   string
	Endpoint string // optional, e.g. a local emulator

	// Static credentials, used only when both are set. Otherwise the
	// default credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
}

type secretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Client struct {
	api    secretValueAPI
	region string
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts, config.WithBaseEndpoint(opts.Endpoint))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     opts.AccessKeyID,
				SecretAccessKey: opts.SecretAccessKey,
			},
		}))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return newClient(secretsmanager.NewFromConfig(cfg), opts.Region), nil
}

func newClient(api secretValueAPI, region string) *Client {
	return &Client{api: api, region: region}
}

func (c *Client) Region() string { return c.region }

// GetSecretString returns the SecretString of the named secret. Errors are
// classified as not found, client (any other API error) or unexpected.
func (c *Client) GetSecretString(ctx context.Context, name string) (string, error) {
	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", classify(name, c.region, err)
	}

	value := aws.ToString(out.SecretString)
	if value == "" {
		return "", errors.EmptyPayloadError(name)
	}

	return value, nil
}

func classify(name, region string, err error) error {
	var notFound *types.ResourceNotFoundException
	if stderrors.As(err, &notFound) {
		return errors.NotFoundError(name, region, err)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		return errors.ClientError(name, apiErr.ErrorCode(), apiErr.ErrorMessage(), err)
	}

	return errors.UnexpectedError(name, err)
}
