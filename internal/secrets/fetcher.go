package secrets

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/brizzbuzz/secretload/internal/errors"
	"github.com/brizzbuzz/secretload/internal/types"
	"github.com/brizzbuzz/secretload/internal/validation"
)

// SecretClient returns the raw SecretString payload of a named secret
type SecretClient interface {
	GetSecretString(ctx context.Context, name string) (string, error)
}

// ClientFactory builds a SecretClient for region
type ClientFactory func(ctx context.Context, region string) (SecretClient, error)

type Fetcher struct {
	newClient     ClientFactory
	defaultRegion string
	storeName     string
	validator     *validation.Validator
	log           *zap.SugaredLogger
}

type Option func(*Fetcher)

// WithStoreName sets the store label used in client error log lines
func WithStoreName(name string) Option {
	return func(f *Fetcher) { f.storeName = name }
}

func NewFetcher(newClient ClientFactory, defaultRegion string, logger *zap.SugaredLogger, opts ...Option) *Fetcher {
	f := &Fetcher{
		newClient:     newClient,
		defaultRegion: defaultRegion,
		storeName:     "AWS",
		validator:     validation.NewValidator(),
		log:           logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) DefaultRegion() string { return f.defaultRegion }

// Fetch looks up name in region (the default region when empty) and parses
// the payload. Every error is a classified *errors.SecretError.
func (f *Fetcher) Fetch(ctx context.Context, name, region string) (types.Secret, error) {
	if region == "" {
		region = f.defaultRegion
	}

	if err := f.validator.ValidateSecretName(name); err != nil {
		return nil, err
	}

	// A fresh client per lookup, nothing is cached
	client, err := f.newClient(ctx, region)
	if err != nil {
		return nil, errors.UnexpectedError(name, err)
	}

	payload, err := client.GetSecretString(ctx, name)
	if err != nil {
		if errors.KindOf(err) == errors.KindUnknown {
			err = errors.UnexpectedError(name, err)
		}
		return nil, err
	}

	return Parse(name, payload)
}

// GetSecret is Fetch with every failure logged and mapped to an empty Secret.
func (f *Fetcher) GetSecret(ctx context.Context, name, region string) types.Secret {
	if region == "" {
		region = f.defaultRegion
	}

	secret, err := f.Fetch(ctx, name, region)
	if err != nil {
		f.logFailure(name, region, err)
		return types.Secret{}
	}

	f.log.Debugw("Fetched secret", "secret", name, "region", region, "keys", len(secret))
	return secret
}

func (f *Fetcher) logFailure(name, region string, err error) {
	kind := errors.KindOf(err)

	switch kind {
	case errors.KindNotFound:
		f.log.Warnw(fmt.Sprintf("Secret %s not found in region %s", name, region),
			"secret", name, "region", region)
	case errors.KindClient:
		f.log.Errorw(fmt.Sprintf("%s ClientError: %s", f.storeName, detail(err)),
			"secret", name, "region", region)
	case errors.KindInvalidJSON:
		f.log.Errorw(fmt.Sprintf("Secret %s is not a valid JSON string", name),
			"secret", name, "error", detail(err))
	default:
		f.log.Errorw(fmt.Sprintf("Unexpected error fetching secret %s: %s", name, detail(err)),
			"secret", name, "region", region, "kind", kind.String())
	}
}

// detail returns a one-line description of err for log messages
func detail(err error) string {
	var se *errors.SecretError
	if !stderrors.As(err, &se) {
		return err.Error()
	}
	if (se.Kind == errors.KindUnexpected || se.Kind == errors.KindInvalidJSON) && se.Cause != nil {
		return detail(se.Cause)
	}
	return se.Issue
}
