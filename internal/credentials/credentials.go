package credentials

import (
	"context"
	"fmt"

	"github.com/brizzbuzz/secretload/internal/types"
)

const (
	AppTemplate = "app-%s-credentials"
	DBTemplate  = "db-%s-credentials"
)

// Getter is the lossy secret lookup the helpers delegate to
type Getter interface {
	GetSecret(ctx context.Context, name, region string) types.Secret
}

func AppSecretName(env string) string {
	return fmt.Sprintf(AppTemplate, env)
}

func DBSecretName(env string) string {
	return fmt.Sprintf(DBTemplate, env)
}

// Loader fetches the per-environment credential bundles
type Loader struct {
	getter Getter
	env    string
}

func NewLoader(getter Getter, env string) *Loader {
	return &Loader{getter: getter, env: env}
}

func (l *Loader) Environment() string { return l.env }

// AppCredentials fetches app-<env>-credentials from the default region
func (l *Loader) AppCredentials(ctx context.Context) types.Secret {
	return l.getter.GetSecret(ctx, AppSecretName(l.env), "")
}

// DBCredentials fetches db-<env>-credentials from the default region.
// Expected keys: username, password, host, port, dbname.
func (l *Loader) DBCredentials(ctx context.Context) types.Secret {
	return l.getter.GetSecret(ctx, DBSecretName(l.env), "")
}
