package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brizzbuzz/secretload/internal/awssm"
	"github.com/brizzbuzz/secretload/internal/config"
	"github.com/brizzbuzz/secretload/internal/credentials"
	"github.com/brizzbuzz/secretload/internal/errors"
	"github.com/brizzbuzz/secretload/internal/log"
	"github.com/brizzbuzz/secretload/internal/onepass"
	"github.com/brizzbuzz/secretload/internal/secrets"
	"github.com/brizzbuzz/secretload/internal/types"
)

type app struct {
	configFile string

	cfg     *config.Config
	log     *zap.SugaredLogger
	fetcher *secrets.Fetcher

	// overrides the backend client, set by tests
	newClient secrets.ClientFactory
}

func newApp() *app {
	return &app{}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "secretload",
		Short: "Fetch credential bundles from a managed secret store",
		Long: `secretload reads JSON credential bundles from AWS Secrets Manager
(or 1Password) and prints selected fields.

Without a subcommand it prints the app-<env>-credentials and
db-<env>-credentials bundles for the current environment (ENV, default dev).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: a.runDefault,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to JSON configuration file")
	flags.String("backend", "", "Secret store backend: aws or onepassword (default aws)")
	flags.String("region", "", "AWS region (default from AWS_REGION, else us-east-1)")
	flags.String("env", "", "Deployment environment (default from ENV, else dev)")
	flags.String("token-file", "", "Path to the 1Password service account token")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newGetCommand(a),
		newBundleCommand(a, "app", "Print the application credentials for the current environment", credentials.AppSecretName),
		newBundleCommand(a, "db", "Print the database credentials for the current environment", credentials.DBSecretName),
		newTokenCommand(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := log.New(&log.Conf{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}

	a.cfg = cfg
	a.log = logger
	a.fetcher = secrets.NewFetcher(a.clientFactory(), cfg.Region, logger, secrets.WithStoreName(storeName(cfg.Backend)))

	logger.Debugw("Configuration loaded",
		"backend", cfg.Backend,
		"region", cfg.Region,
		"env", cfg.Environment,
	)
	return nil
}

func (a *app) clientFactory() secrets.ClientFactory {
	if a.newClient != nil {
		return a.newClient
	}

	cfg := a.cfg
	if types.Backend(cfg.Backend) == types.BackendOnePassword {
		return func(ctx context.Context, _ string) (secrets.SecretClient, error) {
			client, err := onepass.NewClient(ctx, cfg.TokenFile, cfg.Vault, cfg.Field)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}

	return func(ctx context.Context, region string) (secrets.SecretClient, error) {
		client, err := awssm.NewClient(ctx, awssm.Options{
			Region:          region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, errors.WrapWithSuggestions(err, "Creating Secrets Manager client", "secret store", []string{
				"Check AWS_PROFILE names a profile in your AWS config",
				"Provide credentials via the environment, a shared profile or an instance role",
			})
		}
		return client, nil
	}
}

func storeName(backend string) string {
	if types.Backend(backend) == types.BackendOnePassword {
		return "1Password"
	}
	return "AWS"
}

// runDefault prints the app and database bundles for the current environment
func (a *app) runDefault(cmd *cobra.Command, _ []string) error {
	loader := credentials.NewLoader(a.fetcher, a.cfg.Environment)

	appCreds := loader.AppCredentials(cmd.Context())
	dbCreds := loader.DBCredentials(cmd.Context())

	return printSummary(cmd.OutOrStdout(), appCreds, dbCreds)
}
