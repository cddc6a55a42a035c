package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/brizzbuzz/secretload/internal/types"
)

type getOptions struct {
	key    string
	strict bool
}

func newGetCommand(a *app) *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Fetch a secret by name and print it as JSON",
		Long: `Fetch a secret by name and print it as a JSON object, or a single
field with --key. Failures print an empty result unless --strict is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(a, cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.key, "key", "", "Print only this field")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error instead of printing an empty result")

	return cmd
}

func runGet(a *app, cmd *cobra.Command, name string, opts *getOptions) error {
	var secret types.Secret

	if opts.strict {
		s, err := a.fetcher.Fetch(cmd.Context(), name, "")
		if err != nil {
			return err
		}
		secret = s
		if opts.key != "" && !secret.Has(opts.key) {
			return fmt.Errorf("key %q not found in secret %s", opts.key, name)
		}
	} else {
		secret = a.fetcher.GetSecret(cmd.Context(), name, "")
	}

	out := cmd.OutOrStdout()
	if opts.key != "" {
		_, err := fmt.Fprintln(out, secret.Get(opts.key))
		return err
	}
	return printJSON(out, secret)
}

// newBundleCommand prints one per-environment bundle; nameFor composes its secret name
func newBundleCommand(a *app, use, short string, nameFor func(env string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := a.fetcher.GetSecret(cmd.Context(), nameFor(a.cfg.Environment), "")
			return printFields(cmd.OutOrStdout(), secret)
		},
	}
}

func printJSON(w io.Writer, secret types.Secret) error {
	if secret == nil {
		secret = types.Secret{}
	}
	// ConfigStd sorts keys like encoding/json
	data, err := sonic.ConfigStd.MarshalIndent(secret, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printFields(w io.Writer, secret types.Secret) error {
	for _, k := range secret.Keys() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, secret.Get(k)); err != nil {
			return err
		}
	}
	return nil
}

// printSummary prints the fields the default command reports
func printSummary(w io.Writer, appCreds, dbCreds types.Secret) error {
	db := dbCreds.Database()

	lines := []struct{ label, value string }{
		{"App username", appCreds.Get("username")},
		{"App password", appCreds.Get("password")},
		{"DB username", db.Username},
		{"DB password", db.Password},
		{"DB host", db.Host},
		{"DB port", db.Port},
		{"DB name", db.DBName},
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}
