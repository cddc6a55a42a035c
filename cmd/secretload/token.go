package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brizzbuzz/secretload/internal/config"
	"github.com/brizzbuzz/secretload/internal/validation"
)

const tokenFileMode = 0600

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the 1Password service account token",
		// the token commands don't need a loaded configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	var path string
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the service account token",
		Long:  "Read a 1Password service account token from stdin and store it with mode 0600",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setToken(path, cmd.InOrStdin(), cmd.ErrOrStderr())
		},
	}
	set.Flags().StringVar(&path, "path", config.DefaultTokenPath, "Path to store the token file")

	cmd.AddCommand(set)
	return cmd
}

// checkWritePermissions verifies we can write to the directory
func checkWritePermissions(path string) error {
	dir := filepath.Dir(path)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}

	// Test write permissions by attempting to create a temporary file
	tmpFile := filepath.Join(dir, ".secretload-write-test")
	f, err := os.OpenFile(tmpFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("insufficient permissions to write to %s. Try running with sudo", dir)
		}
		return fmt.Errorf("cannot write to directory %s: %w", dir, err)
	}
	_ = f.Close()
	_ = os.Remove(tmpFile)

	return nil
}

func setToken(path string, in io.Reader, prompt io.Writer) error {
	// Check permissions before prompting for input
	if err := checkWritePermissions(path); err != nil {
		return err
	}

	fmt.Fprintf(prompt, "Please paste your 1Password service account token (press Enter when done):\n")

	reader := bufio.NewReader(in)
	token, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || token == "") {
		return fmt.Errorf("error reading input: %w", err)
	}

	tokenStr := strings.TrimSpace(token)
	if tokenStr == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := os.WriteFile(path, []byte(tokenStr), tokenFileMode); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, tokenFileMode); err != nil {
		return fmt.Errorf("failed to secure token file: %w", err)
	}

	if err := validation.NewValidator().ValidateTokenFile(path); err != nil {
		return err
	}

	fmt.Fprintf(prompt, "Token successfully stored at %s\n", path)
	return nil
}
