package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oukeidos/desksort/internal/auth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	saveKey      = auth.SaveKey
	deleteKey    = auth.DeleteKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage the API key in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd)
		},
	}

	cmd.SetUsageTemplate(envUsageTemplate)
	cmd.AddCommand(
		newEnvSetupCmd(),
		newEnvDeleteCmd(),
		newEnvStatusCmd(),
	)
	return cmd
}

func newEnvSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save API key to keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvSetup(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete key from keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvDelete(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newEnvStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the API key would come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runEnvSetup(cmd *cobra.Command) error {
	if !isTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("env setup needs an interactive terminal")
	}
	key, err := promptForKey("API Key: ")
	if err != nil {
		return fmt.Errorf("error reading API key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("no key entered")
	}
	if err := saveKey(key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Saved API key to keychain.")
	return nil
}

func runEnvDelete(cmd *cobra.Command) error {
	if err := deleteKey(); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Deleted API key from keychain.")
	return nil
}

func runEnvStatus(cmd *cobra.Command) error {
	if getStatus() {
		fmt.Fprintln(cmd.OutOrStdout(), "API Key: Found (source=Keychain)")
		return nil
	}
	if envKey, ok := getEnvKey(); ok && envKey != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "API Key: Found (source=%s %s)\n", auth.SourceEnv, auth.EnvVar)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API Key: Not Found (keychain empty, %s not set)\n", auth.EnvVar)
	return nil
}
