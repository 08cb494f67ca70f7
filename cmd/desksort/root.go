package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/desksort/internal/apperrors"
	"github.com/oukeidos/desksort/internal/cleanup"
	"github.com/oukeidos/desksort/internal/version"
	"github.com/spf13/cobra"
)

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.PublicMessage(err))
	}
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "desksort",
		Short: "Sort desktop shortcuts into categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	addGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(
		newAboutCmd(),
		newScanCmd(opts),
		newClassifyCmd(opts),
		newAppsCmd(opts),
		newCategoriesCmd(opts),
		newOpenCmd(opts),
		newStatusCmd(opts),
		newSaveCmd(opts),
		newResetCmd(opts),
		newServeCmd(opts),
		newEnvCmd(),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate the autocompletion script for the specified shell"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}
