package main

import (
	"fmt"

	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/prompt"
	"github.com/oukeidos/desksort/internal/render"
	"github.com/spf13/cobra"
)

var newConfirmer = prompt.DefaultConfirmer

func newResetCmd(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete stored apps, categories and open counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmer := newConfirmer()
			confirmer.Out = cmd.OutOrStdout()
			ok, err := confirmer.ConfirmReset(yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
				return nil
			}

			s, err := openSession(opts)
			if err != nil {
				return err
			}
			var done bool
			if err := s.invoker.Invoke(cmd.Context(), ipc.ChannelResetConfig, nil, &done); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SuccessStyle.Render("Store reset."))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newSaveCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Acknowledge that the store is persisted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			var ok bool
			if err := s.invoker.Invoke(cmd.Context(), ipc.ChannelSaveConfig, nil, &ok); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SuccessStyle.Render("Saved."))
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
