package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/oukeidos/desksort/internal/models"
	"github.com/oukeidos/desksort/internal/render"
	"github.com/spf13/cobra"
)

func newScanCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the desktop for .lnk and .exe shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			var apps []models.AppInfo
			if err := s.invoker.Invoke(ctx, ipc.ChannelScanDesktop, nil, &apps); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.SuccessStyle.Render(fmt.Sprintf("Found %d apps.", len(apps))))
			fmt.Fprint(out, render.Apps(apps))
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newClassifyCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Ask the model to group the stored apps into categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			var outcome models.ClassifyOutcome
			if err := s.invoker.Invoke(ctx, ipc.ChannelClassifyApps, nil, &outcome); err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), outcome)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Categories(outcome.Categories, outcome.Apps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print apps and categories as JSON")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newAppsCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List stored apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			var apps []models.AppInfo
			if err := s.invoker.Invoke(cmd.Context(), ipc.ChannelGetApps, nil, &apps); err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), apps)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Apps(apps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newCategoriesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List stored categories and their apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			var cats models.CategoryMap
			if err := s.invoker.Invoke(cmd.Context(), ipc.ChannelGetCategories, nil, &cats); err != nil {
				return err
			}
			if asJSON {
				if cats == nil {
					cats = models.CategoryMap{}
				}
				return writeJSON(cmd.OutOrStdout(), cats)
			}
			var apps []models.AppInfo
			if err := s.invoker.Invoke(cmd.Context(), ipc.ChannelGetApps, nil, &apps); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Categories(cats, apps))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newOpenCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a file with its default handler and count the launch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			var ok bool
			if err := s.invoker.Invoke(cmd.Context(), ipc.ChannelOpenApp, args[0], &ok); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("could not open %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SuccessStyle.Render("Opened "+args[0]))
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show classification state and stored counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var (
				busy bool
				apps []models.AppInfo
				cats models.CategoryMap
			)
			if err := s.invoker.Invoke(ctx, ipc.ChannelGetClassificationStatus, nil, &busy); err != nil {
				return err
			}
			if err := s.invoker.Invoke(ctx, ipc.ChannelGetApps, nil, &apps); err != nil {
				return err
			}
			if err := s.invoker.Invoke(ctx, ipc.ChannelGetCategories, nil, &cats); err != nil {
				return err
			}
			lastScan := ""
			if s.local != nil {
				if lastScan, err = s.local.Store.LastScanTime(); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Status(busy, len(apps), len(cats), lastScan))
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
