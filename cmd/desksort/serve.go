package main

import (
	"github.com/oukeidos/desksort/internal/ipc"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the IPC channels over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLocal(opts, "serve"); err != nil {
				return err
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			addr := s.cfg.ListenAddr
			if listen != "" {
				addr = listen
			}
			ctx, stop := signalContext()
			defer stop()
			srv := ipc.NewServer(s.local.Router, s.local.Metrics)
			srv.RestrictOpenApp(s.local.Orchestrator.HasApp)
			return srv.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default listen_addr from config, 127.0.0.1:7788)")
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
