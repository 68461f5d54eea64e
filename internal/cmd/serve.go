package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wheelkit/wheelhost/transport/httpbridge"
)

func serveCmd(appBuilder *AppBuilder) *cobra.Command {
	var maxBody int64

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve commands over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appBuilder.App()
			cfg := app.Config.Server
			if cmd.Flags().Changed("max-body") {
				cfg.MaxBodySize = maxBody
			}

			srv := httpbridge.NewServer(httpbridge.ServerConfig{
				Host:           cfg.Host,
				Port:           cfg.Port,
				ReadTimeout:    cfg.ReadTimeout,
				WriteTimeout:   cfg.WriteTimeout,
				MaxBodySize:    cfg.MaxBodySize,
				AllowedOrigins: cfg.AllowedOrigins,
			}, app.Registry, app.Logger.With("component", "http"))
			return srv.Start(cmd.Context())
		},
	}
	serveCmd.Flags().Int64Var(&maxBody, "max-body", 1<<20, "Maximum request body size in bytes (0 for unlimited), overrides server.max_body_size")

	return serveCmd
}
