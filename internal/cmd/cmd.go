package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RootCmd returns the wheelhost command tree.
func RootCmd(appBuilder *AppBuilder) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wheelhost",
		Short:         "wheelhost serves the spin wheel commands",
		Long:          "wheelhost is the backend of the spin wheel picker. It dispatches named commands over HTTP, to WebAssembly guests, or one at a time from the shell.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			appBuilder.
				WithConfigPath(cmd.Flag("config").Value.String()).
				WithLogLevel(cmd.Flag("log-level").Value.String())
			return appBuilder.Build(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return appBuilder.Close()
		},
	}

	rootFlags := pflag.NewFlagSet("root", pflag.ContinueOnError)
	rootFlags.StringP("config", "c", "", "Path to config file (default: <user config dir>/wheelhost/config.yaml)")
	rootFlags.String("log-level", "", "Override the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().AddFlagSet(rootFlags)

	rootCmd.AddCommand(serveCmd(appBuilder))
	rootCmd.AddCommand(invokeCmd(appBuilder))
	rootCmd.AddCommand(commandsCmd(appBuilder))
	rootCmd.AddCommand(schemaCmd(appBuilder))
	rootCmd.AddCommand(runWasmCmd(appBuilder))

	return rootCmd
}
