package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wheelkit/wheelhost/host"
	"github.com/wheelkit/wheelhost/infrastructure/wazero"
)

// ExitError reports a guest's non-zero exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("guest exited with code %d", e.Code)
}

func runWasmCmd(appBuilder *AppBuilder) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run-wasm <file.wasm> [args...]",
		Short: "Run a WASI guest with the commands imported from the host",
		Long: `Run a WASI command module. Every registered command is importable from the
configured host module (default "wheel_host") as func(i64) i64, and slog
records can be forwarded through log_message.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appBuilder.App()

			wasmBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read guest: %w", err)
			}

			ctx := cmd.Context()
			exec, err := host.NewExecutor(ctx,
				host.WithHostFunctions(app.Registry),
				host.WithLogger(app.Logger),
				host.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
				host.WithAdapterOptions(
					wazero.WithModuleName(app.Config.Wasm.ModuleName),
					wazero.WithMaxRequestSize(app.Config.Wasm.MaxRequestSize),
				),
			)
			if err != nil {
				return err
			}
			defer exec.Close(ctx)

			name := filepath.Base(args[0])
			code, err := exec.Run(ctx, name, wasmBytes, args[1:]...)
			if err != nil {
				return err
			}
			if code != 0 {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
	// Flags after the guest path belong to the guest.
	runCmd.Flags().SetInterspersed(false)

	return runCmd
}
