package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wheelkit/wheelhost/application/schema"
	"github.com/wheelkit/wheelhost/hostfuncs"
)

// CommandError carries a failure envelope out of the invoke subcommand.
type CommandError struct {
	Response hostfuncs.ErrorResponse
}

func (e *CommandError) Error() string {
	return e.Response.Message
}

func invokeCmd(appBuilder *AppBuilder) *cobra.Command {
	var fromStdin bool

	invokeCmd := &cobra.Command{
		Use:   "invoke <command> [json]",
		Short: "Invoke one command and print its result",
		Example: `  wheelhost invoke greet '{"name":"Ada"}'
  wheelhost invoke read_file_base64 '{"path":"photo.png"}'
  echo '{"rotation":90}' | wheelhost invoke wheel_spin --stdin`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			switch {
			case fromStdin:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				payload = data
			case len(args) == 2:
				payload = []byte(args[1])
			}

			value, errResp := appBuilder.App().Registry.Call(cmd.Context(), args[0], payload)
			if errResp != nil {
				return &CommandError{Response: *errResp}
			}
			return printJSON(cmd.OutOrStdout(), value)
		},
	}
	invokeCmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the request JSON from standard input")

	return invokeCmd
}

func commandsCmd(appBuilder *AppBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List registered commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(appBuilder.App().Registry.Names(), "\n"))
			return err
		},
	}
}

func schemaCmd(appBuilder *AppBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <command>",
		Short: "Print the request and response JSON schemas of a command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := appBuilder.App().Registry
			if !registry.Has(args[0]) {
				return &CommandError{Response: hostfuncs.NewNotFoundError(args[0])}
			}
			cs, err := schema.ForCommand(registry, args[0])
			if err != nil {
				return err
			}
			data, err := json.Marshal(cs)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
}

// printJSON writes raw JSON indented. A bare JSON string is printed unquoted.
func printJSON(w io.Writer, raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		_, err = fmt.Fprintln(w, s)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return errors.Join(errors.New("command returned invalid JSON"), err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
