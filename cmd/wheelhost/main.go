// Command wheelhost is the spin wheel backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wheelkit/wheelhost/internal/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appBuilder := cmd.NewAppBuilder()
	defer appBuilder.Close()

	err := cmd.RootCmd(appBuilder).ExecuteContext(ctx)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cmdErr *cmd.CommandError
	if errors.As(err, &cmdErr) {
		fmt.Fprintln(os.Stderr, cmdErr.Response.Message)
		return 1
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
