package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nepdate/internal/cli"
)

// exitInterrupted is returned when a conversion or batch is stopped by
// Ctrl-C or SIGTERM.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	default:
		fmt.Fprintln(os.Stderr, cli.StyleError.Render("error:")+" "+err.Error())
		os.Exit(1)
	}
}

// run builds the command tree and executes it. -v only takes effect once
// cobra has parsed flags, so the level is set in a pre-run hook chained in
// front of the one the CLI installs for config loading.
func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each request, retry and cache lookup")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		} else {
			c.SetLogLevel(cli.LogInfo)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
