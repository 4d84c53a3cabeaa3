package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/internal/cli"
	"github.com/matzehuels/localfile/pkg/cache"
	lferrors "github.com/matzehuels/localfile/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	switch {
	case err == nil:
		return
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		os.Exit(130)
	case !cli.IsSilent(err):
		report(os.Stderr, err)
	}
	os.Exit(1)
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attachLogger != nil {
			return attachLogger(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// report prints err with its next-step hint, e.g.
//
//	Error: entity "acme-us" not in records
//	  hint: the blueprint entity must match an entity id in the records file
func report(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", lferrors.UserMessage(err))
	if hint := lferrors.Hint(err); hint != "" {
		fmt.Fprintln(w, "  hint:", hint)
	}
	if cache.IsRetryable(err) {
		fmt.Fprintln(w, "  this may be temporary, try again")
	}
}
