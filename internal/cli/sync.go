package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/session"
)

func (c *CLI) syncCommand() *cobra.Command {
	var (
		group string
		quiet bool
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the latest session-log entry",
		Long: `Sync posts the last entry of <working-dir>/<group>/Records/session-log.json
to the API so the session shows up in the web workspace.

With --quiet nothing is printed and failures only set the exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return quietly(err, quiet)
			}
			logger := loggerFromContext(ctx)
			if quiet {
				logger = log.New(io.Discard)
			}
			syncer := session.NewSyncer(session.Options{
				BaseURL: cfg.API.URL,
				APIKey:  cfg.API.Key,
				Logger:  logger,
			})
			id, err := syncer.Sync(ctx, c.workingDir(), group)
			if err != nil {
				return quietly(err, quiet)
			}
			if !quiet {
				out := newPrinter(cmd.OutOrStdout())
				out.success("Session synced")
				out.keyValue("Session", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "group directory name")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress all output")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func quietly(err error, quiet bool) error {
	if quiet {
		return silentError{err}
	}
	return err
}
