package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/config"
	"github.com/matzehuels/localfile/pkg/pipeline"
	"github.com/matzehuels/localfile/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live previews of the dashboard, report and section editors",
		Long: `Serve starts a local preview server. Each page load re-assembles the
document from disk, so edits to records, the blueprint or content files
show up on reload.

Routes: / (dashboard), /report, /workspace, /editor, /sections/{key},
/api/sections (JSON), /health.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyContentConfig(&opts, cfg)
			if addr == "" {
				addr = cfg.Server.Addr
			}
			logger := loggerFromContext(ctx)

			runner, closeRunner, err := c.newRunner(ctx, cfg, opts.UniversalDir, noCache)
			if err != nil {
				return err
			}
			defer closeRunner()

			out := newPrinter(cmd.OutOrStdout())
			out.success("Preview server on %s", StyleValue.Render("http://"+addr))
			out.detail("Ctrl+C to stop")
			return server.New(runner, opts, logger).ListenAndServe(ctx, addr)
		},
	}
	addInputFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.BrandPath, "brand", "", "brand CSS for the HTML views")
	cmd.Flags().BoolVar(&opts.MarkdownBodies, "markdown", false, "render section bodies as Markdown")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else "+config.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the content gateway cache")
	return cmd
}
