package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func (c *CLI) gatewayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Fetch shared content and check the API key",
		Long: `The content gateway serves universal references and templates.

Lookups go to the local cache first, then the API (when an API key is
configured through LOCALFILE_API_KEY or .localfile/config.json), then the
plugin root on disk.`,
	}
	cmd.AddCommand(c.gatewayFetchCommand())
	cmd.AddCommand(c.gatewayValidateCommand())
	return cmd
}

func (c *CLI) gatewayFetchCommand() *cobra.Command {
	var (
		pluginRoot string
		output     string
		noCache    bool
	)
	cmd := &cobra.Command{
		Use:     "fetch <path>",
		Short:   "Fetch one content file",
		Example: `  localfile gateway fetch references/methods/tnmm.md`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, out := cmd.Context(), newPrinter(cmd.OutOrStdout())
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if pluginRoot != "" {
				cfg.Content.PluginRoot = pluginRoot
			}
			gw, cc, err := c.newGateway(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer cc.Close()

			res, err := gw.Fetch(ctx, args[0])
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("fetched", "path", res.Path, "origin", res.Origin, "size", len(res.Content))
			if output == "" {
				out.raw(string(res.Content))
				return nil
			}
			if err := os.WriteFile(output, res.Content, 0o644); err != nil {
				return err
			}
			out.success("Fetched %s %s", res.Path, StyleDim.Render("("+string(res.Origin)+")"))
			out.file(output)
			return nil
		},
	}
	cmd.Flags().StringVar(&pluginRoot, "plugin-root", "", "plugin root directory for the local fallback")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache")
	return cmd
}

func (c *CLI) gatewayValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the API key is accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), newPrinter(cmd.OutOrStdout()))
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, out *printer) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	gw, cc, err := c.newGateway(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer cc.Close()

	if err := gw.Validate(ctx); err != nil {
		out.failure("API key check failed")
		return err
	}
	out.success("API key is valid")
	out.keyValue("Endpoint", cfg.API.URL)
	out.keyValue("Key", maskKey(cfg.API.Key))
	return nil
}

// maskKey shows the first four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
