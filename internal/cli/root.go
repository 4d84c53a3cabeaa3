package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Assemble transfer pricing local files from records and blueprints",
		Long: `localfile builds transfer pricing local file documentation.

It reads the group's records and an entity blueprint, resolves every
section through four content layers (universal references, the firm
library, group content, entity content) and renders the result as a
PDF, HTML editors, a review dashboard or Markdown.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "project config file (default ./localfile.toml)")
	root.PersistentFlags().StringVar(&c.workDir, "working-dir", "", "working directory for config and session files")

	root.AddCommand(c.assembleCommand())
	root.AddCommand(c.sectionsCommand())
	root.AddCommand(c.blueprintCommand())
	root.AddCommand(c.gatewayCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
