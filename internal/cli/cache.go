package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/gateway"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the content gateway cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheStatusCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, out := cmd.Context(), newPrinter(cmd.OutOrStdout())
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gw, cc, err := c.newGateway(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			n, err := gw.ClearCache(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				out.info("Cache is empty")
				return nil
			}
			out.success("Cleared %d cached files", n)
			out.detail("%s", cacheLocation(cfg.Cache.RedisURL, cfg.Cache.Dir))
			return nil
		},
	}
}

func (c *CLI) cacheStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List cached files with their age and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, out := cmd.Context(), newPrinter(cmd.OutOrStdout())
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gw, cc, err := c.newGateway(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer cc.Close()

			files, err := gw.Status(ctx)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				out.info("Cache is empty")
				return nil
			}
			rows, colors := cacheRows(files)
			out.table([]string{"Path", "Age", "Size"}, rows, colors)
			out.detail("%d files · %s", len(files), cacheLocation(cfg.Cache.RedisURL, cfg.Cache.Dir))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}

// cacheRows renders expired entries dimmed.
func cacheRows(files []gateway.CachedFile) ([][]string, []lipgloss.TerminalColor) {
	rows := make([][]string, 0, len(files))
	colors := make([]lipgloss.TerminalColor, 0, len(files))
	for _, f := range files {
		age := gateway.FormatAge(f.Age)
		var color lipgloss.TerminalColor
		if f.Expired {
			age += " (expired)"
			color = colorDim
		}
		rows = append(rows, []string{f.Path, age, formatSize(f.Size)})
		colors = append(colors, color)
	}
	return rows, colors
}

func cacheLocation(redisURL, dir string) string {
	if redisURL != "" {
		return "redis"
	}
	return dir
}

func formatSize(n int) string {
	switch {
	case n < 1024:
		return strconv.Itoa(n) + " B"
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
