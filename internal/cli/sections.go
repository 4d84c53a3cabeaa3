package cli

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/pipeline"
)

type sectionsOpts struct {
	pipeline.Options
	unresolved bool
	asJSON     bool
	noCache    bool
}

func (c *CLI) sectionsCommand() *cobra.Command {
	var o sectionsOpts
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List resolved sections with their content layer and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSections(cmd.Context(), newPrinter(cmd.OutOrStdout()), &o)
		},
	}
	addInputFlags(cmd, &o.Options)
	cmd.Flags().BoolVar(&o.unresolved, "unresolved", false, "only list sections with unresolved references")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print sections as JSON")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "bypass the content gateway cache")
	return cmd
}

func (c *CLI) runSections(ctx context.Context, out *printer, o *sectionsOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := o.Options
	applyContentConfig(&opts, cfg)
	opts.Formats = []string{pipeline.FormatMarkdown}
	opts.Logger = loggerFromContext(ctx)

	runner, closeRunner, err := c.newRunner(ctx, cfg, opts.UniversalDir, o.noCache)
	if err != nil {
		return err
	}
	defer closeRunner()

	res, err := runner.Assemble(ctx, opts)
	if err != nil {
		return err
	}
	sections := res.Document.Sections

	keys := sections.Keys()
	if o.unresolved {
		keys = sections.UnresolvedKeys()
	}

	if o.asJSON {
		enc := json.NewEncoder(out.w)
		enc.SetIndent("", "  ")
		if o.unresolved {
			return enc.Encode(keys)
		}
		return enc.Encode(sections)
	}

	if len(keys) == 0 {
		if o.unresolved {
			out.success("All references resolved")
		} else {
			out.info("Blueprint has no sections")
		}
		return nil
	}

	rows, colors := sectionRows(sections, keys)
	out.table([]string{"Section", "Layer", "Status", "Source"}, rows, colors)
	out.stats(res.Stats)
	return nil
}

type status string

const (
	statusComplete   status = "complete"
	statusPending    status = "pending"    // placeholder text, e.g. "[No business description provided]"
	statusUnresolved status = "unresolved" // a reference that no layer could resolve
)

func sectionStatus(text string) status {
	switch {
	case strings.Contains(text, "[UNRESOLVED"):
		return statusUnresolved
	case !content.IsComplete(text):
		return statusPending
	}
	return statusComplete
}

func (s status) color() lipgloss.TerminalColor {
	switch s {
	case statusUnresolved:
		return colorUnresolved
	case statusPending:
		return colorPending
	}
	return colorComplete
}

// sectionRows builds one table row per key, colored by status.
func sectionRows(s *content.Sections, keys []string) ([][]string, []lipgloss.TerminalColor) {
	rows := make([][]string, 0, len(keys))
	colors := make([]lipgloss.TerminalColor, 0, len(keys))
	for _, k := range keys {
		meta := s.Meta(k)
		status := sectionStatus(s.Text(k))
		source := string(meta.SourcePath)
		if source == "" {
			source = "-"
		}
		rows = append(rows, []string{k, meta.Label, string(status), source})
		colors = append(colors, status.color())
	}
	return rows, colors
}
