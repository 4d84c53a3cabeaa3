package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/config"
	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/pipeline"
)

// previewWidth is the word-wrap width of the terminal Markdown preview.
const previewWidth = 100

// assembleOpts holds the command-line flags for the assemble command.
type assembleOpts struct {
	pipeline.Options
	formats string
	noCache bool
	preview bool
}

func (c *CLI) assembleCommand() *cobra.Command {
	var a assembleOpts

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a local file from records and a blueprint",
		Long: `Assemble resolves every blueprint section and renders one file per
requested format into the output directory.

Formats: pdf, latex, html (editor), dashboard, section, report,
combined (workspace), md. Several formats may be given comma-separated.`,
		Example: `  localfile assemble --data Records/data.json --blueprint blueprints/acme-nl.json \
      --references content/references --library content/library --format pdf,dashboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAssemble(cmd.Context(), newPrinter(cmd.OutOrStdout()), &a)
		},
	}

	addInputFlags(cmd, &a.Options)
	f := cmd.Flags()
	f.StringVarP(&a.OutputDir, "output", "o", ".", "output directory")
	f.StringVarP(&a.formats, "format", "f", pipeline.DefaultFormat, "output format(s): "+strings.Join(pipeline.Formats, ", "))
	f.StringVar(&a.Section, "section", "", "section key for --format section")
	f.StringVar(&a.TemplatePath, "template", "", "template overriding the built-in one (single format only)")
	f.StringVar(&a.BrandPath, "brand", "", "brand CSS for HTML outputs (default assets/brand.css when present)")
	f.BoolVar(&a.MarkdownBodies, "markdown", false, "render section bodies as Markdown in HTML outputs")
	f.BoolVar(&a.noCache, "no-cache", false, "bypass the content gateway cache")
	f.BoolVar(&a.preview, "preview", false, "print the Markdown output to the terminal (with --format md)")

	return cmd
}

func (c *CLI) runAssemble(ctx context.Context, out *printer, a *assembleOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := a.Options
	applyContentConfig(&opts, cfg)
	opts.Formats = strings.Split(a.formats, ",")
	opts.Logger = logger

	runner, closeRunner, err := c.newRunner(ctx, cfg, opts.UniversalDir, a.noCache)
	if err != nil {
		return err
	}
	defer closeRunner()

	if slices.Contains(opts.Formats, pipeline.FormatSection) && opts.Section == "" {
		key, err := c.chooseSection(ctx, out, runner, opts)
		if err != nil || key == "" {
			return err
		}
		opts.Section = key
	}

	prog := newProgress(logger)
	var spin *Spinner
	if slices.Contains(opts.Formats, pipeline.FormatPDF) {
		spin = newSpinner(ctx, "Assembling...")
		defer spin.follow()()
		spin.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		var ce *errors.CompileError
		if stderrors.As(err, &ce) {
			out.failure("pdflatex failed on pass %d", ce.Pass)
			out.detail("%s", tail(ce.Log, 20))
		}
		return err
	}
	prog.done("Assembled " + res.Document.Entity.ID)

	out.success("Local file for %s", StyleValue.Render(res.Document.Entity.Name))
	out.stats(res.Stats)
	for _, art := range res.Artifacts {
		out.file(art.Path)
	}
	for _, w := range res.Warnings {
		out.warning("%s", w)
	}
	if res.Stats.Unresolved > 0 {
		out.nextStep("List unresolved sections",
			fmt.Sprintf("localfile sections --data %s --blueprint %s --unresolved", opts.RecordsPath, opts.BlueprintPath))
	}

	if a.preview {
		return previewMarkdown(out, res.Artifacts)
	}
	return nil
}

// chooseSection asks for a section key on a terminal.
func (c *CLI) chooseSection(ctx context.Context, out *printer, runner *pipeline.Runner, opts pipeline.Options) (string, error) {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return "", errors.New(errors.ErrCodeInvalidInput, "--section is required with --format section")
	}
	pick := opts
	pick.Formats = []string{pipeline.FormatMarkdown}
	res, err := runner.Assemble(ctx, pick)
	if err != nil {
		return "", err
	}
	key, err := pickSection(res.Document.Sections)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "section picker")
	}
	if key == "" {
		out.info("No section selected")
	}
	return key, nil
}

// addInputFlags registers the records, blueprint and content layer flags.
func addInputFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.StringVar(&o.RecordsPath, "data", "", "group records JSON (data.json)")
	f.StringVar(&o.BlueprintPath, "blueprint", "", "entity blueprint JSON")
	f.StringVar(&o.UniversalDir, "references", "", "universal references directory (default from config)")
	f.StringVar(&o.FirmDir, "library", "", "firm library directory (default from config)")
	f.StringVar(&o.GroupDir, "group-content", "", "group content directory")
	f.StringVar(&o.EntityDir, "entity-content", "", "entity content directory")
	f.StringVar(&o.BlueprintsDir, "blueprints-dir", "", "directory of base blueprints for inheritance and the report")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("blueprint")
}

// applyContentConfig fills content directories the flags left empty.
func applyContentConfig(opts *pipeline.Options, cfg config.Config) {
	if opts.UniversalDir == "" {
		opts.UniversalDir = cfg.Content.Universal
	}
	if opts.FirmDir == "" {
		opts.FirmDir = cfg.Content.Firm
	}
	if opts.BlueprintsDir == "" {
		opts.BlueprintsDir = cfg.Content.Blueprints
	}
}

func previewMarkdown(out *printer, artifacts []pipeline.Artifact) error {
	for _, art := range artifacts {
		if art.Format != pipeline.FormatMarkdown {
			continue
		}
		data, err := os.ReadFile(art.Path)
		if err != nil {
			return err
		}
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(previewWidth))
		if err != nil {
			return err
		}
		rendered, err := r.Render(string(data))
		if err != nil {
			return err
		}
		out.raw(rendered)
		return nil
	}
	out.warning("--preview needs --format md")
	return nil
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
