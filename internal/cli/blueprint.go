package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/localfile/pkg/config"
	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/records"
	"github.com/matzehuels/localfile/pkg/scaffold"
)

// sampleRecords is the example data set below the plugin root.
var sampleRecords = filepath.Join("data", "examples", "sample-group.json")

type generateOpts struct {
	data    string
	example bool
	output  string
	req     scaffold.Request
}

func (c *CLI) blueprintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blueprint",
		Short: "Work with entity blueprints",
	}
	cmd.AddCommand(c.blueprintGenerateCommand())
	return cmd
}

func (c *CLI) blueprintGenerateCommand() *cobra.Command {
	var o generateOpts
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a blueprint from group records",
		Long: `Generate writes a blueprint with one section per report element:
preamble, business and industry sections, functional profiles, one block
per covered transaction, benchmarks and the closing sections.

With --example the sample records below the plugin root are used and the
entity, fiscal year and transactions are picked automatically; explicit
flags still override the picks.`,
		Example: `  localfile blueprint generate --data Records/data.json --entity acme-nl --transactions all -o blueprints/acme-nl.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), newPrinter(cmd.OutOrStdout()), &o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.data, "data", "", "group records JSON")
	f.BoolVar(&o.example, "example", false, "use the sample records with default picks")
	f.StringVar(&o.req.Entity, "entity", "", "entity id")
	f.StringVar(&o.req.FiscalYear, "fiscal-year", "", "fiscal year (default from records)")
	f.StringVar(&o.req.Transactions, "transactions", "", `comma-separated transaction ids, or "all" (default all)`)
	f.StringVarP(&o.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, out *printer, o *generateOpts) error {
	logger := loggerFromContext(ctx)

	path := o.data
	if o.example {
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		if cfg.Content.PluginRoot == "" {
			return errors.New(errors.ErrCodeInvalidInput, "--example needs content.plugin_root in %s", config.FileName)
		}
		path = filepath.Join(cfg.Content.PluginRoot, sampleRecords)
	}
	if path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "either --data or --example is required")
	}

	logger.Info("loading records", "path", path)
	recs, err := records.Load(path)
	if err != nil {
		return err
	}
	gen := scaffold.New(recs, logger)

	req := o.req
	if o.example {
		def, err := gen.Defaults()
		if err != nil {
			return err
		}
		req = mergeRequest(def, o.req)
		logger.Info("example picks", "entity", req.Entity, "fiscal_year", req.FiscalYear, "transactions", req.Transactions)
	} else if req.Entity == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--entity is required (or use --example)")
	}

	bp, err := gen.Generate(req)
	if err != nil {
		return err
	}

	if o.output == "" {
		data, err := bp.Marshal()
		if err != nil {
			return err
		}
		out.raw(string(data))
		return nil
	}
	if err := bp.Write(o.output); err != nil {
		return err
	}
	out.success("Blueprint for %s (FY %s)", StyleValue.Render(bp.Entity), bp.FiscalYear)
	out.detail("%d sections", bp.Sections.Len())
	out.file(o.output)
	out.nextStep("Assemble it", "localfile assemble --data "+path+" --blueprint "+o.output)
	return nil
}

// mergeRequest overlays the explicitly set fields of override on def.
func mergeRequest(def, override scaffold.Request) scaffold.Request {
	if override.Entity != "" {
		def.Entity = override.Entity
	}
	if override.FiscalYear != "" {
		def.FiscalYear = override.FiscalYear
	}
	if override.Transactions != "" {
		def.Transactions = override.Transactions
	}
	return def
}
