package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/localfile/pkg/blueprint"
	"github.com/matzehuels/localfile/pkg/content"
	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/observability"
	"github.com/matzehuels/localfile/pkg/records"
	"github.com/matzehuels/localfile/pkg/render"
)

// Runner executes assembly runs.
//
// The Runner is stateless except for its compiler, sources and logger. It
// doesn't store results, so one Runner can serve concurrent runs with
// different options.
type Runner struct {
	Compiler render.Compiler
	Logger   *log.Logger

	// Sources replace the directory reader of a content layer, e.g. the
	// content gateway for universal references.
	Sources map[content.Scope]content.Source
}

// NewRunner creates a runner. A nil compiler uses pdflatex from PATH; a
// nil logger uses log.Default().
func NewRunner(compiler render.Compiler, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if compiler == nil {
		compiler = render.PDFLatex{Logger: logger}
	}
	return &Runner{
		Compiler: compiler,
		Logger:   logger,
		Sources:  make(map[content.Scope]content.Source),
	}
}

// Execute runs the complete load → resolve → render pipeline and writes
// one file per format to opts.OutputDir.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := r.logger(opts).With("run", runID[:8])
	opts.Logger = logger

	result, err := r.assemble(ctx, opts, runID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", opts.OutputDir)
	}

	renderStart := time.Now()
	artifacts := make([]Artifact, len(opts.Formats))
	// One format at a time, in request order. A failure cancels gctx and
	// the formats after it are skipped.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)
	for i, format := range opts.Formats {
		g.Go(func() error {
			a, err := r.write(gctx, result.Document, format, opts)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Assemble runs the load and resolve stages without rendering.
func (r *Runner) Assemble(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.Logger = r.logger(opts)
	return r.assemble(ctx, opts, uuid.NewString())
}

func (r *Runner) assemble(ctx context.Context, opts Options, runID string) (*Result, error) {
	logger := opts.Logger
	result := &Result{RunID: runID}

	loadStart := time.Now()
	recs, err := records.Load(opts.RecordsPath)
	if err != nil {
		return nil, err
	}
	bp, err := blueprint.Load(opts.BlueprintPath)
	if err != nil {
		return nil, err
	}
	bp, err = blueprint.Inherit(bp, blueprint.SearchDirs{
		Universal:  opts.UniversalDir,
		Firm:       opts.FirmDir,
		Blueprints: opts.BlueprintsDir,
	}, logger)
	if err != nil {
		return nil, err
	}

	if bp.Entity == "" {
		return nil, errors.New(errors.ErrCodeInvalidBlueprint, "blueprint has no 'entity' field")
	}
	logger.Debug("looking up entity", "id", bp.Entity)
	entity, err := recs.FindEntity(bp.Entity)
	if err != nil {
		return nil, err
	}

	result.Warnings = Check(bp, entity)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}

	txs := recs.EntityTransactions(entity.ID)
	result.Stats.LoadTime = time.Since(loadStart)
	logger.Info("loaded inputs",
		"entity", entity.ID,
		"transactions", len(txs),
		"sections", bp.Sections.Len(),
		"duration", result.Stats.LoadTime)

	resolveStart := time.Now()
	hooks := observability.Assembly()
	hooks.OnResolveStart(ctx, entity.ID, bp.Sections.Len())
	sections := r.resolver(opts).ResolveSections(ctx, bp.Sections)
	unresolved := sections.UnresolvedKeys()
	result.Stats.ResolveTime = time.Since(resolveStart)
	hooks.OnResolveComplete(ctx, entity.ID, len(unresolved), result.Stats.ResolveTime)

	result.Stats.Transactions = len(txs)
	result.Stats.Sections = sections.Len()
	result.Stats.Complete = sections.CompleteCount()
	result.Stats.Unresolved = len(unresolved)
	logger.Info("resolved sections",
		"complete", result.Stats.Complete,
		"total", result.Stats.Sections,
		"unresolved", result.Stats.Unresolved,
		"duration", result.Stats.ResolveTime)

	result.Document = &render.Document{
		Records:      recs,
		Entity:       entity,
		Transactions: txs,
		Blueprint:    bp,
		Sections:     sections,
		Options: render.Options{
			MarkdownBodies: opts.MarkdownBodies,
			BlueprintsDir:  opts.BlueprintsDir,
			UniversalDir:   opts.UniversalDir,
		},
		Logger: logger,
	}
	return result, nil
}

func (r *Runner) resolver(opts Options) *content.Resolver {
	ropts := []content.Option{content.WithLogger(opts.Logger)}
	for scope, src := range r.Sources {
		ropts = append(ropts, content.WithSource(scope, src))
	}
	return content.NewResolver(content.Dirs{
		Universal: opts.UniversalDir,
		Firm:      opts.FirmDir,
		Group:     opts.GroupDir,
		Entity:    opts.EntityDir,
	}, ropts...)
}

// RenderFormat renders one format of an assembled document in memory.
// The pdf format yields its LaTeX source.
func (r *Runner) RenderFormat(ctx context.Context, doc *render.Document, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	tmpl, err := r.template(format, opts, logger)
	if err != nil {
		return nil, err
	}
	if format == FormatSection {
		warnUnknownSection(doc, opts.Section, logger)
	}

	hooks := observability.Assembly()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var out string
	switch format {
	case FormatPDF, FormatLaTeX:
		out = render.LaTeX(tmpl, doc)
	case FormatHTML:
		out = render.Editor(tmpl, doc)
	case FormatDashboard:
		out = render.Dashboard(tmpl, doc)
	case FormatSection:
		out = render.SectionEditor(tmpl, doc, opts.Section)
	case FormatReport:
		out = render.Report(tmpl, doc)
	case FormatCombined:
		out = render.Workspace(tmpl, doc)
	case FormatMarkdown:
		out = render.Markdown(tmpl, doc)
	}

	hooks.OnRenderComplete(ctx, format, len(out), time.Since(start), nil)
	return []byte(out), nil
}

func (r *Runner) template(format string, opts Options, logger *log.Logger) (string, error) {
	tmpl, err := render.LoadTemplate(opts.TemplatePath, formatSpecs[format].template)
	if err != nil {
		return "", err
	}
	if IsHTML(format) && opts.BrandPath != "" {
		tmpl = render.InjectBrand(tmpl, opts.BrandPath, logger)
	}
	return tmpl, nil
}

// texMu guards pdflatex and CleanAux, which share auxiliary file names
// in the output directory.
var texMu sync.Mutex

func (r *Runner) write(ctx context.Context, doc *render.Document, format string, opts Options) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}
	data, err := r.RenderFormat(ctx, doc, format, opts)
	if err != nil {
		return Artifact{}, err
	}
	name := BaseName(doc.Entity.Name, doc.FiscalYear(""), format, opts.Section)
	path := filepath.Join(opts.OutputDir, name+formatSpecs[format].ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	opts.Logger.Info("written", "format", format, "path", path)

	if format != FormatPDF {
		return Artifact{Format: format, Path: path, Size: len(data)}, nil
	}

	texMu.Lock()
	defer texMu.Unlock()

	hooks := observability.Assembly()
	hooks.OnCompileStart(ctx, path)
	start := time.Now()
	err = r.Compiler.Compile(ctx, path, opts.OutputDir)
	hooks.OnCompileComplete(ctx, path, time.Since(start), err)
	if n := render.CleanAux(opts.OutputDir); n > 0 {
		opts.Logger.Debug("removed auxiliary files", "count", n)
	}
	if err != nil {
		return Artifact{}, err
	}

	pdfPath := strings.TrimSuffix(path, ".tex") + ".pdf"
	size := 0
	if info, err := os.Stat(pdfPath); err == nil {
		size = int(info.Size())
	}
	return Artifact{Format: format, Path: pdfPath, Size: size}, nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func warnUnknownSection(doc *render.Document, key string, logger *log.Logger) {
	if doc.Sections.Has(key) || strings.HasPrefix(key, "_auto_") {
		return
	}
	keys := doc.Sections.Keys()
	slices.Sort(keys)
	logger.Warn("section not found in blueprint sections", "section", key, "available", strings.Join(keys, ", "))
}
