// Package pipeline assembles local files.
//
// This package implements the load → inherit → resolve → render pipeline
// shared by the CLI and the preview server, so both produce identical
// documents from the same inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read the group records and the entity blueprint, resolve the
//     blueprint's based_on template and look up the entity
//  2. Resolve: turn every section value into text with its provenance
//  3. Render: populate one template per requested format and write it to
//     the output directory, compiling the PDF when asked to
//
// # Usage
//
//	runner := pipeline.NewRunner(render.PDFLatex{}, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    RecordsPath:   "Acme/Records/data.json",
//	    BlueprintPath: "Acme/Blueprints/acme-nl.json",
//	    UniversalDir:  "content/references",
//	    FirmDir:       "content/library",
//	    OutputDir:     "out",
//	    Formats:       []string{pipeline.FormatPDF, pipeline.FormatDashboard},
//	})
//
// Assemble and RenderFormat run the stages separately; the preview server
// uses them to re-render a single view per request without writing files.
package pipeline

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/render"
	"github.com/matzehuels/localfile/pkg/textfmt"
)

// Output formats.
const (
	FormatPDF       = "pdf"       // LaTeX compiled to PDF
	FormatLaTeX     = "latex"     // LaTeX source only
	FormatHTML      = "html"      // intake editor
	FormatDashboard = "dashboard" // section cards with progress
	FormatSection   = "section"   // single-section editor, needs Options.Section
	FormatReport    = "report"    // X-ray report
	FormatCombined  = "combined"  // workspace editor
	FormatMarkdown  = "md"        // Markdown preview
)

// DefaultFormat is used when Options.Formats is empty.
const DefaultFormat = FormatPDF

// formatSpecs holds the built-in template and file naming of each format.
var formatSpecs = map[string]struct {
	template render.Template
	name     string // base name part after the entity name
	ext      string
	html     bool
}{
	FormatPDF:       {render.TemplateLaTeX, "Local_File", ".tex", false},
	FormatLaTeX:     {render.TemplateLaTeX, "Local_File", ".tex", false},
	FormatHTML:      {render.TemplateEditor, "Local_File", ".html", true},
	FormatDashboard: {render.TemplateDashboard, "Dashboard", ".html", true},
	FormatSection:   {render.TemplateSection, "Section", ".html", true},
	FormatReport:    {render.TemplateReport, "Report_View", ".html", true},
	FormatCombined:  {render.TemplateWorkspace, "Workspace_Editor", ".html", true},
	FormatMarkdown:  {render.TemplateMarkdown, "Local_File", ".md", false},
}

// Formats lists the supported formats in display order.
var Formats = []string{
	FormatPDF, FormatLaTeX, FormatHTML, FormatDashboard,
	FormatSection, FormatReport, FormatCombined, FormatMarkdown,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if _, ok := formatSpecs[format]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// IsHTML reports whether a format renders an HTML template that takes the
// brand stylesheet.
func IsHTML(format string) bool { return formatSpecs[format].html }

// Options contains all configuration for an assembly run.
type Options struct {
	// Inputs
	RecordsPath   string `json:"records"`
	BlueprintPath string `json:"blueprint"`

	// Content layers. UniversalDir and FirmDir also hold based_on
	// templates under blueprints/.
	UniversalDir string `json:"universal_dir"`
	FirmDir      string `json:"firm_dir"`
	GroupDir     string `json:"group_dir,omitempty"`
	EntityDir    string `json:"entity_dir,omitempty"`

	// BlueprintsDir lists blueprints for the workspace and is searched
	// last for template-<name>.json.
	BlueprintsDir string `json:"blueprints_dir,omitempty"`

	// Output
	OutputDir      string   `json:"output_dir"`
	Formats        []string `json:"formats,omitempty"`
	Section        string   `json:"section,omitempty"`
	TemplatePath   string   `json:"template,omitempty"` // overrides the built-in template; single format only
	BrandPath      string   `json:"brand,omitempty"`
	MarkdownBodies bool     `json:"markdown,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills empty fields. A pdf run already writes the .tex file,
// so latex is dropped when pdf is requested.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	var formats []string
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(formats, f) {
			continue
		}
		formats = append(formats, f)
	}
	if slices.Contains(formats, FormatPDF) {
		formats = slices.DeleteFunc(formats, func(f string) bool { return f == FormatLaTeX })
	}
	o.Formats = formats

	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.BrandPath == "" {
		if _, err := os.Stat(render.DefaultBrandPath); err == nil {
			o.BrandPath = render.DefaultBrandPath
		}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Validate checks required fields. Call SetDefaults first.
func (o *Options) Validate() error {
	if o.RecordsPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "records path is required")
	}
	if o.BlueprintPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "blueprint path is required")
	}
	if o.UniversalDir == "" || o.FirmDir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "universal and firm content directories are required")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if slices.Contains(o.Formats, FormatSection) && o.Section == "" {
		return errors.New(errors.ErrCodeInvalidInput, "format %q needs a section key", FormatSection)
	}
	if o.TemplatePath != "" && len(o.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "a custom template applies to a single format, got %d", len(o.Formats))
	}
	return nil
}

// Artifact is one written output file.
type Artifact struct {
	Format string
	Path   string
	Size   int
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	// Document is the assembled input shared by all renderers.
	Document *render.Document

	// Warnings lists the validation warnings raised while loading.
	Warnings []string

	// Artifacts are the written files in the order of Options.Formats.
	Artifacts []Artifact

	// Stats contains timing and count information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Transactions int
	Sections     int
	Complete     int
	Unresolved   int
	LoadTime     time.Duration
	ResolveTime  time.Duration
	RenderTime   time.Duration
}

// BaseName returns the output file name, without extension, of a format.
// The fiscal year suffix is dropped when fy is empty; section files carry
// the section key instead.
func BaseName(entityName, fy, format, section string) string {
	if entityName == "" {
		entityName = "entity"
	}
	spec := formatSpecs[format]
	if format == FormatSection {
		return textfmt.Slugify(fmt.Sprintf("%s_Section_%s", entityName, section))
	}
	if fy == "" {
		return textfmt.Slugify(entityName + "_" + spec.name)
	}
	return textfmt.Slugify(fmt.Sprintf("%s_%s_FY%s", entityName, spec.name, fy))
}
