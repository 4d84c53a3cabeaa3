// Package pkg is the root of the localfile libraries, which assemble
// transfer-pricing local file documents from transaction records, a
// blueprint, and layered prose content.
//
// # Overview
//
// A local file is built in three steps:
//
//  1. Load: [records] reads the group's entities and intercompany
//     transactions, [blueprint] reads the per-entity section map.
//  2. Resolve: [content] turns blueprint entries into section text,
//     looking up `@references/...` and `@library/...` paths across the
//     universal, firm, group and entity layers.
//  3. Render: [render] fills the LaTeX, Markdown and HTML templates and
//     compiles PDFs with pdflatex.
//
// [pipeline] runs these steps for the CLI and the preview server.
//
// # Package Organization
//
// ## Inputs
//
// [records] - Group records: entities, transactions, financial data and
// benchmark sets, with lookup helpers.
//
// [blueprint] - Blueprint files mapping section keys to literal text or
// content references, in the order they appear on disk.
//
// [scaffold] - Generates a starter blueprint from records.
//
// ## Assembly
//
// [content] - Layered content sources, reference resolution, and the
// resolved [content.Sections] with per-section provenance.
//
// [category] - Transaction category detection and key grouping.
//
// [autotable] - Financial tables built from records when a blueprint does
// not supply them.
//
// [render] - Placeholder substitution, escaping, template loading, and PDF
// compilation.
//
// [pipeline] - Execute, Assemble and RenderFormat over a [pipeline.Runner].
//
// ## Remote Content
//
// [gateway] - Client for the content API with a plugin-root fallback.
//
// [cache] - Null, file and Redis caches for fetched content.
//
// [session] - Uploads session logs to the content API.
//
// [server] - Live preview HTTP server.
//
// ## Support
//
// [config] - localfile.toml loading with environment overrides.
//
// [errors] - Coded errors and user-facing messages.
//
// [observability] - Hooks for assembly, cache and HTTP events.
//
// [ordered], [textfmt], [fonts], [buildinfo] - Small helpers.
//
// # Common Workflows
//
// Assemble a PDF:
//
//	runner := pipeline.NewRunner(render.PDFLatex{}, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    RecordsPath:   "data.json",
//	    BlueprintPath: "blueprints/acme-nl.json",
//	    UniversalDir:  "content/references",
//	    FirmDir:       "content/library",
//	    Formats:       []string{pipeline.FormatPDF},
//	})
//
// Resolve sections without rendering:
//
//	doc, err := runner.Assemble(ctx, opts)
//	for _, key := range doc.Document.Sections.UnresolvedKeys() {
//	    fmt.Println("missing:", key)
//	}
//
// [records]: github.com/matzehuels/localfile/pkg/records
// [blueprint]: github.com/matzehuels/localfile/pkg/blueprint
// [scaffold]: github.com/matzehuels/localfile/pkg/scaffold
// [content]: github.com/matzehuels/localfile/pkg/content
// [content.Sections]: github.com/matzehuels/localfile/pkg/content#Sections
// [category]: github.com/matzehuels/localfile/pkg/category
// [autotable]: github.com/matzehuels/localfile/pkg/autotable
// [render]: github.com/matzehuels/localfile/pkg/render
// [pipeline]: github.com/matzehuels/localfile/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/localfile/pkg/pipeline#Runner
// [gateway]: github.com/matzehuels/localfile/pkg/gateway
// [cache]: github.com/matzehuels/localfile/pkg/cache
// [session]: github.com/matzehuels/localfile/pkg/session
// [server]: github.com/matzehuels/localfile/pkg/server
// [config]: github.com/matzehuels/localfile/pkg/config
// [errors]: github.com/matzehuels/localfile/pkg/errors
// [observability]: github.com/matzehuels/localfile/pkg/observability
// [ordered]: github.com/matzehuels/localfile/pkg/ordered
// [textfmt]: github.com/matzehuels/localfile/pkg/textfmt
// [fonts]: github.com/matzehuels/localfile/pkg/fonts
// [buildinfo]: github.com/matzehuels/localfile/pkg/buildinfo
package pkg
