// Package render turns an assembled local file into its output documents.
//
// # Overview
//
// Every renderer takes the same [Document]: the records, the entity and its
// transactions, the (inherited) blueprint and the resolved sections. Each
// one populates a template containing <<PLACEHOLDER>> markers:
//
//   - [LaTeX]: print-ready source for the PDF path
//   - [Editor]: HTML intake editor with a textarea per section
//   - [Dashboard]: section cards with completion progress
//   - [SectionEditor]: a single section with its provenance
//   - [Report]: read-only X-ray report annotating every section's layer
//   - [Workspace]: the combined chapter editor with review state and notes
//   - [Markdown]: plain-text preview
//
// Renderers prefer the blueprint's chapter tree and fall back to the
// section categorizer when there is none. Incomplete sections render as
// placeholders and auto keys are delegated to [autotable].
//
// # Templates
//
// Default templates are embedded and returned by [DefaultTemplate]; a file
// path passed to [LoadTemplate] overrides them. HTML templates receive the
// brand stylesheet through [InjectBrand].
//
// # PDF
//
// [PDFLatex] implements [Compiler] by running pdflatex twice. Tests and
// callers without a TeX installation can substitute their own Compiler.
//
// [autotable]: github.com/matzehuels/localfile/pkg/autotable
package render
