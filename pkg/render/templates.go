package render

import (
	"embed"
	"os"

	"github.com/matzehuels/localfile/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

// Template names a built-in template.
type Template string

// Built-in templates.
const (
	TemplateLaTeX     Template = "local-file.tex"
	TemplateMarkdown  Template = "local-file.md"
	TemplateEditor    Template = "editor.html"
	TemplateDashboard Template = "dashboard.html"
	TemplateSection   Template = "section.html"
	TemplateReport    Template = "report.html"
	TemplateWorkspace Template = "workspace.html"
)

// DefaultTemplate returns the embedded template.
func DefaultTemplate(t Template) (string, error) {
	data, err := templateFS.ReadFile("templates/" + string(t))
	if err != nil {
		return "", errors.New(errors.ErrCodeTemplateNotFound, "no built-in template %q", t)
	}
	return string(data), nil
}

// LoadTemplate reads the template at path, or the built-in def when path
// is empty.
func LoadTemplate(path string, def Template) (string, error) {
	if path == "" {
		return DefaultTemplate(def)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeTemplateNotFound, "template not found: %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read template %s", path)
	}
	return string(data), nil
}
