package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/errors"
)

// Compiler turns a .tex file into a PDF in outDir.
type Compiler interface {
	Compile(ctx context.Context, texPath, outDir string) error
}

// PDFLatex compiles with pdflatex. It runs two passes so the table of
// contents and cross-references resolve.
type PDFLatex struct {
	Binary string // defaults to "pdflatex"
	Logger *log.Logger
}

const pdflatexHint = "pdflatex not found on PATH.\n" +
	"  macOS:  brew install --cask basictex && eval \"$(/usr/libexec/path_helper)\"\n" +
	"  Linux:  apt install texlive-latex-extra"

// Compile implements Compiler. A failed pass returns an
// [errors.CompileError] carrying the compiler output.
func (p PDFLatex) Compile(ctx context.Context, texPath, outDir string) error {
	bin := p.Binary
	if bin == "" {
		bin = "pdflatex"
	}
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	if _, err := exec.LookPath(bin); err != nil {
		return errors.Wrap(errors.ErrCodeCompileFailed, err, "%s", pdflatexHint)
	}

	for pass := 1; pass <= 2; pass++ {
		logger.Debug("pdflatex", "pass", pass, "of", 2)
		cmd := exec.CommandContext(ctx, bin, "-interaction=nonstopmode", "-output-directory", outDir, texPath)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return &errors.CompileError{Pass: pass, Log: out.String(), Err: err}
		}
	}
	return nil
}

// auxPatterns are the LaTeX by-products removed after a build.
var auxPatterns = []string{"*.aux", "*.log", "*.out", "*.toc"}

// CleanAux removes LaTeX auxiliary files from dir. Failures are ignored.
func CleanAux(dir string) int {
	removed := 0
	for _, pat := range auxPatterns {
		matches, _ := filepath.Glob(filepath.Join(dir, pat))
		for _, m := range matches {
			if os.Remove(m) == nil {
				removed++
			}
		}
	}
	return removed
}
