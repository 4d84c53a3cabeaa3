package blueprint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/errors"
)

// SearchDirs are the locations searched for a based_on template.
type SearchDirs struct {
	Universal  string // <universal>/blueprints/<name>.json
	Firm       string // <firm>/blueprints/<name>.json
	Blueprints string // <blueprints>/template-<name>.json, optional
}

// Paths returns the candidate template files for name, in search order.
func (d SearchDirs) Paths(name string) []string {
	paths := []string{
		filepath.Join(d.Universal, "blueprints", name+".json"),
		filepath.Join(d.Firm, "blueprints", name+".json"),
	}
	if d.Blueprints != "" {
		paths = append(paths, filepath.Join(d.Blueprints, "template-"+name+".json"))
	}
	return paths
}

// LoadTemplate decodes a template file.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeTemplateNotFound, "blueprint template not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read blueprint template %s", path)
	}
	var t Template
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBlueprint, err, "malformed blueprint template %s", path)
	}
	return &t, nil
}

// Inherit resolves based_on. Blueprints without it are returned as-is.
//
// The first template found in dirs is expanded with the blueprint's
// covered profiles and transactions, renamed by its title overrides and
// bridged into flat sections and chapters. When no template exists the
// blueprint is returned unchanged and a warning lists the searched paths.
// A template that exists but cannot be decoded is an error.
func Inherit(bp *Blueprint, dirs SearchDirs, logger *log.Logger) (*Blueprint, error) {
	if bp.BasedOn == "" {
		return bp, nil
	}
	if logger == nil {
		logger = log.Default()
	}

	paths := dirs.Paths(bp.BasedOn)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		t, err := LoadTemplate(p)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded blueprint template", "path", p)

		nodes := Expand(t, bp.CoveredProfiles, bp.CoveredTransactions)
		ApplyTitleOverrides(nodes, bp.TitleOverrides)
		out := *bp
		Bridge(&out, nodes)
		return &out, nil
	}

	logger.Warn("blueprint template not found", "based_on", bp.BasedOn, "searched", paths)
	return bp, nil
}
