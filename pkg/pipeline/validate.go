package pipeline

import (
	"github.com/matzehuels/localfile/pkg/blueprint"
	"github.com/matzehuels/localfile/pkg/errors"
	"github.com/matzehuels/localfile/pkg/records"
)

// Check returns warnings for inputs that assemble but will produce a
// generic or incomplete document.
func Check(bp *blueprint.Blueprint, entity *records.Entity) []string {
	var warnings []string
	if entity.Name == "" {
		warnings = append(warnings, "entity has no 'name', output file names will be generic")
	}
	if records.FiscalYear(bp.FiscalYear, entity.FiscalYear) == "" {
		warnings = append(warnings, "no fiscal_year found on blueprint or entity")
	}
	for _, key := range []string{"group_overview", "entity_introduction"} {
		if !hasContent(bp, key) {
			warnings = append(warnings, "blueprint has no '"+key+"' section, a placeholder will be shown")
		}
	}
	// Category grouping and the generator only produce snake_case keys.
	for _, key := range bp.Sections.Keys() {
		if err := errors.ValidateSectionKey(key); err != nil {
			warnings = append(warnings, errors.UserMessage(err))
		}
	}
	return warnings
}

func hasContent(bp *blueprint.Blueprint, key string) bool {
	v, ok := bp.Sections.Get(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	}
	return true
}
