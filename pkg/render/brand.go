package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/localfile/pkg/fonts"
)

// DefaultBrandPath is the brand stylesheet used when none is configured.
const DefaultBrandPath = "assets/brand.css"

const (
	brandMarker       = "<!-- BRAND_CSS_INJECT -->"
	legacyBrandMarker = "<<BRAND_CSS>>"
	fontFacesMarker   = "<<FONT_FACES>>"
)

// InjectBrand inserts the brand stylesheet at brandPath into an HTML
// template. The stylesheet's <<FONT_FACES>> marker is replaced with the
// fonts found in the fonts/ directory next to it. The template is returned
// unchanged when the stylesheet is missing or the template has no marker.
func InjectBrand(tmpl, brandPath string, logger *log.Logger) string {
	if logger == nil {
		logger = log.Default()
	}
	data, err := os.ReadFile(brandPath)
	if err != nil {
		logger.Warn("brand stylesheet not found", "path", brandPath)
		return tmpl
	}
	css := string(data)
	if strings.Contains(css, fontFacesMarker) {
		faces, n := fonts.FontFaces(filepath.Join(filepath.Dir(brandPath), "fonts"))
		if n > 0 {
			logger.Debug("embedded brand fonts", "weights", n)
		}
		css = strings.ReplaceAll(css, fontFacesMarker, faces)
	}

	switch {
	case strings.Contains(tmpl, brandMarker):
		block := "<style>\n/* --- Brand design system --- */\n" + css + "\n</style>"
		return strings.ReplaceAll(tmpl, brandMarker, block)
	case strings.Contains(tmpl, legacyBrandMarker):
		return strings.ReplaceAll(tmpl, legacyBrandMarker, css)
	}
	return tmpl
}
