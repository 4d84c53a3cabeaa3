// Package fonts embeds brand web fonts into stylesheets.
//
// Brand stylesheets reference the Graphik family through a <<FONT_FACES>>
// marker. [FontFaces] replaces it with @font-face blocks carrying the
// woff2 files as base64 data URLs, so generated HTML documents render with
// the brand fonts without any external requests.
package fonts

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FontFamily is the CSS font-family name of the brand font.
const FontFamily = "Graphik"

// Weight maps a font file variant to its CSS font-weight.
type Weight struct {
	Name  string // file name variant, e.g. "Regular"
	Value string // CSS weight, e.g. "400"
}

// Weights lists the variants looked up, in output order.
var Weights = []Weight{
	{Name: "Regular", Value: "400"},
	{Name: "Medium", Value: "500"},
	{Name: "Semibold", Value: "600"},
}

// FileName returns the woff2 file name of a weight.
func FileName(w Weight) string {
	return fmt.Sprintf("%s-%s-Web.woff2", FontFamily, w.Name)
}

// Cache for base64-encoded font files, keyed by path. The preview server
// re-renders on every request.
var (
	encodedMu sync.Mutex
	encoded   = map[string]string{}
)

func encodeFile(path string) (string, error) {
	encodedMu.Lock()
	defer encodedMu.Unlock()
	if s, ok := encoded[path]; ok {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s := base64.StdEncoding.EncodeToString(data)
	encoded[path] = s
	return s, nil
}

// FontFaces builds @font-face blocks for the weights found in dir. Missing
// files are skipped; n reports how many were embedded. A missing dir yields
// "" so the stylesheet falls back to its system font stack.
func FontFaces(dir string) (css string, n int) {
	var faces []string
	for _, w := range Weights {
		data, err := encodeFile(filepath.Join(dir, FileName(w)))
		if err != nil {
			continue
		}
		faces = append(faces, fmt.Sprintf("@font-face {\n"+
			"  font-family: '%s';\n"+
			"  font-weight: %s;\n"+
			"  font-style: normal;\n"+
			"  font-display: swap;\n"+
			"  src: url(data:font/woff2;base64,%s) format('woff2');\n"+
			"}", FontFamily, w.Value, data))
	}
	return strings.Join(faces, "\n\n"), len(faces)
}
