// Package textfmt holds the small string conventions shared by the
// resolver, categorizer and renderers: title casing of slugs, amount
// formatting and filesystem-safe names.
package textfmt

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Title upper-cases the first cased letter of every run of cased letters
// and lower-cases the rest. Digits and punctuation break a run, so
// "tx-2nd" becomes "Tx-2Nd".
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
		switch {
		case cased && !prevCased:
			b.WriteRune(unicode.ToUpper(r))
		case cased:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}

// Humanize turns a snake_case key into Title Case words.
func Humanize(key string) string {
	return Title(strings.ReplaceAll(key, "_", " "))
}

// HumanizeSlug turns a kebab-case id into Title Case words.
func HumanizeSlug(id string) string {
	return Title(strings.ReplaceAll(id, "-", " "))
}

// Amount formats a numeric value with thousands separators and no
// decimals. Non-numeric values are returned in their text form.
func Amount(v any) string {
	f, ok := Float(v)
	if !ok {
		return Scalar(v)
	}
	return groupThousands(strconv.FormatFloat(f, 'f', 0, 64))
}

// Float reports v as a float64 when it is numeric.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

// IsInt reports whether v is an integral JSON number literal.
func IsInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return 0, false
		}
		n, err := t.Int64()
		return n, err == nil
	case int:
		return int64(t), true
	case int64:
		return t, true
	default:
		return 0, false
	}
}

// Scalar renders a JSON scalar as text. nil renders as "".
func Scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

var slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_\-]`)

// Slugify makes text safe for a file name: spaces become underscores,
// dots are dropped (so "B.V." reads "BV") and anything that is not a
// word character or hyphen is removed.
func Slugify(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, " ", "_")
	text = strings.ReplaceAll(text, ".", "")
	return slugStrip.ReplaceAllString(text, "")
}
