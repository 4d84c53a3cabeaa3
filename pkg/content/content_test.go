package content

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/localfile/pkg/ordered"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

type fixture struct {
	dirs Dirs
	logs *bytes.Buffer
	r    *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	dirs := Dirs{
		Universal: filepath.Join(root, "references"),
		Firm:      filepath.Join(root, "library"),
		Group:     filepath.Join(root, "group"),
	}
	writeFile(t, dirs.Universal, "methods/tnmm.md", "---\ntitle: TNMM\nowner: methods team\n---\n\nThe TNMM examines the net profit.\n")
	writeFile(t, dirs.Universal, "preamble/objective.txt", "  Objective text.  ")
	writeFile(t, dirs.Universal, "glossary.json", `{"arm": "length"}`)
	writeFile(t, dirs.Universal, "plain", "No extension.")
	writeFile(t, dirs.Firm, "industry/automotive.md", "Automotive outlook.")
	writeFile(t, dirs.Group, "overview.md", "Group overview.")
	if err := os.MkdirAll(filepath.Join(dirs.Universal, "folder"), 0o755); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	logger := log.New(&logs)
	return &fixture{dirs: dirs, logs: &logs, r: NewResolver(dirs, WithLogger(logger))}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		raw   string
		scope Scope
		path  string
	}{
		{"@references/methods/tnmm", ScopeUniversal, "methods/tnmm"},
		{"@library/industry/auto", ScopeFirm, "industry/auto"},
		{"@group/overview", ScopeGroup, "overview"},
		{"@entity/intro", ScopeEntity, "intro"},
		{"Plain prose about @references/x", ScopeLiteral, ""},
		{"", ScopeLiteral, ""},
	}
	for _, tt := range tests {
		ref := ParseRef(tt.raw)
		if ref.Scope != tt.scope || ref.Path != tt.path || ref.Raw != tt.raw {
			t.Errorf("ParseRef(%q) = %+v, want scope %v path %q", tt.raw, ref, tt.scope, tt.path)
		}
	}
	if ScopeFirm.Prefix() != "@library/" || ScopeLiteral.Prefix() != "" {
		t.Error("Prefix() mismatch")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw    string
		layer  int
		label  string
		scope  string
		color  string
		source string
	}{
		{"@references/a", 1, "Universal", "plugin", "#64748b", "@references/a"},
		{"@library/a", 2, "Firm Library", "firm", "#94a3b8", "@library/a"},
		{"@group/a", 3, "Group", "group", "#a855f7", "@group/a"},
		{"@entity/a", 4, "Entity", "entity", "#3b82f6", "@entity/a"},
		{"Some text", 4, "Entity", "entity", "#3b82f6", ""},
	}
	for _, tt := range tests {
		p := Classify(tt.raw)
		if p.Layer != tt.layer || p.Label != tt.label || p.Scope != tt.scope || p.Color != tt.color || string(p.SourcePath) != tt.source {
			t.Errorf("Classify(%q) = %+v", tt.raw, p)
		}
		if p.Impact == "" {
			t.Errorf("Classify(%q) has no impact text", tt.raw)
		}
	}
	if Classify("@entity/x").Impact != Classify("literal").Impact {
		t.Error("entity references and literal text should share impact text")
	}
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		raw  string
		want string
	}{
		{"@references/methods/tnmm", "The TNMM examines the net profit."},
		{"@references/preamble/objective", "Objective text."},
		{"@references/glossary", `{"arm": "length"}`},
		{"@references/plain", "No extension."},
		{"@library/industry/automotive", "Automotive outlook."},
		{"@group/overview", "Group overview."},
		{"Literal stays literal.", "Literal stays literal."},
		{"@references/missing", "[UNRESOLVED: @references/missing]"},
		{"@references/folder", "[UNRESOLVED: @references/folder]"},
		{"@entity/intro", "[UNRESOLVED: @entity/intro]"},
		{"@library/../secret", "[UNRESOLVED: @library/../secret]"},
	}
	for _, tt := range tests {
		if got := f.r.Resolve(ctx, tt.raw); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	logs := f.logs.String()
	for _, want := range []string{"@references/missing", "@entity/intro", "@library/../secret"} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected a warning naming %s, logs:\n%s", want, logs)
		}
	}
}

func TestResolveNoTransitiveLookup(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.dirs.Firm, "pointer.md", "@references/methods/tnmm")
	got := f.r.Resolve(context.Background(), "@library/pointer")
	if got != "@references/methods/tnmm" {
		t.Errorf("Resolve() = %q, file text must not be re-resolved", got)
	}
}

func TestResolveExtensionOrder(t *testing.T) {
	f := newFixture(t)
	writeFile(t, f.dirs.Firm, "dual.md", "markdown wins")
	writeFile(t, f.dirs.Firm, "dual.txt", "text loses")
	if got := f.r.Resolve(context.Background(), "@library/dual"); got != "markdown wins" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestResolveDocumentFrontMatter(t *testing.T) {
	f := newFixture(t)
	doc, ok := f.r.ResolveDocument(context.Background(), "@references/methods/tnmm")
	if !ok {
		t.Fatal("ResolveDocument() not ok")
	}
	if doc.Front.Title != "TNMM" || doc.Front.Owner != "methods team" {
		t.Errorf("Front = %+v", doc.Front)
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no front matter", "  body  ", "body"},
		{"front matter", "---\ntitle: x\n---\nbody\n", "body"},
		{"unterminated fence", "---\ntitle: x\n", "---\ntitle: x"},
		{"invalid yaml still stripped", "---\n: : :\n---\nbody", "body"},
		{"later fences kept", "---\na: 1\n---\nintro\n---\nmore", "intro\n---\nmore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDocument(tt.in).Body; got != tt.want {
				t.Errorf("ParseDocument() body = %q, want %q", got, tt.want)
			}
		})
	}
}

type mapSource map[string]string

func (m mapSource) Read(_ context.Context, name string) ([]byte, error) {
	if s, ok := m[name]; ok {
		return []byte(s), nil
	}
	return nil, ErrNotFound
}

func TestWithSource(t *testing.T) {
	r := NewResolver(Dirs{}, WithSource(ScopeUniversal, mapSource{"methods/cup.md": "CUP text"}))
	if got := r.Resolve(context.Background(), "@references/methods/cup"); got != "CUP text" {
		t.Errorf("Resolve() = %q", got)
	}
}

type failingSource struct{}

func (failingSource) Read(context.Context, string) ([]byte, error) {
	return nil, os.ErrPermission
}

func TestChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "methods/tnmm.md", "Local TNMM")
	src := Chain(DirSource(dir), mapSource{"methods/tnmm.md": "Remote TNMM", "methods/cup.md": "Remote CUP"})
	r := NewResolver(Dirs{}, WithSource(ScopeUniversal, src))

	ctx := context.Background()
	if got := r.Resolve(ctx, "@references/methods/tnmm"); got != "Local TNMM" {
		t.Errorf("local first: got %q", got)
	}
	if got := r.Resolve(ctx, "@references/methods/cup"); got != "Remote CUP" {
		t.Errorf("fallback: got %q", got)
	}

	if _, err := Chain(failingSource{}, mapSource{"x.md": "x"}).Read(ctx, "x.md"); err != os.ErrPermission {
		t.Errorf("source error not returned: %v", err)
	}
	if _, err := Chain().Read(ctx, "x.md"); err != ErrNotFound {
		t.Errorf("empty chain: %v", err)
	}
}

func TestResolveSections(t *testing.T) {
	f := newFixture(t)
	var sections ordered.Map
	src := `{
		"group_overview": "@group/overview",
		"entity_introduction": "Written by hand.",
		"industry_analysis": ["@library/industry/automotive", "@references/missing", 42],
		"fiscal_note": 2024,
		"empty_list": []
	}`
	if err := json.Unmarshal([]byte(src), &sections); err != nil {
		t.Fatal(err)
	}

	got := f.r.ResolveSections(context.Background(), &sections)

	if diff := cmp.Diff(sections.Keys(), got.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	if got.Text("group_overview") != "Group overview." || got.Meta("group_overview").Layer != 3 {
		t.Errorf("group_overview = %q %+v", got.Text("group_overview"), got.Meta("group_overview"))
	}
	if m := got.Meta("entity_introduction"); m.Layer != 4 || m.SourcePath != "" || m.Composite {
		t.Errorf("entity_introduction meta = %+v", m)
	}

	wantText := "Automotive outlook.\n\n[UNRESOLVED: @references/missing]\n\n42"
	if got.Text("industry_analysis") != wantText {
		t.Errorf("composite text = %q, want %q", got.Text("industry_analysis"), wantText)
	}
	m := got.Meta("industry_analysis")
	if !m.Composite || m.Layer != 2 || m.SourcePath != "@library/industry/automotive" {
		t.Errorf("composite meta = %+v", m)
	}
	if diff := cmp.Diff([]string{"Firm Library", "Universal", "Entity"}, m.CompositeLabels); diff != "" {
		t.Errorf("CompositeLabels mismatch (-want +got):\n%s", diff)
	}
	if len(m.Parts) != 3 || m.Parts[2].Layer != 4 {
		t.Errorf("Parts = %+v", m.Parts)
	}

	if got.Text("fiscal_note") != "2024" || got.Meta("fiscal_note").Layer != 4 {
		t.Errorf("scalar section = %q %+v", got.Text("fiscal_note"), got.Meta("fiscal_note"))
	}
	if em := got.Meta("empty_list"); got.Text("empty_list") != "" || !em.Composite || len(em.Parts) != 0 || em.Layer != 4 {
		t.Errorf("empty list = %q %+v", got.Text("empty_list"), em)
	}

	if got.CompleteCount() != 4 || got.AllComplete() {
		t.Errorf("CompleteCount() = %d, AllComplete() = %v", got.CompleteCount(), got.AllComplete())
	}
	if diff := cmp.Diff([]string{"industry_analysis"}, got.UnresolvedKeys()); diff != "" {
		t.Errorf("UnresolvedKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionsMarshalJSON(t *testing.T) {
	s := NewSections()
	s.Put("b", "two", Meta{Provenance: Classify("x")})
	s.Put("a", "one", Meta{Provenance: Classify("@library/y")})
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `[{"key":"b"`) {
		t.Errorf("MarshalJSON() = %s, want blueprint order", data)
	}
}

func TestMetaSourcePathJSON(t *testing.T) {
	tests := []struct {
		name string
		meta Meta
		want []string
	}{
		{"literal", Meta{Provenance: Classify("Some text")}, []string{`"source_path":null`}},
		{"reference", Meta{Provenance: Classify("@library/y")}, []string{`"source_path":"@library/y"`}},
		{"composite", Meta{
			Provenance: Classify("@library/y"),
			Composite:  true,
			Parts:      []Provenance{Classify("@library/y"), Classify("Some text")},
		}, []string{`"composite":true`, `"parts":[{"layer":2`, `"source_path":null,"scope":"entity"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.meta)
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(string(data), want) {
					t.Errorf("Marshal() = %s, want it to contain %s", data, want)
				}
			}
		})
	}
}

func TestIsComplete(t *testing.T) {
	tests := map[string]bool{
		"":                         false,
		"[No content yet]":         false,
		"[UNRESOLVED: @library/x]": false,
		"Written.":                 true,
		"[Note] text":              true,
	}
	for in, want := range tests {
		if got := IsComplete(in); got != want {
			t.Errorf("IsComplete(%q) = %v, want %v", in, got, want)
		}
	}
}
