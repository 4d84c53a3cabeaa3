package content_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/localfile/pkg/content"
)

func ExampleParseRef() {
	for _, raw := range []string{"@library/industry/pumps", "Acme NL B.V. distributes industrial pumps."} {
		ref := content.ParseRef(raw)
		fmt.Printf("%s %q %v\n", ref.Scope, ref.Path, ref.IsReference())
	}
	// Output:
	// firm "industry/pumps" true
	// literal "" false
}

func ExampleClassify() {
	p := content.Classify("@group/overview")
	fmt.Println(p.Layer, p.Label, p.SourcePath)

	p = content.Classify("Written directly in the blueprint.")
	fmt.Println(p.Layer, p.Label, p.SourcePath == "")
	// Output:
	// 3 Group @group/overview
	// 4 Entity true
}

func ExampleIsComplete() {
	fmt.Println(content.IsComplete("Acme NL B.V. distributes industrial pumps."))
	fmt.Println(content.IsComplete("[No business description provided]"))
	fmt.Println(content.IsComplete(content.Unresolved("@library/missing")))
	// Output:
	// true
	// false
	// false
}

type memSource map[string]string

func (m memSource) Read(_ context.Context, name string) ([]byte, error) {
	if s, ok := m[name]; ok {
		return []byte(s), nil
	}
	return nil, content.ErrNotFound
}

func ExampleChain() {
	local := memSource{"methods/tnmm.md": "Local TNMM text."}
	remote := memSource{"methods/tnmm.md": "Remote TNMM text.", "methods/cup.md": "Remote CUP text."}
	src := content.Chain(local, remote)

	for _, name := range []string{"methods/tnmm.md", "methods/cup.md", "methods/psm.md"} {
		data, err := src.Read(context.Background(), name)
		fmt.Printf("%s: %q %v\n", name, data, err)
	}
	// Output:
	// methods/tnmm.md: "Local TNMM text." <nil>
	// methods/cup.md: "Remote CUP text." <nil>
	// methods/psm.md: "" content not found
}
