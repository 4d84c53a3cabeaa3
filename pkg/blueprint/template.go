package blueprint

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Dynamic node markers.
const (
	DynamicProfiles     = "functional-profiles"
	DynamicTransactions = "transactions"
)

// Template is a reusable blueprint skeleton referenced by based_on.
type Template struct {
	Name             string                     `json:"name,omitempty"`
	Sections         []Node                     `json:"sections"`
	DynamicTemplates map[string]DynamicTemplate `json:"dynamic_templates,omitempty"`
}

// Node is one heading of a template tree. A node whose Dynamic tag is set
// receives generated children during expansion.
type Node struct {
	ID       string     `json:"id"`
	Title    string     `json:"title,omitempty"`
	Dynamic  DynamicTag `json:"dynamic,omitempty"`
	Children []Node     `json:"children,omitempty"`
}

// DynamicTemplate describes the children generated for each covered item.
type DynamicTemplate struct {
	IDPattern string `json:"id_pattern,omitempty"` // "{id}" is replaced by the item id
	Children  []Node `json:"children,omitempty"`
}

// DynamicTag is a node's dynamic marker. Non-string markers decode as
// empty and leave the node static.
type DynamicTag string

// UnmarshalJSON ignores markers that are not strings.
func (d *DynamicTag) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = DynamicTag(s)
	return nil
}

func (n Node) clone() Node {
	out := n
	out.Children = cloneNodes(n.Children)
	return out
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.clone()
	}
	return out
}

// Expand returns a deep copy of the template tree with every dynamic node
// filled in. A dynamic node keeps its id and title, loses its marker and
// gets one child per covered item; each child is built from the matching
// dynamic template. Nodes with an unknown marker are returned untouched.
func Expand(t *Template, profiles, transactions []Item) []Node {
	nodes := cloneNodes(t.Sections)
	for i := range nodes {
		expandNode(&nodes[i], t.DynamicTemplates, profiles, transactions)
	}
	return nodes
}

func expandNode(n *Node, templates map[string]DynamicTemplate, profiles, transactions []Item) {
	var items []Item
	switch n.Dynamic {
	case "":
		for i := range n.Children {
			expandNode(&n.Children[i], templates, profiles, transactions)
		}
		return
	case DynamicProfiles:
		items = profiles
	case DynamicTransactions:
		items = transactions
	default:
		return
	}

	dt := templates[string(n.Dynamic)]
	pattern := dt.IDPattern
	if pattern == "" {
		pattern = "{id}"
	}
	children := make([]Node, 0, len(items))
	for _, it := range items {
		children = append(children, Node{
			ID:       strings.ReplaceAll(pattern, "{id}", it.ID),
			Title:    it.DisplayTitle(),
			Children: cloneNodes(dt.Children),
		})
	}
	n.Dynamic = ""
	n.Children = children
}

// ApplyTitleOverrides renames nodes in place. Overrides are keyed by the
// "/"-joined id path from the root, e.g.
// "economic-analysis/functional-analysis/fp-distributor".
func ApplyTitleOverrides(nodes []Node, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	applyOverrides(nodes, "", overrides)
}

func applyOverrides(nodes []Node, parent string, overrides map[string]string) {
	for i := range nodes {
		path := joinPath(parent, nodes[i].ID)
		if title, ok := overrides[path]; ok {
			nodes[i].Title = title
		}
		applyOverrides(nodes[i].Children, path, overrides)
	}
}

func joinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "/" + id
}
