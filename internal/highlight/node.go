// Package highlight marks query matches inside a rendered node tree without
// breaking its structure. The tree is a deliberately small abstraction: any
// node has children, optional text, and a class/tag pair, so the walker works
// for anything the preview pipeline produces.
package highlight

// NodeType distinguishes containers from text leaves.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Well-known classes consumed by the walker and the renderers.
const (
	ClassMark     = "mark" // wraps a matched run; never re-highlighted
	ClassNoSearch = "toc"  // subtree excluded from highlighting and preview
	ClassCheckbox = "checkbox"
)

// Node is one element or text leaf of a rendered page fragment.
type Node struct {
	Type     NodeType
	Tag      string // element tag: "h1", "p", "a", "li", ...
	Class    string
	Text     string // set on text leaves
	Attrs    map[string]string
	Children []*Node
}

// NewElement creates an element node.
func NewElement(tag string, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Children: children}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// Attr returns the attribute value, or "".
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// SetAttr sets an attribute, allocating the map on first use.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Clone deep-copies the node. The preview cache hands out clones so the
// cached tree is never mutated by highlighting.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:  n.Type,
		Tag:   n.Tag,
		Class: n.Class,
		Text:  n.Text,
	}
	if n.Attrs != nil {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			out.Attrs[k] = v
		}
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// PlainText concatenates the text of the subtree, skipping no-search regions.
func (n *Node) PlainText() string {
	if n == nil || n.Class == ClassNoSearch {
		return ""
	}
	if n.Type == TextNode {
		return n.Text
	}
	var out string
	for _, c := range n.Children {
		out += c.PlainText()
	}
	return out
}
