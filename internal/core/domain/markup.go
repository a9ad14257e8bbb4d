package domain

// NodeKind distinguishes element nodes from text leaves.
type NodeKind int

const (
	// NodeElement is a tagged element with attributes and children.
	NodeElement NodeKind = iota

	// NodeText is a text leaf. Only Text is meaningful.
	NodeText
)

// String returns the string representation.
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "element"
	case NodeText:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single markup attribute. Names are qualified exactly as
// written in the source (e.g. "w:val", "xmlns:w").
type Attr struct {
	Name  string
	Value string
}

// Node is an ordered markup tree node.
//
// Attribute order and child order follow the source document. Parsing
// keeps every attribute value and every non-whitespace text run verbatim;
// nothing is dropped before normalisation.
type Node struct {
	// Kind is element or text.
	Kind NodeKind

	// Name is the qualified tag name. Empty for text nodes.
	Name string

	// Attrs holds attributes in document order. Names are unique.
	Attrs []Attr

	// Children holds element and text children in document order.
	Children []*Node

	// Text is the content of a text node.
	Text string
}

// NewElement creates an element node.
func NewElement(name string, attrs []Attr, children ...*Node) *Node {
	return &Node{
		Kind:     NodeElement,
		Name:     name,
		Attrs:    attrs,
		Children: children,
	}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: NodeText, Text: text}
}

// IsText returns true for text leaves.
func (n *Node) IsText() bool {
	return n.Kind == NodeText
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Equal reports whether two trees are structurally identical.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || n.Name != other.Name || n.Text != other.Text {
		return false
	}
	if len(n.Attrs) != len(other.Attrs) || len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Attrs {
		if n.Attrs[i] != other.Attrs[i] {
			return false
		}
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn stops descent into that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
