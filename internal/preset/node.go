package preset

import (
	"encoding/xml"
	"strings"
)

// Node is a generic XML element. Elements the merge does not own are kept
// as they were read.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []*Node    `xml:",any"`
}

// NewNode returns an element holding text.
func NewNode(name, content string) *Node {
	return &Node{XMLName: xml.Name{Local: name}, Content: content}
}

// NewParent returns an element holding children.
func NewParent(name string, children ...*Node) *Node {
	return &Node{XMLName: xml.Name{Local: name}, Nodes: children}
}

// Name is the local element name.
func (n *Node) Name() string {
	return n.XMLName.Local
}

// Child returns the first child element with the given name.
func (n *Node) Child(name string) *Node {
	for _, child := range n.Nodes {
		if child.Name() == name {
			return child
		}
	}
	return nil
}

// Children returns every child element with the given name.
func (n *Node) Children(name string) []*Node {
	var children []*Node
	for _, child := range n.Nodes {
		if child.Name() == name {
			children = append(children, child)
		}
	}
	return children
}

// Field returns the trimmed text of the named child, or "".
func (n *Node) Field(name string) string {
	child := n.Child(name)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Content)
}

// Description is the description field of a control or output entry.
func (n *Node) Description() string {
	return n.Field("description")
}

// generated reports whether the entry's description is exactly Marker.
func (n *Node) generated() bool {
	description := n.Child("description")
	return description != nil && description.Content == Marker
}

// HasOption reports whether the entry's options element holds the named
// flag, e.g. "script-binding".
func (n *Node) HasOption(name string) bool {
	options := n.Child("options")
	if options == nil {
		return false
	}
	for _, option := range options.Nodes {
		if strings.EqualFold(option.Name(), name) {
			return true
		}
	}
	return false
}

// ensure returns the named child, appending an empty one if missing.
func (n *Node) ensure(name string) *Node {
	if child := n.Child(name); child != nil {
		return child
	}
	child := NewParent(name)
	n.Nodes = append(n.Nodes, child)
	return child
}

// replaceChildren swaps every child named name for the given list while
// keeping the position of the first one.
func (n *Node) replaceChildren(name string, children []*Node) {
	nodes := make([]*Node, 0, len(n.Nodes)+len(children))
	inserted := false
	for _, child := range n.Nodes {
		if child.Name() != name {
			nodes = append(nodes, child)
			continue
		}
		if !inserted {
			nodes = append(nodes, children...)
			inserted = true
		}
	}
	if !inserted {
		nodes = append(nodes, children...)
	}
	n.Nodes = nodes
}

// normalize drops the indentation text of container elements so the tree
// serializes the same way no matter how it was indented.
func (n *Node) normalize() {
	if len(n.Nodes) == 0 {
		return
	}
	if strings.TrimSpace(n.Content) == "" {
		n.Content = ""
	}
	for _, child := range n.Nodes {
		child.normalize()
	}
}
