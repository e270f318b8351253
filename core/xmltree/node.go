package xmltree

import (
	"encoding/xml"

	"github.com/antchfx/xmlquery"
)

// Elem creates a detached element node.
func Elem(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

// Text creates a detached text node.
func Text(s string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.TextNode, Data: s}
}

// Append attaches child as the last child of parent.
func Append(parent, child *xmlquery.Node) {
	child.Parent = parent
	child.NextSibling = nil
	if parent.LastChild == nil {
		parent.FirstChild = child
		child.PrevSibling = nil
	} else {
		parent.LastChild.NextSibling = child
		child.PrevSibling = parent.LastChild
	}
	parent.LastChild = child
}

// AddElement creates an element, appends it to parent, and returns it.
func AddElement(parent *xmlquery.Node, name string) *xmlquery.Node {
	el := Elem(name)
	Append(parent, el)
	return el
}

// AddText appends a text node to parent. Empty strings are dropped so
// the tree never carries zero-length text nodes.
func AddText(parent *xmlquery.Node, s string) {
	if s == "" {
		return
	}
	Append(parent, Text(s))
}

// AddTextElement creates an element with the given text content,
// appends it to parent, and returns it.
func AddTextElement(parent *xmlquery.Node, name, text string) *xmlquery.Node {
	el := AddElement(parent, name)
	AddText(el, text)
	return el
}

// SetAttr sets or replaces an attribute on the node.
func SetAttr(n *xmlquery.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Name.Local == key && n.Attr[i].Name.Space == "" {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xmlquery.Attr{Name: xml.Name{Local: key}, Value: value})
}

// Attr returns the value of the named attribute, or "".
func Attr(n *xmlquery.Node, key string) string {
	return n.SelectAttr(key)
}

// HasAttr reports whether the node carries the named attribute.
func HasAttr(n *xmlquery.Node, key string) bool {
	for i := range n.Attr {
		if n.Attr[i].Name.Local == key && n.Attr[i].Name.Space == "" {
			return true
		}
	}
	return false
}

// ChildElements returns the element children of n in document order.
func ChildElements(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// FindChild returns the first element child with the given name, or nil.
func FindChild(n *xmlquery.Node, name string) *xmlquery.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name {
			return child
		}
	}
	return nil
}

// Detach removes n from its parent, leaving siblings correctly linked.
func Detach(n *xmlquery.Node) {
	if n.Parent != nil {
		if n.Parent.FirstChild == n {
			n.Parent.FirstChild = n.NextSibling
		}
		if n.Parent.LastChild == n {
			n.Parent.LastChild = n.PrevSibling
		}
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// Replace substitutes old with n in the tree. The old node is detached.
func Replace(old, n *xmlquery.Node) {
	n.Parent = old.Parent
	n.PrevSibling = old.PrevSibling
	n.NextSibling = old.NextSibling
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n
	}
	if old.Parent != nil {
		if old.Parent.FirstChild == old {
			old.Parent.FirstChild = n
		}
		if old.Parent.LastChild == old {
			old.Parent.LastChild = n
		}
	}
	old.Parent = nil
	old.PrevSibling = nil
	old.NextSibling = nil
}

// InsertBefore places n immediately before ref under the same parent.
func InsertBefore(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.PrevSibling = ref.PrevSibling
	n.NextSibling = ref
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}
