// Package xmltree provides the XML document model used across the
// synthesis engine: parsing, programmatic tree construction, node
// splicing, XPath queries, and serialization with the RittDoc header.
// It is backed by the antchfx/xmlquery node type so that the generator,
// resolver, validator, and packager all share one representation.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	rderrors "github.com/risdev/rittdoc/core/errors"
)

// RittDoc doctype identifiers. Both the serializer and the validator
// depend on these exact strings.
const (
	DoctypePublic = "-//RIS Dev//DTD DocBook V4.3 -Based Variant V1.1//EN"
	DoctypeSystem = "http://LOCALHOST/dtd/V1.1/RittDocBook.dtd"

	// Header is the fixed XML declaration emitted ahead of every document.
	Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

// Doctype returns the document type declaration for the given root
// element, without an internal subset.
func Doctype(root string) string {
	return fmt.Sprintf("<!DOCTYPE %s PUBLIC %q\n  %q>\n", root, DoctypePublic, DoctypeSystem)
}

// Document wraps a parsed or constructed XML tree.
type Document struct {
	root *xmlquery.Node
}

// Parse parses XML data into a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &rderrors.ParseError{Format: "XML", Message: err.Error(), Err: err}
	}
	return &Document{root: root}, nil
}

// New creates an empty document with a single root element and returns
// both the document and the root node.
func New(rootName string) (*Document, *xmlquery.Node) {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	root := Elem(rootName)
	Append(doc, root)
	return &Document{root: doc}, root
}

// Root returns the document's root element, or nil if there is none.
func (d *Document) Root() *xmlquery.Node {
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

// Serialize renders the root element only, without declaration or
// doctype. Text and attribute values are entity-escaped by the
// underlying serializer.
func (d *Document) Serialize() []byte {
	root := d.Root()
	if root == nil {
		return nil
	}
	return []byte(root.OutputXML(true))
}

// SerializeBook renders the full document: XML declaration, RittDoc
// doctype for the root element, then the tree.
func (d *Document) SerializeBook() []byte {
	root := d.Root()
	if root == nil {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString(Doctype(root.Data))
	buf.WriteString(root.OutputXML(true))
	buf.WriteString("\n")
	return buf.Bytes()
}

// XPath executes an XPath query and returns all matching nodes.
func (d *Document) XPath(expr string) ([]*xmlquery.Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return nodes, nil
}

// XPathFirst executes an XPath query and returns the first match, or nil.
func (d *Document) XPathFirst(expr string) (*xmlquery.Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	return node, nil
}

// WellFormed checks that data is well-formed XML. Entity expansion is
// disabled, so external-entity content is never fetched or inlined.
func WellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
