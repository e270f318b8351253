// Package validate checks a serialized RittDoc book against the
// dialect's structural rules: allowed elements, mandatory titles and
// attributes, id grammar and uniqueness, figure media chains, CALS
// table shape, and the doctype header. Rules live in declarative
// tables; one walker applies them all.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/risdev/rittdoc/core/xmltree"
)

// Severity ranks a finding.
type Severity int

const (
	// SeverityWarning marks recoverable deviations.
	SeverityWarning Severity = iota
	// SeverityError marks dialect violations; any error fails the report.
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding is one rule violation.
type Finding struct {
	Severity Severity `json:"severity"`
	Element  string   `json:"element,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// VerificationItem flags content a human should look at. Verification
// items never affect validity.
type VerificationItem struct {
	Element    string `json:"element,omitempty"`
	Line       int    `json:"line,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Report is the complete outcome of a validation pass.
type Report struct {
	Valid        bool               `json:"is_valid"`
	Errors       []Finding          `json:"errors"`
	Warnings     []Finding          `json:"warnings"`
	Verification []VerificationItem `json:"manual_verification"`
	Counts       map[string]int     `json:"statistics"`
}

// Validator checks serialized books. The zero value is ready to use.
type Validator struct{}

// New returns a Validator.
func New() *Validator {
	return &Validator{}
}

// checker accumulates findings during one pass.
type checker struct {
	report *Report
	lines  map[*xmlquery.Node]int
	ids    map[string]bool
}

// Validate runs every rule against the serialized book. A document that
// does not parse yields a report with exactly one error. Validate never
// returns a Go error: every failure mode is a report outcome.
func (v *Validator) Validate(data []byte) *Report {
	report := &Report{Counts: make(map[string]int)}

	if err := xmltree.WellFormed(data); err != nil {
		report.Errors = append(report.Errors, Finding{
			Severity: SeverityError,
			Message:  fmt.Sprintf("document is not well-formed XML: %v", err),
		})
		return report
	}
	doc, err := xmltree.Parse(data)
	if err != nil || doc.Root() == nil {
		msg := "document is not well-formed XML"
		if err != nil {
			msg = fmt.Sprintf("document is not well-formed XML: %v", err)
		}
		report.Errors = append(report.Errors, Finding{Severity: SeverityError, Message: msg})
		return report
	}

	c := &checker{
		report: report,
		ids:    make(map[string]bool),
	}
	elements := collectElements(doc.Root())
	c.lines = buildLineIndex(data, elements)

	c.checkDoctype(data, doc.Root().Data)
	for _, el := range elements {
		c.checkElement(el)
	}
	for _, name := range countedElements {
		if _, ok := report.Counts[name]; !ok {
			report.Counts[name] = 0
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// checkDoctype inspects the raw text ahead of the root element. The
// parsed tree does not retain the doctype, so this is a text check.
func (c *checker) checkDoctype(data []byte, root string) {
	head := string(data)
	if end := strings.Index(head, "<"+root); end >= 0 {
		head = head[:end]
	}
	if !strings.Contains(head, "<!DOCTYPE") {
		c.warn("", 0, "missing DOCTYPE declaration")
		return
	}
	if !strings.Contains(head, xmltree.DoctypePublic) {
		c.warn("", 0, fmt.Sprintf("DOCTYPE public identifier is not %q", xmltree.DoctypePublic))
	}
	if !strings.Contains(head, xmltree.DoctypeSystem) {
		c.warn("", 0, fmt.Sprintf("DOCTYPE system identifier is not %q", xmltree.DoctypeSystem))
	}
}

// checkElement applies every table-driven rule to one element.
func (c *checker) checkElement(el *xmlquery.Node) {
	name := el.Data
	line := c.lines[el]
	c.report.Counts[name]++

	if excludedElements[name] {
		c.fail(name, line, fmt.Sprintf("element <%s> is not part of the dialect", name))
	}
	if htmlTableElements[name] {
		c.fail(name, line, fmt.Sprintf("HTML table element <%s> found; tables must use CALS markup", name))
	}

	if titleRequired[name] && !hasTitle(el) {
		c.fail(name, line, fmt.Sprintf("<%s> is missing a title", name))
	}

	if parent, ok := requiredParent[name]; ok {
		if el.Parent == nil || el.Parent.Data != parent {
			c.fail(name, line, fmt.Sprintf("<%s> must be nested directly inside <%s>", name, parent))
		}
	}

	for _, attr := range requiredAttributes[name] {
		if !xmltree.HasAttr(el, attr) {
			c.fail(name, line, fmt.Sprintf("<%s> is missing required attribute %q", name, attr))
		}
	}

	if id := xmltree.Attr(el, "id"); id != "" {
		if c.ids[id] {
			c.fail(name, line, fmt.Sprintf("duplicate id %q", id))
		}
		c.ids[id] = true
		if pattern, ok := idPatterns[name]; ok && !pattern.MatchString(id) {
			c.warn(name, line, fmt.Sprintf("id %q does not match the expected format for <%s>", id, name))
		}
	}

	switch name {
	case "figure":
		c.checkFigure(el, line)
	case "table":
		if xmltree.FindChild(el, "tgroup") == nil {
			c.fail("table", line, "table has no tgroup (CALS format)")
		}
	case "tgroup":
		c.checkTgroup(el, line)
	case "imagedata":
		c.checkImagedata(el, line)
	}
}

// checkFigure verifies the media chain figure > mediaobject >
// imageobject > imagedata. Each missing link is its own error.
func (c *checker) checkFigure(el *xmlquery.Node, line int) {
	media := xmltree.FindChild(el, "mediaobject")
	if media == nil {
		c.fail("figure", line, "figure has no mediaobject")
		return
	}
	imgObj := xmltree.FindChild(media, "imageobject")
	if imgObj == nil {
		c.fail("figure", line, "figure mediaobject has no imageobject")
		return
	}
	if xmltree.FindChild(imgObj, "imagedata") == nil {
		c.fail("figure", line, "figure imageobject has no imagedata")
	}
}

// checkTgroup verifies the cols count and the presence of a body.
func (c *checker) checkTgroup(el *xmlquery.Node, line int) {
	if cols := xmltree.Attr(el, "cols"); cols != "" {
		n, err := strconv.Atoi(cols)
		if err != nil || n <= 0 {
			c.fail("tgroup", line, fmt.Sprintf("tgroup cols %q is not a positive integer", cols))
		}
	}
	if xmltree.FindChild(el, "tbody") == nil {
		c.warn("tgroup", line, "tgroup has no tbody")
	}
}

// checkImagedata emits sizing warnings and routes off-convention
// filenames to manual verification.
func (c *checker) checkImagedata(el *xmlquery.Node, line int) {
	if !xmltree.HasAttr(el, "width") {
		c.warn("imagedata", line, "imagedata has no width")
	}
	if xmltree.Attr(el, "scalefit") != "1" {
		c.warn("imagedata", line, `imagedata scalefit is not "1"`)
	}
	fileref := xmltree.Attr(el, "fileref")
	if fileref == "" {
		return
	}
	base := fileref
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if !canonicalImageName.MatchString(base) {
		c.report.Verification = append(c.report.Verification, VerificationItem{
			Element:    "imagedata",
			Line:       line,
			Message:    fmt.Sprintf("image filename %q does not follow the package naming convention", base),
			Suggestion: "rename the file to the ChNNNNsNNNNfgNN.<ext> convention or confirm the external reference",
		})
	}
}

func (c *checker) fail(element string, line int, msg string) {
	c.report.Errors = append(c.report.Errors, Finding{
		Severity: SeverityError, Element: element, Line: line, Message: msg,
	})
}

func (c *checker) warn(element string, line int, msg string) {
	c.report.Warnings = append(c.report.Warnings, Finding{
		Severity: SeverityWarning, Element: element, Line: line, Message: msg,
	})
}

// hasTitle reports whether el carries a title child, accepting the
// bookinfo placement for the book element.
func hasTitle(el *xmlquery.Node) bool {
	if xmltree.FindChild(el, "title") != nil {
		return true
	}
	if el.Data == "book" {
		if info := xmltree.FindChild(el, "bookinfo"); info != nil {
			return xmltree.FindChild(info, "title") != nil
		}
	}
	return false
}

// collectElements walks the tree in document order.
func collectElements(root *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		if n.Type == xmlquery.ElementNode {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}
