// Package resolve turns textual figure and table references ("see
// Figure 3", "Tables 2-4") into link elements targeting the generated
// ids. Reference spans are located with a regular expression and parsed
// with a small grammar; anything the grammar rejects or the reference
// maps cannot answer is left as plain text.
package resolve

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/antchfx/xmlquery"

	"github.com/risdev/rittdoc/core/generate"
	"github.com/risdev/rittdoc/core/xmltree"
)

// refPattern locates candidate reference spans. It accepts the full
// keyword, the abbreviated form with optional trailing dot, plurals,
// and an optional dash-separated range.
var refPattern = regexp.MustCompile(
	`(?i)\b(figures?|figs?\.?|tables?|tabs?\.?)\s+\d+(\s*[-\x{2013}\x{2014}]\s*\d+)?`,
)

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[A-Za-z]+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Dash", Pattern: `[-\x{2013}\x{2014}]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// refExpr is the shape of one located span: keyword, optional
// abbreviation dot, first number, optional range end. Only the first
// number participates in resolution; the range end is kept for the
// link's display text.
type refExpr struct {
	Keyword string `parser:"@Word"`
	Dot     bool   `parser:"@Dot?"`
	First   int    `parser:"@Int"`
	Second  *int   `parser:"(Dash @Int)?"`
}

var refParser = participle.MustBuild[refExpr](
	participle.Lexer(refLexer),
)

// Stats reports what a resolution pass did.
type Stats struct {
	Resolved   int
	Unresolved int
}

// Resolver rewrites references against the build pass's maps.
type Resolver struct {
	figures generate.RefMap
	tables  generate.RefMap
}

// New returns a Resolver bound to the given reference maps.
func New(figures, tables generate.RefMap) *Resolver {
	return &Resolver{figures: figures, tables: tables}
}

// Resolve rewrites references in place and returns pass statistics.
// The pass is idempotent: link contents are never rescanned, so running
// it twice changes nothing.
func (r *Resolver) Resolve(doc *xmltree.Document) (Stats, error) {
	var stats Stats

	// Emphasis nodes whose entire text is one reference become links
	// outright, keeping the author's styling decision out of the way.
	emphasis, err := doc.XPath("//emphasis")
	if err != nil {
		return stats, err
	}
	for _, node := range emphasis {
		r.resolveEmphasis(node, &stats)
	}

	paras, err := doc.XPath("//para")
	if err != nil {
		return stats, err
	}
	for _, para := range paras {
		r.resolvePara(para, &stats)
	}
	return stats, nil
}

// resolveEmphasis replaces an emphasis node with a link when its whole
// text content is a single reference.
func (r *Resolver) resolveEmphasis(node *xmlquery.Node, stats *Stats) {
	text := node.InnerText()
	loc := refPattern.FindStringIndex(text)
	if loc == nil || strings.TrimSpace(text[:loc[0]]) != "" || strings.TrimSpace(text[loc[1]:]) != "" {
		return
	}
	id, ok := r.lookup(text[loc[0]:loc[1]])
	if !ok {
		stats.Unresolved++
		return
	}
	link := xmltree.Elem("link")
	xmltree.SetAttr(link, "linkend", id)
	xmltree.AddText(link, text)
	xmltree.Replace(node, link)
	stats.Resolved++
}

// resolvePara splits the paragraph's direct text children around each
// resolvable reference. Children are snapshotted first so spliced-in
// link content is never revisited.
func (r *Resolver) resolvePara(para *xmlquery.Node, stats *Stats) {
	var texts []*xmlquery.Node
	for child := para.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.TextNode {
			texts = append(texts, child)
		}
	}
	for _, node := range texts {
		r.splitText(node, stats)
	}
}

func (r *Resolver) splitText(node *xmlquery.Node, stats *Stats) {
	text := node.Data
	matches := refPattern.FindAllStringIndex(text, -1)
	if matches == nil {
		return
	}

	replaced := false
	pos := 0
	for _, m := range matches {
		span := text[m[0]:m[1]]
		id, ok := r.lookup(span)
		if !ok {
			stats.Unresolved++
			continue
		}
		if m[0] > pos {
			xmltree.InsertBefore(node, xmltree.Text(text[pos:m[0]]))
		}
		link := xmltree.Elem("link")
		xmltree.SetAttr(link, "linkend", id)
		xmltree.AddText(link, span)
		xmltree.InsertBefore(node, link)
		pos = m[1]
		replaced = true
		stats.Resolved++
	}
	if !replaced {
		return
	}
	if pos < len(text) {
		xmltree.InsertBefore(node, xmltree.Text(text[pos:]))
	}
	xmltree.Detach(node)
}

// lookup parses a located span and answers it from the matching map.
// Range references resolve to their first number.
func (r *Resolver) lookup(span string) (string, bool) {
	expr, err := refParser.ParseString("", span)
	if err != nil {
		return "", false
	}
	var refs generate.RefMap
	switch {
	case strings.HasPrefix(strings.ToLower(expr.Keyword), "fig"):
		refs = r.figures
	case strings.HasPrefix(strings.ToLower(expr.Keyword), "tab"):
		refs = r.tables
	default:
		return "", false
	}
	id, ok := refs[expr.First]
	return id, ok
}
