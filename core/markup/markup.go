// Package markup tokenizes inline formatting markers embedded in plain
// text into ordered runs of styled text.
//
// Recognized markers, most specific first:
//
//	{sub:...}   subscript
//	{sup:...}   superscript
//	***...***   bold (bold-italic collapses to bold)
//	**...**     bold
//	*...*       italic
//
// Matching is non-greedy and left-to-right; the first marker wins and
// scanning resumes after it, so overlapping markers are not supported.
package markup

import (
	"regexp"
	"strings"
)

// Style classifies a run of text.
type Style int

// Run styles.
const (
	StyleNone Style = iota
	StyleBold
	StyleItalic
	StyleSubscript
	StyleSuperscript
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleNone:
		return "none"
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleSubscript:
		return "subscript"
	case StyleSuperscript:
		return "superscript"
	default:
		return "unknown"
	}
}

// Run is a contiguous span of text sharing one style.
type Run struct {
	Text  string
	Style Style
}

// markerPattern lists the marker alternatives in priority order. Go's
// regexp engine prefers earlier alternatives at the same position, which
// gives the longest/most specific marker precedence.
var markerPattern = regexp.MustCompile(
	`\{sub:(.+?)\}|\{sup:(.+?)\}|\*\*\*(.+?)\*\*\*|\*\*(.+?)\*\*|\*(.+?)\*`,
)

// groupStyles maps submatch group index to the style it captures.
var groupStyles = [...]Style{
	1: StyleSubscript,
	2: StyleSuperscript,
	3: StyleBold,
	4: StyleBold,
	5: StyleItalic,
}

// Parse splits text into an ordered run sequence. Text outside any
// marker becomes a plain run; input with no markers yields a single
// plain run. Parse is pure: the same input always produces the same
// runs.
func Parse(text string) []Run {
	if text == "" {
		return []Run{{Text: "", Style: StyleNone}}
	}

	var runs []Run
	pos := 0
	for _, m := range markerPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > pos {
			runs = append(runs, Run{Text: text[pos:m[0]], Style: StyleNone})
		}
		for group := 1; group < len(groupStyles); group++ {
			start, end := m[2*group], m[2*group+1]
			if start < 0 {
				continue
			}
			runs = append(runs, Run{Text: text[start:end], Style: groupStyles[group]})
			break
		}
		pos = m[1]
	}
	if pos < len(text) {
		runs = append(runs, Run{Text: text[pos:], Style: StyleNone})
	}
	if runs == nil {
		runs = []Run{{Text: text, Style: StyleNone}}
	}
	return runs
}

// Flatten joins the run texts with all markers stripped, discarding
// style information. Used for titles and other plain-text contexts.
func Flatten(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Strip is a convenience for Flatten(Parse(text)).
func Strip(text string) string {
	return Flatten(Parse(text))
}
