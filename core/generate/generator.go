// Package generate synthesizes the RittDoc book tree from an ordered
// document element stream. It maintains the open-container state
// machine, assigns hierarchical ids, builds CALS tables and figures,
// and records the cross-reference maps consumed by the resolver.
package generate

import (
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/risdev/rittdoc/core/document"
	"github.com/risdev/rittdoc/core/markup"
	"github.com/risdev/rittdoc/core/xmltree"
)

// RefMap maps a global figure or table sequence number to the generated
// element id. Populated once during the build pass, read-only afterward.
type RefMap map[int]string

// RenameTable maps an image's original filename to its canonical
// package filename. It is the only channel through which the generator
// publishes renames; image payloads are never mutated.
type RenameTable map[string]string

// BuildStats summarizes what the build pass produced.
type BuildStats struct {
	Chapters   int
	Sections   int
	Paragraphs int
	Figures    int
	Tables     int
}

// BuildResult is the complete output of a build pass.
type BuildResult struct {
	Tree       *xmltree.Document
	FigureRefs RefMap
	TableRefs  RefMap
	Renames    RenameTable
	Stats      BuildStats
}

// Generator builds RittDoc trees. The zero value is not usable; call New.
type Generator struct {
	// MediaPrefix is prepended to canonical filenames in figure
	// references, matching the package media directory.
	MediaPrefix string
	// IncludeBookInfo controls whether a bookinfo block is synthesized.
	IncludeBookInfo bool
}

// New returns a Generator with the standard package conventions.
func New() *Generator {
	return &Generator{
		MediaPrefix:     "multimedia/",
		IncludeBookInfo: true,
	}
}

// builder carries the open-container state machine for one build pass.
type builder struct {
	gen  *Generator
	doc  *document.Document
	root *xmlquery.Node

	chapter *xmlquery.Node
	sect1   *xmlquery.Node
	sect2   *xmlquery.Node
	sect3   *xmlquery.Node

	list     *xmlquery.Node
	listType document.ListType

	chapterNum int
	sect1Num   int
	sect2Num   int // shared sub-position slot: advanced by sect2 and sect3 creation
	sect3Num   int
	figureNum  int // per chapter
	tableNum   int // per chapter

	globalFig int // never reset; feeds FigureRefs
	globalTab int // never reset; feeds TableRefs

	figureRefs RefMap
	tableRefs  RefMap
	renames    RenameTable
	stats      BuildStats
}

// Build runs the single sequential pass over the element stream and
// returns the finished tree with its cross-reference maps. Build never
// fails: malformed elements are skipped and every input produces a
// valid tree.
func (g *Generator) Build(doc *document.Document) *BuildResult {
	tree, root := xmltree.New("book")

	b := &builder{
		gen:        g,
		doc:        doc,
		root:       root,
		figureRefs: make(RefMap),
		tableRefs:  make(RefMap),
		renames:    make(RenameTable),
	}

	if g.IncludeBookInfo {
		b.addBookInfo()
	}

	for i := range doc.Elements {
		el := &doc.Elements[i]
		switch el.Kind {
		case document.KindParagraph:
			if el.Paragraph != nil {
				b.paragraph(el.Paragraph)
			}
		case document.KindImage:
			if el.Image != nil {
				b.image(el.Image)
			}
		case document.KindTable:
			if el.Table != nil {
				b.table(el.Table)
			}
		}
	}

	return &BuildResult{
		Tree:       tree,
		FigureRefs: b.figureRefs,
		TableRefs:  b.tableRefs,
		Renames:    b.renames,
		Stats:      b.stats,
	}
}

// paragraph dispatches a text block to heading or body handling.
func (b *builder) paragraph(p *document.Paragraph) {
	switch {
	case p.Level == 1:
		b.newChapter(markup.Strip(cleanText(p.Text)))
	case p.Level == 2:
		b.newSect1(markup.Strip(cleanText(p.Text)))
	case p.Level == 3:
		b.newSect2(markup.Strip(cleanText(p.Text)))
	case p.Level >= 4:
		b.newSect3(markup.Strip(cleanText(p.Text)))
	default:
		b.body(p)
	}
}

// newChapter opens a chapter and resets all per-chapter state.
func (b *builder) newChapter(title string) {
	b.closeList()
	b.sect1, b.sect2, b.sect3 = nil, nil, nil
	b.sect1Num, b.sect2Num, b.sect3Num = 0, 0, 0
	b.figureNum, b.tableNum = 0, 0

	b.chapterNum++
	b.stats.Chapters++
	b.chapter = xmltree.AddElement(b.root, "chapter")
	xmltree.SetAttr(b.chapter, "id", fmt.Sprintf("ch%04d", b.chapterNum))
	xmltree.AddTextElement(b.chapter, "title", title)
}

func (b *builder) newSect1(title string) {
	b.closeList()
	b.sect2, b.sect3 = nil, nil
	b.sect2Num, b.sect3Num = 0, 0
	b.ensureChapter()

	b.sect1Num++
	b.stats.Sections++
	b.sect1 = xmltree.AddElement(b.chapter, "sect1")
	xmltree.SetAttr(b.sect1, "id", b.sectionID())
	xmltree.AddTextElement(b.sect1, "title", title)
}

func (b *builder) newSect2(title string) {
	b.closeList()
	b.sect3 = nil
	b.sect3Num = 0
	b.ensureSect1()

	b.sect2Num++
	b.stats.Sections++
	b.sect2 = xmltree.AddElement(b.sect1, "sect2")
	xmltree.SetAttr(b.sect2, "id", b.sectionID())
	xmltree.AddTextElement(b.sect2, "title", title)
}

// newSect3 opens a sect3. The sub-position slot advances here as well:
// sect3 ids reuse the 4-digit section code, so without the bump a sect3
// would collide with its parent sect2's id.
func (b *builder) newSect3(title string) {
	b.closeList()
	b.ensureSect2()

	b.sect3Num++
	b.sect2Num++
	b.stats.Sections++
	b.sect3 = xmltree.AddElement(b.sect2, "sect3")
	xmltree.SetAttr(b.sect3, "id", b.sectionID())
	xmltree.AddTextElement(b.sect3, "title", title)
}

// ensureChapter auto-creates a default chapter when content arrives
// before any level-1 heading. The title falls back to the document
// title, then "Content".
func (b *builder) ensureChapter() {
	if b.chapter != nil {
		return
	}
	title := b.doc.Title
	if title == "" {
		title = "Content"
	}
	b.newChapter(title)
}

func (b *builder) ensureSect1() {
	b.ensureChapter()
	if b.sect1 != nil {
		return
	}
	b.sect1Num++
	b.stats.Sections++
	b.sect1 = xmltree.AddElement(b.chapter, "sect1")
	xmltree.SetAttr(b.sect1, "id", b.sectionID())
	xmltree.AddTextElement(b.sect1, "title", "Section")
}

func (b *builder) ensureSect2() {
	b.ensureSect1()
	if b.sect2 != nil {
		return
	}
	b.sect2Num++
	b.stats.Sections++
	b.sect2 = xmltree.AddElement(b.sect1, "sect2")
	xmltree.SetAttr(b.sect2, "id", b.sectionID())
	xmltree.AddTextElement(b.sect2, "title", "Subsection")
}

// sectionID builds the id of the most recently positioned section from
// the current counters: ch{chapter:04}s{sect1:02}{sub:02}.
func (b *builder) sectionID() string {
	return fmt.Sprintf("ch%04d%s", b.chapterNum, b.sectionCode())
}

// sectionCode is the fixed-width suffix encoding the current section
// position, s0000 when no sect1 has been opened in this chapter.
func (b *builder) sectionCode() string {
	return fmt.Sprintf("s%02d%02d", b.sect1Num, b.sect2Num)
}

// parent resolves the deepest open container, auto-creating a default
// chapter when the document has no structure yet.
func (b *builder) parent() *xmlquery.Node {
	switch {
	case b.sect3 != nil:
		return b.sect3
	case b.sect2 != nil:
		return b.sect2
	case b.sect1 != nil:
		return b.sect1
	default:
		b.ensureChapter()
		return b.chapter
	}
}

// body attaches a non-heading paragraph, managing list state.
func (b *builder) body(p *document.Paragraph) {
	parent := b.parent()

	if p.List != document.ListNone {
		if b.list == nil || b.listType != p.List {
			tag := "itemizedlist"
			if p.List == document.ListOrdered {
				tag = "orderedlist"
			}
			b.list = xmltree.AddElement(parent, tag)
			b.listType = p.List
		}
		item := xmltree.AddElement(b.list, "listitem")
		para := xmltree.AddElement(item, "para")
		b.setParaContent(para, p.Text)
		b.stats.Paragraphs++
		return
	}

	b.closeList()
	text := cleanText(p.Text)
	if text == "" {
		return
	}
	para := xmltree.AddElement(parent, "para")
	b.setParaContent(para, p.Text)
	b.stats.Paragraphs++
}

// closeList drops the open-list reference; subsequent items of the same
// type start a fresh container.
func (b *builder) closeList() {
	b.list = nil
	b.listType = document.ListNone
}

// setParaContent renders inline markup runs into the paragraph node.
func (b *builder) setParaContent(para *xmlquery.Node, text string) {
	for _, run := range markup.Parse(cleanText(text)) {
		switch run.Style {
		case markup.StyleNone:
			xmltree.AddText(para, run.Text)
		case markup.StyleBold:
			em := xmltree.AddTextElement(para, "emphasis", run.Text)
			xmltree.SetAttr(em, "role", "bold")
		case markup.StyleItalic:
			xmltree.AddTextElement(para, "emphasis", run.Text)
		case markup.StyleSubscript:
			xmltree.AddTextElement(para, "subscript", run.Text)
		case markup.StyleSuperscript:
			xmltree.AddTextElement(para, "superscript", run.Text)
		}
	}
}
