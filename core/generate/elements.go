package generate

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/risdev/rittdoc/core/document"
	"github.com/risdev/rittdoc/core/xmltree"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	anySpace     = regexp.MustCompile(`\s+`)
)

// cleanText strips control characters, collapses whitespace runs to a
// single space, and trims the result. Applied to every text payload
// before it enters the tree.
func cleanText(s string) string {
	s = controlChars.ReplaceAllString(s, "")
	s = anySpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// image appends a figure for the element at the current position. The
// canonical filename is recorded in the rename table; the payload is
// never touched.
func (b *builder) image(img *document.Image) {
	if len(img.Data) == 0 {
		return
	}
	b.closeList()
	parent := b.parent()

	b.figureNum++
	b.globalFig++
	b.stats.Figures++

	id := fmt.Sprintf("ch%04d%sfg%02d", b.chapterNum, b.sectionCode(), b.figureNum)
	b.figureRefs[b.globalFig] = id

	ext := path.Ext(img.Filename)
	if ext == "" {
		ext = ".png"
	}
	canonical := fmt.Sprintf("Ch%04d%sfg%02d%s", b.chapterNum, b.sectionCode(), b.figureNum, ext)
	b.renames[img.Filename] = canonical

	title := cleanText(img.Caption)
	if title == "" {
		title = fmt.Sprintf("Figure %d", b.globalFig)
	}

	figure := xmltree.AddElement(parent, "figure")
	xmltree.SetAttr(figure, "id", id)
	xmltree.AddTextElement(figure, "title", title)

	media := xmltree.AddElement(figure, "mediaobject")
	imgObj := xmltree.AddElement(media, "imageobject")
	data := xmltree.AddElement(imgObj, "imagedata")
	xmltree.SetAttr(data, "fileref", b.gen.MediaPrefix+canonical)
	if img.Width > 0 {
		xmltree.SetAttr(data, "width", fmt.Sprintf("%dpx", img.Width))
	}
	if img.Height > 0 {
		xmltree.SetAttr(data, "depth", fmt.Sprintf("%dpx", img.Height))
	}
	xmltree.SetAttr(data, "scalefit", "1")

	if alt := cleanText(img.AltText); alt != "" {
		textObj := xmltree.AddElement(media, "textobject")
		xmltree.AddTextElement(textObj, "phrase", alt)
	}
}

// table appends a CALS table for the element at the current position.
// Tables with no rows are skipped.
func (b *builder) table(t *document.Table) {
	if len(t.Rows) == 0 {
		return
	}
	b.closeList()
	parent := b.parent()

	b.tableNum++
	b.globalTab++
	b.stats.Tables++

	id := fmt.Sprintf("ch%04d%stb%02d", b.chapterNum, b.sectionCode(), b.tableNum)
	b.tableRefs[b.globalTab] = id

	title := cleanText(t.Caption)
	if title == "" {
		title = fmt.Sprintf("Table %d", b.globalTab)
	}

	table := xmltree.AddElement(parent, "table")
	xmltree.SetAttr(table, "id", id)
	xmltree.AddTextElement(table, "title", title)

	cols := t.Columns
	if cols <= 0 {
		for _, row := range t.Rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
	}
	if cols < 1 {
		cols = 1
	}

	tgroup := xmltree.AddElement(table, "tgroup")
	xmltree.SetAttr(tgroup, "cols", fmt.Sprintf("%d", cols))
	for i := 1; i <= cols; i++ {
		colspec := xmltree.AddElement(tgroup, "colspec")
		xmltree.SetAttr(colspec, "colname", fmt.Sprintf("c%d", i))
	}

	headerRows := t.HeaderRows
	if headerRows > len(t.Rows) {
		headerRows = len(t.Rows)
	}
	if headerRows > 0 {
		thead := xmltree.AddElement(tgroup, "thead")
		for _, row := range t.Rows[:headerRows] {
			addRow(thead, row)
		}
	}
	if body := t.Rows[max(headerRows, 0):]; len(body) > 0 {
		tbody := xmltree.AddElement(tgroup, "tbody")
		for _, row := range body {
			addRow(tbody, row)
		}
	}
}

// addRow appends a CALS row. Cell text is cleaned but kept verbatim;
// inline markers inside table cells are not interpreted.
func addRow(parent *xmlquery.Node, cells []string) {
	row := xmltree.AddElement(parent, "row")
	for _, cell := range cells {
		xmltree.AddTextElement(row, "entry", cleanText(cell))
	}
}
