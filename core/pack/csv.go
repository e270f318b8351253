package pack

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/risdev/rittdoc/core/document"
	"github.com/risdev/rittdoc/core/generate"
	"github.com/risdev/rittdoc/core/xmltree"
)

// Sidecar file names.
const (
	ImageMetadataName = "metadata.csv"
	BookMetadataName  = "book_metadata.csv"
)

// canonicalParts extracts chapter and figure numbers from a canonical
// media filename.
var canonicalParts = regexp.MustCompile(`^Ch(\d{4})s\d{4}fg(\d{2})\.(\w+)$`)

// addImageMetadata emits the per-image CSV sidecar. Every image with a
// payload gets a row, whether or not it was renamed.
func (p *Packager) addImageMetadata(pkg *Package, doc *document.Document, renames generate.RenameTable) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"Filename", "Original Filename", "Chapter", "Figure Number",
		"Caption", "Alt Text", "Width", "Height", "File Size", "Format",
	})
	for _, img := range doc.Images() {
		if len(img.Data) == 0 {
			continue
		}
		name := renames[img.Filename]
		if name == "" {
			name = img.Filename
		}
		chapter, figure, format := "", "", ""
		if m := canonicalParts.FindStringSubmatch(name); m != nil {
			chapter = "Ch" + m[1]
			figure = m[2]
			format = m[3]
		} else if i := strings.LastIndexByte(name, '.'); i >= 0 {
			format = name[i+1:]
		}
		w.Write([]string{
			name,
			img.Filename,
			chapter,
			figure,
			img.Caption,
			img.AltText,
			dimension(img.Width),
			dimension(img.Height),
			formatSize(len(img.Data)),
			strings.ToUpper(format),
		})
	}
	w.Flush()
	addFile(pkg, ImageMetadataName, buf.Bytes())
}

// addBookMetadata emits the book-level Field/Value CSV sidecar.
func (p *Packager) addBookMetadata(pkg *Package, doc *document.Document, tree *xmltree.Document, chapters, images int) {
	tables := 0
	if nodes, err := tree.XPath("//table"); err == nil {
		tables = len(nodes)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Field", "Value"})
	w.Write([]string{"Title", doc.Title})
	w.Write([]string{"Authors", strings.Join(doc.Authors, "; ")})
	w.Write([]string{"ISBN", doc.Meta.ISBN})
	w.Write([]string{"Publisher", doc.Meta.Publisher})
	w.Write([]string{"Publication Date", doc.Meta.PubDate})
	w.Write([]string{"Created", doc.Meta.Created})
	w.Write([]string{"Modified", doc.Meta.Modified})
	w.Write([]string{"Chapters", strconv.Itoa(chapters)})
	w.Write([]string{"Tables", strconv.Itoa(tables)})
	w.Write([]string{"Images", strconv.Itoa(images)})
	w.Flush()
	addFile(pkg, BookMetadataName, buf.Bytes())
}

// dimension renders a pixel dimension, blank when unknown.
func dimension(v int) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

// formatSize renders a byte count for the sidecar: whole bytes below
// 1 KB, one decimal above.
func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n)
	for _, unit := range []string{"KB", "MB", "GB", "TB"} {
		size /= 1024
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.1f PB", size/1024)
}
