// Package pack assembles the distributable RittDoc package: the book
// split into per-chapter entity files under a shell Book.xml, the media
// directory, CSV metadata sidecars, and a BLAKE3 checksum manifest. The
// assembled package is an in-memory file set; writers emit it as a
// directory tree, a zip, or a tar.xz archive.
package pack

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/zeebo/blake3"

	"github.com/risdev/rittdoc/core/document"
	"github.com/risdev/rittdoc/core/generate"
	"github.com/risdev/rittdoc/core/xmltree"
	"github.com/risdev/rittdoc/internal/fileguard"
)

// MediaDir is the package subdirectory holding image payloads.
const MediaDir = "multimedia"

// ShellName is the top-level book file referencing the chapter entities.
const ShellName = "Book.xml"

// ChecksumName is the BLAKE3 manifest file.
const ChecksumName = "checksums.blake3"

// File is one member of an assembled package.
type File struct {
	Name   string // slash-separated path inside the package
	Data   []byte
	Digest string // BLAKE3-256 hex of Data
}

// Package is the complete in-memory file set.
type Package struct {
	Files []File
}

// Find returns the named file, or nil.
func (p *Package) Find(name string) *File {
	for i := range p.Files {
		if p.Files[i].Name == name {
			return &p.Files[i]
		}
	}
	return nil
}

// Result reports a packaging attempt. Packaging failures never panic or
// abort: they land in Errors with Success false.
type Result struct {
	Success bool
	Package *Package
	Errors  []string
}

// Packager assembles packages. The zero value is ready to use.
type Packager struct{}

// New returns a Packager.
func New() *Packager {
	return &Packager{}
}

// Create assembles the package from the serialized book, the source
// document (for image payloads and metadata), and the generator's
// rename table.
func (p *Packager) Create(bookXML []byte, doc *document.Document, renames generate.RenameTable) *Result {
	res := &Result{}

	if err := xmltree.WellFormed(bookXML); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("book XML is not well-formed: %v", err))
		return res
	}
	tree, err := xmltree.Parse(bookXML)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("book XML does not parse: %v", err))
		return res
	}
	book := tree.Root()
	if book == nil || book.Data != "book" {
		res.Errors = append(res.Errors, "book XML has no book root element")
		return res
	}

	pkg := &Package{}

	chapterIDs := p.splitChapters(pkg, book, res)
	p.addShell(pkg, book, chapterIDs)
	mediaCount := p.addMedia(pkg, doc, renames, res)
	p.addImageMetadata(pkg, doc, renames)
	p.addBookMetadata(pkg, doc, tree, len(chapterIDs), mediaCount)
	p.addChecksums(pkg)

	res.Package = pkg
	res.Success = len(res.Errors) == 0
	return res
}

// splitChapters serializes each chapter child of book into its own
// entity file and returns the chapter ids in document order.
func (p *Packager) splitChapters(pkg *Package, book *xmlquery.Node, res *Result) []string {
	var ids []string
	n := 0
	for _, ch := range xmltree.ChildElements(book) {
		if ch.Data != "chapter" {
			continue
		}
		n++
		id := xmltree.Attr(ch, "id")
		if id == "" {
			id = fmt.Sprintf("ch%04d", n)
		}
		name := id + ".xml"
		if err := fileguard.Check(name); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("chapter %d: %v", n, err))
			continue
		}
		var buf strings.Builder
		buf.WriteString(xmltree.Header)
		buf.WriteString(xmltree.Doctype("chapter"))
		buf.WriteString(ch.OutputXML(true))
		buf.WriteString("\n")
		addFile(pkg, name, []byte(buf.String()))
		ids = append(ids, id)
	}
	return ids
}

// addShell emits Book.xml: the book element with its bookinfo inline
// and each chapter replaced by an external entity reference declared in
// the internal subset.
func (p *Packager) addShell(pkg *Package, book *xmlquery.Node, chapterIDs []string) {
	var buf strings.Builder
	buf.WriteString(xmltree.Header)

	buf.WriteString(fmt.Sprintf("<!DOCTYPE book PUBLIC %q\n  %q [\n", xmltree.DoctypePublic, xmltree.DoctypeSystem))
	for _, id := range chapterIDs {
		buf.WriteString(fmt.Sprintf("<!ENTITY %s SYSTEM %q>\n", id, id+".xml"))
	}
	buf.WriteString("]>\n")

	buf.WriteString("<book")
	for _, attr := range book.Attr {
		buf.WriteString(fmt.Sprintf(" %s=%q", attr.Name.Local, attr.Value))
	}
	buf.WriteString(">\n")

	for _, child := range xmltree.ChildElements(book) {
		if child.Data == "chapter" {
			continue
		}
		buf.WriteString(child.OutputXML(true))
		buf.WriteString("\n")
	}
	for _, id := range chapterIDs {
		buf.WriteString(fmt.Sprintf("&%s;\n", id))
	}
	buf.WriteString("</book>\n")

	addFile(pkg, ShellName, []byte(buf.String()))
}

// addMedia copies image payloads under their canonical names and
// returns the number of files emitted. Images without payload data are
// skipped; images the rename table does not know keep their original
// name.
func (p *Packager) addMedia(pkg *Package, doc *document.Document, renames generate.RenameTable, res *Result) int {
	count := 0
	for _, img := range doc.Images() {
		if len(img.Data) == 0 {
			continue
		}
		name := renames[img.Filename]
		if name == "" {
			name = img.Filename
		}
		if name == "" {
			continue
		}
		path := MediaDir + "/" + name
		if err := fileguard.Check(path); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("media %q: %v", img.Filename, err))
			continue
		}
		if pkg.Find(path) != nil {
			continue
		}
		addFile(pkg, path, img.Data)
		count++
	}
	return count
}

// addChecksums appends the BLAKE3 manifest covering every file added so
// far.
func (p *Packager) addChecksums(pkg *Package) {
	var buf strings.Builder
	for _, f := range pkg.Files {
		buf.WriteString(f.Digest)
		buf.WriteString("  ")
		buf.WriteString(f.Name)
		buf.WriteString("\n")
	}
	addFile(pkg, ChecksumName, []byte(buf.String()))
}

func addFile(pkg *Package, name string, data []byte) {
	sum := blake3.Sum256(data)
	pkg.Files = append(pkg.Files, File{
		Name:   name,
		Data:   data,
		Digest: hex.EncodeToString(sum[:]),
	})
}
