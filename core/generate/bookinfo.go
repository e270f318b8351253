package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/risdev/rittdoc/core/xmltree"
)

// Metadata defaults used when the hand-off document leaves a field
// empty. Downstream tooling expects every bookinfo field present.
const (
	defaultISBN      = "0000000000000"
	defaultTitle     = "Untitled Document"
	defaultAuthor    = "Unknown Author"
	defaultPublisher = "Unknown Publisher"
	defaultEdition   = "1st Edition"
)

// addBookInfo synthesizes the bookinfo block from document metadata,
// filling gaps with the standard defaults.
func (b *builder) addBookInfo() {
	meta := b.doc.Meta
	info := xmltree.AddElement(b.root, "bookinfo")

	isbn := meta.ISBN
	if isbn == "" {
		isbn = defaultISBN
	}
	xmltree.AddTextElement(info, "isbn", isbn)

	title := cleanText(b.doc.Title)
	if title == "" {
		title = defaultTitle
	}
	xmltree.AddTextElement(info, "title", title)

	if sub := cleanText(meta.Subtitle); sub != "" {
		xmltree.AddTextElement(info, "subtitle", sub)
	}

	authors := b.doc.Authors
	if len(authors) == 0 {
		authors = []string{defaultAuthor}
	}
	group := xmltree.AddElement(info, "authorgroup")
	for _, name := range authors {
		addAuthor(group, name)
	}

	publisher := meta.Publisher
	if publisher == "" {
		publisher = defaultPublisher
	}
	pub := xmltree.AddElement(info, "publisher")
	xmltree.AddTextElement(pub, "publishername", publisher)

	pubdate := meta.PubDate
	if pubdate == "" {
		pubdate = fmt.Sprintf("%d", time.Now().Year())
	}
	xmltree.AddTextElement(info, "pubdate", pubdate)

	edition := meta.Edition
	if edition == "" {
		edition = defaultEdition
	}
	xmltree.AddTextElement(info, "edition", edition)

	year := meta.CopyrightYear
	if year == "" {
		year = fmt.Sprintf("%d", time.Now().Year())
	}
	holder := meta.CopyrightHolder
	if holder == "" {
		holder = publisher
	}
	cp := xmltree.AddElement(info, "copyright")
	xmltree.AddTextElement(cp, "year", year)
	xmltree.AddTextElement(cp, "holder", holder)
}

// addAuthor splits a display name into firstname and surname parts.
// The last word becomes the surname; everything before it the
// firstname. Single-word names carry only a surname.
func addAuthor(group *xmlquery.Node, name string) {
	name = cleanText(name)
	if name == "" {
		return
	}
	author := xmltree.AddElement(group, "author")
	parts := strings.Fields(name)
	if len(parts) > 1 {
		xmltree.AddTextElement(author, "firstname", strings.Join(parts[:len(parts)-1], " "))
	}
	xmltree.AddTextElement(author, "surname", parts[len(parts)-1])
}
