// Package document defines the typed element stream handed to the
// synthesis engine by an external extractor, plus the book-level
// metadata that accompanies it.
package document

import "fmt"

// Kind identifies the payload variant carried by an Element.
type Kind int

// Element kinds.
const (
	// KindParagraph is a text block, possibly a heading or list item.
	KindParagraph Kind = iota
	// KindImage is a binary image payload with sizing and captions.
	KindImage
	// KindTable is a 2-D grid of cell strings.
	KindTable
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ListType tags a paragraph as a member of a bullet or ordered list.
type ListType string

// List membership values. ListNone means the paragraph is not a list item.
const (
	ListNone    ListType = ""
	ListBullet  ListType = "bullet"
	ListOrdered ListType = "ordered"
)

// Paragraph is the text payload of an element.
type Paragraph struct {
	// Text is the raw text, possibly containing inline markup tokens.
	Text string `json:"text"`
	// Level is the heading depth: 0 for body text, 1..N for headings.
	Level int `json:"level"`
	// List marks membership in a bullet or ordered list.
	List ListType `json:"list,omitempty"`
	// ListLevel is the nesting depth of the list item.
	ListLevel int `json:"list_level,omitempty"`
	// Align and Emphasis are presentation hints; they never affect structure.
	Align    string `json:"align,omitempty"`
	Emphasis string `json:"emphasis,omitempty"`
}

// Image is the binary payload of an image element. The Filename field
// holds the extractor's original name; the generator publishes the
// canonical name through a rename table rather than mutating it.
type Image struct {
	Data     []byte `json:"data"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Caption  string `json:"caption,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
	Filename string `json:"filename"`
}

// Table is the grid payload of a table element. Rows may be ragged;
// the effective column count is the declared Columns or the longest row.
type Table struct {
	Rows       [][]string `json:"rows"`
	HeaderRows int        `json:"header_rows"`
	Caption    string     `json:"caption,omitempty"`
	Columns    int        `json:"columns,omitempty"`
}

// Element is a tagged variant over paragraph, image, and table payloads.
// Exactly one payload is set, matching Kind. Ordering within the
// containing slice is document order and drives structural placement.
type Element struct {
	Kind      Kind       `json:"kind"`
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Image     *Image     `json:"image,omitempty"`
	Table     *Table     `json:"table,omitempty"`
}

// Para builds a body or heading paragraph element.
func Para(text string, level int) Element {
	return Element{Kind: KindParagraph, Paragraph: &Paragraph{Text: text, Level: level}}
}

// ListItem builds a list-member paragraph element.
func ListItem(text string, typ ListType, level int) Element {
	return Element{Kind: KindParagraph, Paragraph: &Paragraph{Text: text, List: typ, ListLevel: level}}
}

// Img builds an image element.
func Img(img Image) Element {
	i := img
	return Element{Kind: KindImage, Image: &i}
}

// Tbl builds a table element.
func Tbl(tbl Table) Element {
	t := tbl
	return Element{Kind: KindTable, Table: &t}
}

// Metadata carries the free-form book metadata fields. Empty fields are
// defaulted during bookinfo synthesis, not here.
type Metadata struct {
	ISBN            string `json:"isbn,omitempty"`
	Subtitle        string `json:"subtitle,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PubDate         string `json:"pubdate,omitempty"`
	Edition         string `json:"edition,omitempty"`
	CopyrightYear   string `json:"copyright_year,omitempty"`
	CopyrightHolder string `json:"copyright_holder,omitempty"`
	Created         string `json:"created,omitempty"`
	Modified        string `json:"modified,omitempty"`
}

// Document is the complete extractor hand-off: title, authors, metadata,
// and the ordered element stream.
type Document struct {
	Title    string    `json:"title"`
	Authors  []string  `json:"authors,omitempty"`
	Meta     Metadata  `json:"metadata,omitempty"`
	Elements []Element `json:"elements"`
}

// Counts returns the number of paragraph, image, and table elements.
func (d *Document) Counts() (paragraphs, images, tables int) {
	for _, el := range d.Elements {
		switch el.Kind {
		case KindParagraph:
			paragraphs++
		case KindImage:
			images++
		case KindTable:
			tables++
		}
	}
	return paragraphs, images, tables
}

// Images returns the image payloads in document order.
func (d *Document) Images() []*Image {
	var imgs []*Image
	for i := range d.Elements {
		if d.Elements[i].Kind == KindImage && d.Elements[i].Image != nil {
			imgs = append(imgs, d.Elements[i].Image)
		}
	}
	return imgs
}
