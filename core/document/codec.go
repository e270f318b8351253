package document

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/risdev/rittdoc/core/errors"
)

// Decode reads an extractor hand-off document from JSON. Image payloads
// are carried as base64 in the standard encoding/json convention.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &errors.DecodeError{Element: -1, Message: "invalid JSON", Err: err}
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode writes the document as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// check verifies that each element carries exactly the payload its kind
// declares. Elements are otherwise taken as-is; content problems are the
// generator's to skip.
func (d *Document) check() error {
	for i, el := range d.Elements {
		var want bool
		switch el.Kind {
		case KindParagraph:
			want = el.Paragraph != nil && el.Image == nil && el.Table == nil
		case KindImage:
			want = el.Image != nil && el.Paragraph == nil && el.Table == nil
		case KindTable:
			want = el.Table != nil && el.Paragraph == nil && el.Image == nil
		default:
			return errors.NewDecode(i, fmt.Sprintf("unknown kind %d", int(el.Kind)))
		}
		if !want {
			return errors.NewDecode(i, fmt.Sprintf("payload does not match kind %s", el.Kind))
		}
	}
	return nil
}
