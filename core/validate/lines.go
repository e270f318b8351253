package validate

import (
	"bytes"
	"encoding/xml"

	"github.com/antchfx/xmlquery"
)

// buildLineIndex maps elements to source line numbers. The parsed tree
// carries no positions, so a second token scan walks the same document
// order and pairs each start element with the offset the decoder
// reports. Tags spanning multiple lines are attributed to their last
// line; that is close enough for report navigation.
func buildLineIndex(data []byte, elements []*xmlquery.Node) map[*xmlquery.Node]int {
	index := make(map[*xmlquery.Node]int, len(elements))

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = map[string]string{}

	next := 0
	line := 1
	scanned := 0
	for next < len(elements) {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		offset := int(dec.InputOffset())
		if offset > len(data) {
			offset = len(data)
		}
		for ; scanned < offset; scanned++ {
			if data[scanned] == '\n' {
				line++
			}
		}
		if start.Name.Local == elements[next].Data {
			index[elements[next]] = line
			next++
		}
	}
	return index
}
