package document

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	doc := &Document{
		Title:   "Field Guide",
		Authors: []string{"Ada Lovelace"},
		Meta:    Metadata{ISBN: "9781234567890", Publisher: "RIS Press"},
		Elements: []Element{
			Para("Introduction", 1),
			Para("Some body text.", 0),
			Img(Image{Data: []byte{0x89, 0x50}, Filename: "photo.png", Caption: "A photo"}),
			Tbl(Table{Rows: [][]string{{"a", "b"}, {"1", "2"}}, HeaderRows: 1, Caption: "Results"}),
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got.Title != doc.Title {
		t.Errorf("Title = %q, want %q", got.Title, doc.Title)
	}
	if len(got.Elements) != len(doc.Elements) {
		t.Fatalf("len(Elements) = %d, want %d", len(got.Elements), len(doc.Elements))
	}
	if got.Elements[2].Image == nil || !bytes.Equal(got.Elements[2].Image.Data, []byte{0x89, 0x50}) {
		t.Errorf("image payload did not survive the round trip")
	}
	if got.Elements[3].Table == nil || got.Elements[3].Table.HeaderRows != 1 {
		t.Errorf("table payload did not survive the round trip")
	}
}

func TestDecodeRejectsMismatchedPayload(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"image kind without payload", `{"elements":[{"kind":1}]}`},
		{"paragraph kind with table payload", `{"elements":[{"kind":0,"table":{"rows":[["a"]]}}]}`},
		{"unknown kind", `{"elements":[{"kind":9,"paragraph":{"text":"x"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.json)); err == nil {
				t.Errorf("Decode(%s) succeeded, want error", tt.json)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	doc := &Document{Elements: []Element{
		Para("c", 1),
		Para("body", 0),
		Img(Image{Data: []byte{1}, Filename: "a.png"}),
		Img(Image{Data: []byte{2}, Filename: "b.png"}),
		Tbl(Table{Rows: [][]string{{"x"}}}),
	}}
	paragraphs, images, tables := doc.Counts()
	if paragraphs != 2 || images != 2 || tables != 1 {
		t.Errorf("Counts() = (%d, %d, %d), want (2, 2, 1)", paragraphs, images, tables)
	}
	if got := len(doc.Images()); got != 2 {
		t.Errorf("len(Images()) = %d, want 2", got)
	}
}
