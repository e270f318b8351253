package xmltree

import (
	"strings"
	"testing"
)

func TestNewAndSerialize(t *testing.T) {
	doc, root := New("book")
	chapter := AddElement(root, "chapter")
	SetAttr(chapter, "id", "ch0001")
	AddTextElement(chapter, "title", "Getting Started")
	para := AddElement(chapter, "para")
	AddText(para, "Tom & Jerry")

	got := string(doc.Serialize())
	want := `<book><chapter id="ch0001"><title>Getting Started</title><para>Tom &amp; Jerry</para></chapter></book>`
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeBookHeader(t *testing.T) {
	doc, _ := New("book")
	out := string(doc.SerializeBook())

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML declaration: %q", out)
	}
	if !strings.Contains(out, DoctypePublic) {
		t.Errorf("missing doctype public id: %q", out)
	}
	if !strings.Contains(out, DoctypeSystem) {
		t.Errorf("missing doctype system id: %q", out)
	}
	if !strings.Contains(out, "<!DOCTYPE book PUBLIC") {
		t.Errorf("doctype not bound to root element: %q", out)
	}
}

func TestParseAndXPath(t *testing.T) {
	data := []byte(`<book><chapter id="ch0001"><title>One</title></chapter><chapter id="ch0002"><title>Two</title></chapter></book>`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	chapters, err := doc.XPath("//chapter")
	if err != nil {
		t.Fatalf("XPath() error = %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("len(chapters) = %d, want 2", len(chapters))
	}
	if got := Attr(chapters[1], "id"); got != "ch0002" {
		t.Errorf("second chapter id = %q, want %q", got, "ch0002")
	}

	if _, err := doc.XPath("//chapter["); err == nil {
		t.Errorf("XPath with invalid expression succeeded, want error")
	}
}

func TestNodeSplicing(t *testing.T) {
	_, root := New("para")
	AddText(root, "see ")
	old := Text("Figure 1")
	Append(root, old)
	AddText(root, " here")

	link := Elem("link")
	SetAttr(link, "linkend", "ch0001s0000fg01")
	AddText(link, "Figure 1")
	Replace(old, link)

	got := root.OutputXML(true)
	want := `<para>see <link linkend="ch0001s0000fg01">Figure 1</link> here</para>`
	if got != want {
		t.Errorf("after Replace: %q, want %q", got, want)
	}

	Detach(link)
	got = root.OutputXML(true)
	if got != "<para>see  here</para>" {
		t.Errorf("after Detach: %q", got)
	}
}

func TestInsertBefore(t *testing.T) {
	_, root := New("para")
	tail := Text("tail")
	Append(root, tail)
	InsertBefore(tail, Text("head "))

	if got := root.OutputXML(true); got != "<para>head tail</para>" {
		t.Errorf("after InsertBefore: %q", got)
	}
}

func TestChildHelpers(t *testing.T) {
	_, root := New("figure")
	AddTextElement(root, "title", "x")
	media := AddElement(root, "mediaobject")
	AddText(root, "stray")

	if got := len(ChildElements(root)); got != 2 {
		t.Errorf("len(ChildElements()) = %d, want 2", got)
	}
	if FindChild(root, "mediaobject") != media {
		t.Errorf("FindChild did not return the mediaobject node")
	}
	if FindChild(root, "imageobject") != nil {
		t.Errorf("FindChild found a node that does not exist")
	}
}

func TestWellFormed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "<book><chapter/></book>", false},
		{"mismatched tags", "<book><chapter></book>", true},
		{"truncated", "<book><chapter>", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WellFormed([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("WellFormed(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
