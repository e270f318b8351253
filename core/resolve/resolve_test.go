package resolve

import (
	"strings"
	"testing"

	"github.com/risdev/rittdoc/core/generate"
	"github.com/risdev/rittdoc/core/xmltree"
)

var (
	figures = generate.RefMap{1: "ch0001s0000fg01", 2: "ch0001s0000fg02", 3: "ch0002s0100fg01"}
	tables  = generate.RefMap{1: "ch0001s0000tb01", 2: "ch0002s0100tb01"}
)

func resolveXML(t *testing.T, input string) (string, Stats) {
	t.Helper()
	doc, err := xmltree.Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	stats, err := New(figures, tables).Resolve(doc)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return string(doc.Serialize()), stats
}

func TestResolveTextReferences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"figure keyword",
			"<book><para>As shown in Figure 1, water flows.</para></book>",
			`<para>As shown in <link linkend="ch0001s0000fg01">Figure 1</link>, water flows.</para>`,
		},
		{
			"abbreviated with dot",
			"<book><para>See Fig. 2 for details.</para></book>",
			`<link linkend="ch0001s0000fg02">Fig. 2</link>`,
		},
		{
			"table keyword",
			"<book><para>Table 2 lists the codes.</para></book>",
			`<link linkend="ch0002s0100tb01">Table 2</link>`,
		},
		{
			"abbreviated table",
			"<book><para>Compare with Tab. 1 above.</para></book>",
			`<link linkend="ch0001s0000tb01">Tab. 1</link>`,
		},
		{
			"case insensitive",
			"<book><para>see FIGURE 3.</para></book>",
			`<link linkend="ch0002s0100fg01">FIGURE 3</link>`,
		},
		{
			"range resolves to first",
			"<book><para>Figures 1-2 show the cycle.</para></book>",
			`<link linkend="ch0001s0000fg01">Figures 1-2</link>`,
		},
		{
			"multiple references in one text node",
			"<book><para>Figure 1 and Table 1 agree.</para></book>",
			`<link linkend="ch0001s0000fg01">Figure 1</link> and <link linkend="ch0001s0000tb01">Table 1</link>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := resolveXML(t, tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("output %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestUnresolvedReferenceLeftAsText(t *testing.T) {
	got, stats := resolveXML(t, "<book><para>See Figure 99 for nothing.</para></book>")
	if strings.Contains(got, "<link") {
		t.Errorf("unknown reference was linked: %q", got)
	}
	if stats.Unresolved != 1 {
		t.Errorf("Unresolved = %d, want 1", stats.Unresolved)
	}
	if got != "<book><para>See Figure 99 for nothing.</para></book>" {
		t.Errorf("text was altered: %q", got)
	}
}

func TestEmphasisWrappedReference(t *testing.T) {
	got, stats := resolveXML(t, "<book><para>See <emphasis>Figure 1</emphasis> now.</para></book>")
	want := `<para>See <link linkend="ch0001s0000fg01">Figure 1</link> now.</para>`
	if !strings.Contains(got, want) {
		t.Errorf("output %q does not contain %q", got, want)
	}
	if strings.Contains(got, "<emphasis>") {
		t.Errorf("emphasis wrapper survived: %q", got)
	}
	if stats.Resolved != 1 {
		t.Errorf("Resolved = %d, want 1", stats.Resolved)
	}
}

func TestEmphasisWithExtraTextNotReplaced(t *testing.T) {
	got, _ := resolveXML(t, "<book><para><emphasis>see Figure 1</emphasis></para></book>")
	if !strings.Contains(got, "<emphasis>see Figure 1</emphasis>") {
		t.Errorf("partially matching emphasis was rewritten: %q", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	doc, err := xmltree.Parse([]byte("<book><para>Figure 1 and Table 2 and Figure 2.</para></book>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r := New(figures, tables)

	first, err := r.Resolve(doc)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	after := string(doc.Serialize())

	second, err := r.Resolve(doc)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if got := string(doc.Serialize()); got != after {
		t.Errorf("second pass changed output:\nfirst:  %q\nsecond: %q", after, got)
	}
	if first.Resolved != 3 || second.Resolved != 0 {
		t.Errorf("Resolved counts = %d then %d, want 3 then 0", first.Resolved, second.Resolved)
	}
}

func TestPlainNumberWordsNotLinked(t *testing.T) {
	inputs := []string{
		"<book><para>The figure was impressive.</para></book>",
		"<book><para>We configure 3 servers.</para></book>",
		"<book><para>tabulate 5 results</para></book>",
	}
	for _, input := range inputs {
		got, _ := resolveXML(t, input)
		if strings.Contains(got, "<link") {
			t.Errorf("false positive link in %q -> %q", input, got)
		}
	}
}
