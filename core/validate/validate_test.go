package validate

import (
	"strings"
	"testing"

	"github.com/risdev/rittdoc/core/xmltree"
)

func book(body string) []byte {
	return []byte(xmltree.Header + xmltree.Doctype("book") +
		"<book><bookinfo><title>Guide</title></bookinfo>" + body + "</book>")
}

func validChapter() string {
	return `<chapter id="ch0001"><title>One</title><para>text</para></chapter>`
}

func hasError(r *Report, substr string) bool {
	for _, f := range r.Errors {
		if strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func hasWarning(r *Report, substr string) bool {
	for _, f := range r.Warnings {
		if strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidBookPasses(t *testing.T) {
	report := New().Validate(book(validChapter()))
	if !report.Valid {
		t.Fatalf("Valid = false, errors: %+v", report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %+v, want none", report.Errors)
	}
	if report.Counts["chapter"] != 1 || report.Counts["para"] != 1 {
		t.Errorf("Counts = %v", report.Counts)
	}
}

func TestMalformedXMLSingleError(t *testing.T) {
	report := New().Validate([]byte("<book><chapter></book>"))
	if report.Valid {
		t.Errorf("Valid = true for malformed input")
	}
	if len(report.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want exactly 1", len(report.Errors))
	}
	if !hasError(report, "not well-formed") {
		t.Errorf("unexpected error message: %+v", report.Errors)
	}
}

func TestExcludedElements(t *testing.T) {
	tests := []struct {
		name    string
		element string
	}{
		{"note", "note"},
		{"informaltable", "informaltable"},
		{"html span", "span"},
		{"bridgehead", "bridgehead"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `<chapter id="ch0001"><title>One</title><` + tt.element + `>x</` + tt.element + `></chapter>`
			report := New().Validate(book(body))
			if report.Valid {
				t.Errorf("Valid = true with <%s> present", tt.element)
			}
			if !hasError(report, "not part of the dialect") {
				t.Errorf("missing exclusion error: %+v", report.Errors)
			}
		})
	}
}

func TestHTMLTableMarkup(t *testing.T) {
	body := `<chapter id="ch0001"><title>One</title>` +
		`<table id="ch0001s0000tb01"><title>T</title><tr><td>x</td></tr></table></chapter>`
	report := New().Validate(book(body))
	if !hasError(report, "CALS") {
		t.Errorf("HTML table markup not flagged: %+v", report.Errors)
	}
}

func TestMissingTitle(t *testing.T) {
	report := New().Validate(book(`<chapter id="ch0001"><para>text</para></chapter>`))
	if !hasError(report, "missing a title") {
		t.Errorf("missing title not flagged: %+v", report.Errors)
	}
}

func TestBookTitleInBookinfoAccepted(t *testing.T) {
	report := New().Validate(book(validChapter()))
	if hasError(report, "<book> is missing a title") {
		t.Errorf("bookinfo title not accepted: %+v", report.Errors)
	}
}

func TestMissingRequiredAttributes(t *testing.T) {
	body := `<chapter><title>One</title></chapter>`
	report := New().Validate(book(body))
	if !hasError(report, `missing required attribute "id"`) {
		t.Errorf("missing id not flagged: %+v", report.Errors)
	}
}

func TestIDFormatMismatchIsWarning(t *testing.T) {
	report := New().Validate(book(`<chapter id="intro"><title>One</title></chapter>`))
	if !report.Valid {
		t.Errorf("id format mismatch should not fail validation: %+v", report.Errors)
	}
	if !hasWarning(report, "does not match the expected format") {
		t.Errorf("format warning missing: %+v", report.Warnings)
	}
}

func TestDuplicateIDIsError(t *testing.T) {
	body := `<chapter id="ch0001"><title>One</title></chapter>` +
		`<chapter id="ch0001"><title>Two</title></chapter>`
	report := New().Validate(book(body))
	if !hasError(report, "duplicate id") {
		t.Errorf("duplicate id not flagged: %+v", report.Errors)
	}
}

func TestFigureChain(t *testing.T) {
	tests := []struct {
		name   string
		figure string
		want   string
	}{
		{
			"no mediaobject",
			`<figure id="ch0001s0000fg01"><title>F</title></figure>`,
			"no mediaobject",
		},
		{
			"no imageobject",
			`<figure id="ch0001s0000fg01"><title>F</title><mediaobject/></figure>`,
			"no imageobject",
		},
		{
			"no imagedata",
			`<figure id="ch0001s0000fg01"><title>F</title><mediaobject><imageobject/></mediaobject></figure>`,
			"no imagedata",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `<chapter id="ch0001"><title>One</title>` + tt.figure + `</chapter>`
			report := New().Validate(book(body))
			if !hasError(report, tt.want) {
				t.Errorf("want error containing %q, got %+v", tt.want, report.Errors)
			}
		})
	}
}

func TestSectionNesting(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			"sect2 directly under chapter",
			`<chapter id="ch0001"><title>One</title>` +
				`<sect2 id="ch0001s0101"><title>Stray</title></sect2></chapter>`,
			true,
		},
		{
			"sect3 directly under sect1",
			`<chapter id="ch0001"><title>One</title>` +
				`<sect1 id="ch0001s0100"><title>S</title>` +
				`<sect3 id="ch0001s0102"><title>Stray</title></sect3></sect1></chapter>`,
			true,
		},
		{
			"properly nested sections",
			`<chapter id="ch0001"><title>One</title>` +
				`<sect1 id="ch0001s0100"><title>S</title>` +
				`<sect2 id="ch0001s0101"><title>SS</title>` +
				`<sect3 id="ch0001s0102"><title>SSS</title></sect3></sect2></sect1></chapter>`,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := New().Validate(book(tt.body))
			got := hasError(report, "must be nested directly inside")
			if got != tt.wantErr {
				t.Errorf("nesting error = %v, want %v (errors: %+v)", got, tt.wantErr, report.Errors)
			}
			if !tt.wantErr && !report.Valid {
				t.Errorf("properly nested sections failed validation: %+v", report.Errors)
			}
		})
	}
}

func TestTableWithoutTgroup(t *testing.T) {
	body := `<chapter id="ch0001"><title>One</title>` +
		`<table id="ch0001s0000tb01"><title>T</title></table></chapter>`
	report := New().Validate(book(body))
	if report.Valid {
		t.Errorf("Valid = true for a table without a tgroup")
	}
	if !hasError(report, "no tgroup") {
		t.Errorf("missing tgroup not flagged: %+v", report.Errors)
	}
}

func TestTgroupChecks(t *testing.T) {
	body := `<chapter id="ch0001"><title>One</title>` +
		`<table id="ch0001s0000tb01"><title>T</title><tgroup cols="0"><thead><row><entry>h</entry></row></thead></tgroup></table></chapter>`
	report := New().Validate(book(body))
	if !hasError(report, "not a positive integer") {
		t.Errorf("bad cols not flagged: %+v", report.Errors)
	}
	if !hasWarning(report, "no tbody") {
		t.Errorf("missing tbody not warned: %+v", report.Warnings)
	}
}

func TestImagedataChecks(t *testing.T) {
	body := `<chapter id="ch0001"><title>One</title>` +
		`<figure id="ch0001s0000fg01"><title>F</title><mediaobject><imageobject>` +
		`<imagedata fileref="multimedia/holiday-photo.jpeg"/>` +
		`</imageobject></mediaobject></figure></chapter>`
	report := New().Validate(book(body))

	if !report.Valid {
		t.Fatalf("sizing and naming issues must not fail validation: %+v", report.Errors)
	}
	if !hasWarning(report, "no width") {
		t.Errorf("missing width not warned: %+v", report.Warnings)
	}
	if !hasWarning(report, "scalefit") {
		t.Errorf("scalefit not warned: %+v", report.Warnings)
	}
	if len(report.Verification) != 1 {
		t.Fatalf("Verification = %+v, want one item", report.Verification)
	}
	if !strings.Contains(report.Verification[0].Message, "holiday-photo.jpeg") {
		t.Errorf("verification item message = %q", report.Verification[0].Message)
	}
}

func TestCanonicalFilerefNotFlagged(t *testing.T) {
	body := `<chapter id="ch0001"><title>One</title>` +
		`<figure id="ch0001s0000fg01"><title>F</title><mediaobject><imageobject>` +
		`<imagedata fileref="multimedia/Ch0001s0000fg01.png" width="10px" scalefit="1"/>` +
		`</imageobject></mediaobject></figure></chapter>`
	report := New().Validate(book(body))
	if len(report.Verification) != 0 {
		t.Errorf("Verification = %+v, want none", report.Verification)
	}
}

func TestDoctypeChecks(t *testing.T) {
	t.Run("missing doctype", func(t *testing.T) {
		data := []byte(xmltree.Header + "<book><bookinfo><title>G</title></bookinfo>" + validChapter() + "</book>")
		report := New().Validate(data)
		if !hasWarning(report, "missing DOCTYPE") {
			t.Errorf("missing DOCTYPE not warned: %+v", report.Warnings)
		}
	})
	t.Run("wrong identifiers", func(t *testing.T) {
		data := []byte(xmltree.Header +
			"<!DOCTYPE book PUBLIC \"-//OASIS//DTD DocBook XML V4.3//EN\" \"docbookx.dtd\">\n" +
			"<book><bookinfo><title>G</title></bookinfo>" + validChapter() + "</book>")
		report := New().Validate(data)
		if !hasWarning(report, "public identifier") {
			t.Errorf("wrong public id not warned: %+v", report.Warnings)
		}
		if !hasWarning(report, "system identifier") {
			t.Errorf("wrong system id not warned: %+v", report.Warnings)
		}
	})
}

func TestFindingLineNumbers(t *testing.T) {
	data := []byte(xmltree.Header + xmltree.Doctype("book") +
		"<book>\n<bookinfo><title>G</title></bookinfo>\n" +
		"<chapter id=\"ch0001\"><title>One</title>\n<note>stop</note>\n</chapter>\n</book>")
	report := New().Validate(data)

	found := false
	for _, f := range report.Errors {
		if f.Element == "note" {
			found = true
			if f.Line < 4 {
				t.Errorf("note line = %d, want >= 4", f.Line)
			}
		}
	}
	if !found {
		t.Fatalf("note error missing: %+v", report.Errors)
	}
}
