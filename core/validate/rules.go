package validate

import "regexp"

// excludedElements are not part of the RittDoc dialect. Their presence
// is always an error, whatever the surrounding structure.
var excludedElements = map[string]bool{
	"informalfigure": true,
	"informaltable":  true,
	"variablelist":   true,
	"simplelist":     true,
	"example":        true,
	"procedure":      true,
	"div":            true,
	"span":           true,
	"b":              true,
	"i":              true,
	"u":              true,
	"bridgehead":     true,
	"abstract":       true,
	"sidebar":        true,
	"tip":            true,
	"note":           true,
	"warning":        true,
	"caution":        true,
	"important":      true,
}

// htmlTableElements never appear in CALS tables; they indicate HTML
// markup leaking through conversion.
var htmlTableElements = map[string]bool{
	"tr": true,
	"td": true,
	"th": true,
}

// titleRequired lists the elements that must carry a title child. The
// book element is special-cased: its title may live inside bookinfo.
var titleRequired = map[string]bool{
	"book":    true,
	"chapter": true,
	"sect1":   true,
	"sect2":   true,
	"sect3":   true,
	"sect4":   true,
	"sect5":   true,
	"figure":  true,
	"table":   true,
}

// requiredParent pins section nesting: these elements may only appear
// directly inside their designated container.
var requiredParent = map[string]string{
	"sect2": "sect1",
	"sect3": "sect2",
}

// requiredAttributes lists the per-element mandatory attributes.
var requiredAttributes = map[string][]string{
	"chapter":   {"id"},
	"sect1":     {"id"},
	"sect2":     {"id"},
	"sect3":     {"id"},
	"figure":    {"id"},
	"table":     {"id"},
	"tgroup":    {"cols"},
	"imagedata": {"fileref"},
}

// idPatterns give the expected id shape per element. A mismatch is a
// warning; only duplicate ids are hard errors.
var idPatterns = map[string]*regexp.Regexp{
	"chapter": regexp.MustCompile(`^ch\d{4}$`),
	"sect1":   regexp.MustCompile(`^ch\d{4}s\d{4}$`),
	"sect2":   regexp.MustCompile(`^ch\d{4}s\d{4}$`),
	"sect3":   regexp.MustCompile(`^ch\d{4}s\d{4}$`),
	"figure":  regexp.MustCompile(`^ch\d{4}s\d{4}fg\d{2}$`),
	"table":   regexp.MustCompile(`^ch\d{4}s\d{4}tb\d{2}$`),
}

// canonicalImageName is the package filename shape every figure
// reference should point at. Deviations go to manual verification, not
// errors, since external media may be legitimate.
var canonicalImageName = regexp.MustCompile(`^Ch\d{4}s\d{4}fg\d{2}\.\w+$`)

// countedElements feed the report statistics.
var countedElements = []string{
	"chapter", "sect1", "sect2", "sect3", "para", "figure", "table", "imagedata",
}
