// Command rittdoc converts extractor hand-off documents into RittDoc
// books, validates serialized books, and assembles distributable
// packages.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/risdev/rittdoc/core/document"
	rderrors "github.com/risdev/rittdoc/core/errors"
	"github.com/risdev/rittdoc/core/pipeline"
	"github.com/risdev/rittdoc/core/validate"
	"github.com/risdev/rittdoc/internal/logging"
)

const version = "1.0.0"

// CLI defines the command-line interface for rittdoc.
var CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`

	Convert  ConvertCmd  `cmd:"" help:"Convert a hand-off document to a RittDoc book"`
	Validate ValidateCmd `cmd:"" help:"Validate a serialized RittDoc book"`
	Package  PackageCmd  `cmd:"" help:"Convert and assemble the distributable package"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("rittdoc"),
		kong.Description("RittDoc book synthesis, validation, and packaging."),
		kong.UsageOnError(),
	)
	initLogging()
	ctx.FatalIfErrorf(ctx.Run())
}

func initLogging() {
	level := logging.LevelInfo
	switch CLI.LogLevel {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	format := logging.FormatText
	if CLI.LogFormat == "json" {
		format = logging.FormatJSON
	}
	logging.InitLogger(level, format)
}

// loadDocument reads and decodes a hand-off document from path, or
// stdin when path is "-".
func loadDocument(path string) (*document.Document, error) {
	var (
		doc *document.Document
		err error
	)
	if path == "-" {
		doc, err = document.Decode(os.Stdin)
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, rderrors.NewIO("open", path, openErr)
		}
		defer f.Close()
		doc, err = document.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	return doc, nil
}

// ConvertCmd converts a document and writes the serialized book.
type ConvertCmd struct {
	Input     string `arg:"" help:"Hand-off document (JSON), or - for stdin"`
	Output    string `short:"o" default:"-" help:"Book XML output path, or - for stdout"`
	NoResolve bool   `name:"no-resolve" help:"Skip cross-reference resolution"`
	Report    string `help:"Write the validation report (JSON) to this path"`
}

// Run executes the convert command.
func (c *ConvertCmd) Run() error {
	doc, err := loadDocument(c.Input)
	if err != nil {
		return err
	}

	opts := pipeline.DefaultOptions()
	opts.ResolveReferences = !c.NoResolve
	opts.Package = false
	opts.Validate = c.Report != ""

	res, err := pipeline.Convert(context.Background(), doc, opts)
	if err != nil {
		return err
	}

	if c.Report != "" {
		if err := writeReport(c.Report, res.Report); err != nil {
			return err
		}
	}
	if c.Output == "-" {
		_, err = os.Stdout.Write(res.BookXML)
		return err
	}
	return os.WriteFile(c.Output, res.BookXML, 0o644)
}

// ValidateCmd validates a serialized book and prints the report.
type ValidateCmd struct {
	Input string `arg:"" help:"Serialized book XML" type:"path"`
}

// Run executes the validate command. Exits nonzero when the book has
// validation errors.
func (c *ValidateCmd) Run() error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	report := validate.New().Validate(data)
	if err := writeReport("-", report); err != nil {
		return err
	}
	if !report.Valid {
		return fmt.Errorf("%s: %d validation error(s)", c.Input, len(report.Errors))
	}
	return nil
}

// PackageCmd runs the full pipeline and writes the package.
type PackageCmd struct {
	Input  string `arg:"" help:"Hand-off document (JSON), or - for stdin"`
	Output string `short:"o" required:"" help:"Package destination (directory, .zip, or .tar.xz)"`
	Report string `help:"Write the validation report (JSON) to this path"`
}

// Run executes the package command.
func (c *PackageCmd) Run() error {
	doc, err := loadDocument(c.Input)
	if err != nil {
		return err
	}

	res, err := pipeline.Convert(context.Background(), doc, pipeline.DefaultOptions())
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		logging.Warn("conversion_warning", "detail", w)
	}
	if c.Report != "" {
		if err := writeReport(c.Report, res.Report); err != nil {
			return err
		}
	}
	if res.Package == nil {
		return fmt.Errorf("no package was produced")
	}

	switch {
	case strings.HasSuffix(c.Output, ".zip"):
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		return res.Package.WriteZip(f)
	case strings.HasSuffix(c.Output, ".tar.xz"):
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		return res.Package.WriteTarXZ(f)
	default:
		return res.Package.WriteDir(c.Output)
	}
}

// VersionCmd prints the tool version.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run() error {
	fmt.Printf("rittdoc %s\n", version)
	return nil
}

// writeReport serializes a validation report as indented JSON to path,
// or stdout when path is "-".
func writeReport(path string, report *validate.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
