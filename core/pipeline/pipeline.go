// Package pipeline chains the conversion stages: build the book tree
// from the hand-off document, resolve textual cross-references,
// serialize, validate, and optionally assemble the distributable
// package. Each run carries a UUID for log correlation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/risdev/rittdoc/core/document"
	rderrors "github.com/risdev/rittdoc/core/errors"
	"github.com/risdev/rittdoc/core/generate"
	"github.com/risdev/rittdoc/core/pack"
	"github.com/risdev/rittdoc/core/resolve"
	"github.com/risdev/rittdoc/core/validate"
	"github.com/risdev/rittdoc/internal/logging"
)

// Options selects which stages run after generation.
type Options struct {
	// ResolveReferences links textual figure/table mentions.
	ResolveReferences bool
	// Validate attaches a validation report to the result.
	Validate bool
	// Package assembles the distributable file set. Packaging problems
	// degrade to warnings; the conversion itself still succeeds.
	Package bool
}

// DefaultOptions runs every stage.
func DefaultOptions() Options {
	return Options{ResolveReferences: true, Validate: true, Package: true}
}

// Result is the outcome of one conversion run.
type Result struct {
	RunID    string
	BookXML  []byte
	Stats    generate.BuildStats
	Refs     resolve.Stats
	Report   *validate.Report
	Package  *pack.Package
	Warnings []string
	Duration time.Duration
}

// Convert runs the pipeline over one document. An error is returned
// only when no book could be produced at all; downstream stage
// problems are reported through Result.Warnings and Result.Report.
func Convert(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, rderrors.Wrap(rderrors.ErrInvalidInput, "nil document")
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	started := time.Now()
	res := &Result{RunID: runID}

	logging.InfoContext(ctx, "conversion_start",
		"title", doc.Title, "elements", len(doc.Elements))

	stage := time.Now()
	build := generate.New().Build(doc)
	res.Stats = build.Stats
	logging.Stage(ctx, "generate", time.Since(stage),
		"chapters", build.Stats.Chapters, "figures", build.Stats.Figures, "tables", build.Stats.Tables)

	if opts.ResolveReferences {
		stage = time.Now()
		refs, err := resolve.New(build.FigureRefs, build.TableRefs).Resolve(build.Tree)
		if err != nil {
			return nil, fmt.Errorf("resolving references: %w", err)
		}
		res.Refs = refs
		logging.Stage(ctx, "resolve", time.Since(stage),
			"resolved", refs.Resolved, "unresolved", refs.Unresolved)
	}

	res.BookXML = build.Tree.SerializeBook()
	if len(res.BookXML) == 0 {
		return nil, fmt.Errorf("serialization produced no output")
	}

	if opts.Validate {
		stage = time.Now()
		res.Report = validate.New().Validate(res.BookXML)
		logging.Stage(ctx, "validate", time.Since(stage),
			"valid", res.Report.Valid,
			"errors", len(res.Report.Errors), "warnings", len(res.Report.Warnings))
	}

	if opts.Package {
		stage = time.Now()
		pr := pack.New().Create(res.BookXML, doc, build.Renames)
		if pr.Success {
			res.Package = pr.Package
		} else {
			for _, e := range pr.Errors {
				res.Warnings = append(res.Warnings, "packaging: "+e)
				logging.WarnContext(ctx, "packaging_problem", "detail", e)
			}
			res.Package = pr.Package
		}
		logging.Stage(ctx, "package", time.Since(stage), "success", pr.Success)
	}

	res.Duration = time.Since(started)
	logging.InfoContext(ctx, "conversion_complete",
		"duration_ms", res.Duration.Milliseconds(), "warnings", len(res.Warnings))
	return res, nil
}
