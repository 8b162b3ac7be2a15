// Package styco implements the "extract to styled component" refactor:
// it turns the inline style object of a JSX element into a styled
// component declaration and renames the element to use it.
package styco

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnana997/styco/pkg/edit"
	"github.com/gnana997/styco/pkg/generator"
	"github.com/gnana997/styco/pkg/jsx"
	"github.com/gnana997/styco/pkg/manifest"
	"github.com/gnana997/styco/pkg/parser"
)

// Document is the text being refactored.
type Document interface {
	// Path is the file path, or "" for unsaved buffers.
	Path() string
	Text() string
	// ApplyEdits applies all operations or none of them.
	ApplyEdits(ops []edit.Operation) error
	Save(ctx context.Context) error
}

// Prompt asks for the new component name once the target element is known.
// An empty name cancels the refactor.
type Prompt func(ctx context.Context, a *Analysis) (string, error)

// StaticName returns a Prompt that always answers name.
func StaticName(name string) Prompt {
	return func(context.Context, *Analysis) (string, error) {
		return name, nil
	}
}

// Invocation is one run of the refactor.
type Invocation struct {
	Document Document
	// Offset is the cursor position as a byte offset into Document.Text().
	Offset int
	Prompt Prompt
	Config Config
}

// Analysis is what the refactor found at the cursor.
type Analysis struct {
	Path    string               `json:"path,omitempty"`
	Offset  int                  `json:"offset"`
	Element *jsx.Element         `json:"element"`
	Style   *jsx.StyleAttribute  `json:"style,omitempty"`
	Imports jsx.Imports          `json:"imports"`
}

// Properties returns the extracted style properties, nil when the element
// has no literal inline style.
func (a *Analysis) Properties() []jsx.Property {
	if a.Style == nil {
		return nil
	}
	return a.Style.Properties
}

// Result describes a completed refactor.
type Result struct {
	Name        string            `json:"name"`
	Tag         string            `json:"tag"`
	Properties  []jsx.Property    `json:"properties"`
	Skipped     int               `json:"skipped"`
	Declaration string            `json:"declaration"`
	Import      string            `json:"import,omitempty"`
	Library     *manifest.Library `json:"library,omitempty"`
	Operations  []edit.Operation  `json:"operations"`
	Text        string            `json:"-"`
	Saved       bool              `json:"saved"`
}

// Refactorer runs invocations. It is safe for concurrent use; each
// invocation parses its own tree.
type Refactorer struct {
	parser   *parser.ParserManager
	detector *manifest.Detector
	logger   *slog.Logger
}

// NewRefactorer creates a Refactorer. detector may be nil, which disables
// import generation.
func NewRefactorer(pm *parser.ParserManager, detector *manifest.Detector, logger *slog.Logger) *Refactorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refactorer{
		parser:   pm,
		detector: detector,
		logger:   logger,
	}
}

// Analyze parses text and finds the element at offset, its literal inline
// style and the document's imports. path selects the grammar and may be
// empty.
func (r *Refactorer) Analyze(text, path string, offset int) (*Analysis, error) {
	source := []byte(text)

	tree, err := r.parser.ParseDocument(source, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer tree.Close()

	root := tree.RootNode()

	el, err := jsx.Locate(root, source, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoElement, err)
	}

	return &Analysis{
		Path:    path,
		Offset:  offset,
		Element: el,
		Style:   jsx.ExtractStyle(el, source),
		Imports: jsx.ScanImports(root, source),
	}, nil
}

// Run executes the whole refactor: analyze, ask for a name, synthesize the
// declaration, plan the edits and apply them as one batch. Nothing is
// changed unless every step succeeds.
func (r *Refactorer) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if inv.Document == nil {
		return nil, errors.New("invocation has no document")
	}
	start := time.Now()
	text := inv.Document.Text()
	path := inv.Document.Path()

	analysis, err := r.Analyze(text, path, inv.Offset)
	if err != nil {
		r.logger.Debug("analysis failed", "path", path, "offset", inv.Offset, "error", err)
		return nil, err
	}

	name, err := r.askName(ctx, inv.Prompt, analysis)
	if err != nil {
		return nil, err
	}

	cfg := inv.Config
	el := analysis.Element
	props := analysis.Properties()
	declaration := generator.Synthesize(el.TagName, name, props, cfg.GeneratorOptions())

	result := &Result{
		Name:        name,
		Tag:         el.TagName,
		Properties:  props,
		Declaration: declaration,
	}
	if analysis.Style != nil {
		result.Skipped = analysis.Style.Skipped
	}

	if cfg.InsertImportStatement && !analysis.Imports.StyledBound && path != "" {
		result.Library = r.detectLibrary(ctx, path)
		if result.Library != nil {
			result.Import = generator.ImportStatement(*result.Library)
		}
	}

	in := edit.PlanInput{
		InsertAt:     analysis.Imports.InsertAt,
		AfterImports: analysis.Imports.Count > 0,
		Declaration:  declaration,
		Import:       result.Import,
		OpenName:     el.OpenName,
		CloseName:    el.CloseName,
		NewName:      name,
	}
	if analysis.Style != nil {
		in.Style = &analysis.Style.Span
	}

	ops, err := edit.Plan(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEditApplication, err)
	}
	result.Operations = ops

	// The prompt may have taken a while; the edits are only valid against
	// the text that was analyzed.
	if inv.Document.Text() != text {
		return nil, fmt.Errorf("%w: document changed during the refactor", ErrEditApplication)
	}
	if err := inv.Document.ApplyEdits(ops); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEditApplication, err)
	}
	result.Text = inv.Document.Text()

	if cfg.SaveAfterExecute {
		if err := inv.Document.Save(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEditApplication, err)
		}
		result.Saved = true
	}

	r.logger.Info("extracted styled component",
		"path", path,
		"tag", el.TagName,
		"name", name,
		"properties", len(props),
		"skipped", result.Skipped,
		"import", result.Import != "",
		"duration", time.Since(start))

	return result, nil
}

// askName runs the prompt and validates the answer.
func (r *Refactorer) askName(ctx context.Context, prompt Prompt, a *Analysis) (string, error) {
	if prompt == nil {
		return "", ErrEmptyName
	}
	name, err := prompt(ctx, a)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: %w", ErrEmptyName, err)
		}
		return "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if !generator.IsBindingIdentifier(name) {
		return "", fmt.Errorf("%w: %q is not an identifier", ErrInvalidName, name)
	}
	return name, nil
}

// detectLibrary returns the styling library of the document's project.
// Lookup failures are logged and treated as "no import".
func (r *Refactorer) detectLibrary(ctx context.Context, path string) *manifest.Library {
	if r.detector == nil {
		return nil
	}
	lib, err := r.detector.DetectForFile(ctx, path)
	if err != nil {
		r.logger.Warn("styling library detection failed", "path", path, "error", err)
		return nil
	}
	return lib
}
