package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gnana997/styco/pkg/document"
	"github.com/gnana997/styco/pkg/styco"
)

var (
	extractName         string
	extractOffset       int
	extractLine         int
	extractColumn       int
	extractWrite        bool
	extractOrderByName  bool
	extractObjectSyntax bool
	extractNoImport     bool
	extractDiff         bool
	extractJSON         bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the inline style at a position into a styled component",
	Long: `Extract the inline style object of the JSX element at the cursor into a
styled component declaration and rename the element to use it.

The cursor is given with --offset or with --line and --column. Without
--name the component name is asked for on the terminal; an empty answer
cancels. The updated file is printed unless --write is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractName, "name", "n", "", "Component name")
	extractCmd.Flags().IntVar(&extractOffset, "offset", -1, "Cursor byte offset")
	extractCmd.Flags().IntVarP(&extractLine, "line", "l", 0, "Cursor line (1-based)")
	extractCmd.Flags().IntVarP(&extractColumn, "column", "c", 0, "Cursor column (1-based)")
	extractCmd.Flags().BoolVarP(&extractWrite, "write", "w", false, "Write the result back to the file")
	extractCmd.Flags().BoolVar(&extractOrderByName, "order-by-name", false, "Sort style properties by name")
	extractCmd.Flags().BoolVar(&extractObjectSyntax, "object-syntax", false, "Emit styled.tag({...}) instead of a template literal")
	extractCmd.Flags().BoolVar(&extractNoImport, "no-import", false, "Never add the styled import")
	extractCmd.Flags().BoolVar(&extractDiff, "diff", false, "Print a unified diff instead of the updated file")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the result as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	configureColor(colorMode)
	s := newStyles()
	path := args[0]

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := document.Open(path, a.logger)
	if err != nil {
		return err
	}
	before := doc.Text()

	offset, err := cursorOffset(before)
	if err != nil {
		return err
	}

	cfg := a.cfg.Refactor
	cfg.OrderStyleByName = cfg.OrderStyleByName || extractOrderByName
	cfg.ObjectSyntax = cfg.ObjectSyntax || extractObjectSyntax
	cfg.SaveAfterExecute = cfg.SaveAfterExecute || extractWrite
	if extractNoImport {
		cfg.InsertImportStatement = false
	}

	result, err := a.refactorer.Run(commandContext(cmd), styco.Invocation{
		Document: doc,
		Offset:   offset,
		Prompt:   namePrompt(cmd),
		Config:   cfg,
	})
	if styco.IsSilent(err) {
		s.dim.Fprintln(cmd.ErrOrStderr(), "extract cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	if result.Skipped > 0 {
		s.warn.Fprintf(cmd.ErrOrStderr(), "%d style entries are not literals and were left out\n", result.Skipped)
	}

	out := cmd.OutOrStdout()
	switch {
	case extractJSON:
		return writeJSON(out, result)
	case extractDiff:
		return printDiff(out, s, path, before, result.Text)
	case result.Saved:
		fmt.Fprintf(out, "Extracted %s into %s (%d properties) in %s\n",
			s.tag.Sprint("<"+result.Tag+">"), s.heading.Sprint(result.Name), len(result.Properties), s.path.Sprint(path))
		if result.Import != "" {
			fmt.Fprintf(out, "  added %s\n", result.Import)
		}
		return nil
	default:
		_, err := io.WriteString(out, result.Text)
		return err
	}
}

// cursorOffset resolves --offset or --line/--column against text.
func cursorOffset(text string) (int, error) {
	if extractOffset >= 0 {
		if extractOffset > len(text) {
			return 0, fmt.Errorf("offset %d is past the end of the file (%d bytes)", extractOffset, len(text))
		}
		return extractOffset, nil
	}
	if extractLine <= 0 || extractColumn <= 0 {
		return 0, fmt.Errorf("a cursor is required: use --offset or --line and --column")
	}
	return document.NewLineIndex(text).OffsetAt(document.Position{Line: extractLine, Column: extractColumn})
}

// namePrompt answers with --name, or asks on the terminal. Without either
// the refactor is cancelled.
func namePrompt(cmd *cobra.Command) styco.Prompt {
	if extractName != "" {
		return styco.StaticName(extractName)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return func(ctx context.Context, an *styco.Analysis) (string, error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Component name for <%s> (%d properties): ", an.Element.TagName, len(an.Properties()))
		return readLine(ctx, cmd.InOrStdin())
	}
}

func readLine(ctx context.Context, r io.Reader) (string, error) {
	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(r).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		ch <- answer{strings.TrimSpace(line), err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		return a.line, a.err
	}
}

func printDiff(w io.Writer, s *styles, path, before, after string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("computing diff: %w", err)
	}

	for _, line := range difflib.SplitLines(diff) {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			s.heading.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			s.added.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			s.removed.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			s.path.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
	return nil
}
