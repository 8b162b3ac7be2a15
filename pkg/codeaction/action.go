// Package codeaction surfaces the extract refactor: the quick-fix offered
// on lines with an inline style, plus workspace scanning and watching for
// refactorable style sites.
package codeaction

import (
	"strings"

	"github.com/gnana997/styco/pkg/styco"
)

// Marker is the text whose presence on a line triggers the quick-fix.
const Marker = "style={"

// Action kinds follow the editor protocol names.
const (
	KindRefactorExtract = "refactor.extract"
	KindQuickFix        = "quickfix"
)

// CommandName identifies the extract command.
const CommandName = "styco.extract"

// Action is an offer to run the extract command.
type Action struct {
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Command string `json:"command"`
}

// ExtractAction is the single action offered by Provide.
var ExtractAction = Action{
	Title:   "Extract to styled component",
	Kind:    KindRefactorExtract,
	Command: CommandName,
}

// Provide returns the actions for a line of text: the extract action when
// the line contains Marker, nothing when cfg.DisableCodeAction is set.
func Provide(lineText string, cfg styco.Config) []Action {
	if cfg.DisableCodeAction || !strings.Contains(lineText, Marker) {
		return nil
	}
	return []Action{ExtractAction}
}
