package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/styco/pkg/codeaction"
	"github.com/gnana997/styco/pkg/document"
)

var (
	actionsLine int
	actionsJSON bool
)

var actionsCmd = &cobra.Command{
	Use:   "actions <file>",
	Short: "List the refactor actions offered on a line",
	Args:  cobra.ExactArgs(1),
	RunE:  runActions,
}

func init() {
	actionsCmd.Flags().IntVarP(&actionsLine, "line", "l", 0, "Line (1-based)")
	actionsCmd.Flags().BoolVar(&actionsJSON, "json", false, "Print the actions as JSON")
}

func runActions(cmd *cobra.Command, args []string) error {
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
	lineText, err := document.NewLineIndex(doc.Text()).LineText(actionsLine)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	actions := codeaction.Provide(lineText, a.cfg.Refactor)
	out := cmd.OutOrStdout()
	if actionsJSON {
		if actions == nil {
			actions = []codeaction.Action{}
		}
		return writeJSON(out, actions)
	}

	if len(actions) == 0 {
		s.dim.Fprintf(out, "%s:%d: no actions\n", path, actionsLine)
		return nil
	}
	for _, action := range actions {
		fmt.Fprintf(out, "%s:%d: %s %s\n", s.path.Sprint(path), actionsLine, s.heading.Sprint(action.Title), s.dim.Sprintf("(%s, %s)", action.Kind, action.Command))
	}
	return nil
}
