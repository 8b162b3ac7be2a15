package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type styles struct {
	heading *color.Color
	path    *color.Color
	tag     *color.Color
	added   *color.Color
	removed *color.Color
	warn    *color.Color
	errMsg  *color.Color
	dim     *color.Color
}

func newStyles() *styles {
	return &styles{
		heading: color.New(color.Bold),
		path:    color.New(color.FgHiBlue),
		tag:     color.New(color.Bold, color.FgHiGreen),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		errMsg:  color.New(color.Bold, color.FgRed),
		dim:     color.New(color.Faint),
	}
}

// configureColor applies the --color flag.
func configureColor(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != ""
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
