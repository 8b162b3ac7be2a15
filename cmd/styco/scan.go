package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/styco/pkg/codeaction"
	"github.com/gnana997/styco/pkg/config"
)

var (
	scanFormat  string
	scanWorkers int
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "List elements with literal inline styles",
	Long: `Scan a directory for JSX elements whose inline style object can be
extracted into a styled component. Files are selected with the include and
exclude globs of the scan configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format: human, json")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Parallel file scans (0 = based on CPU count)")
}

func runScan(cmd *cobra.Command, args []string) error {
	configureColor(colorMode)
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if scanFormat != "human" && scanFormat != "json" {
		return fmt.Errorf("unknown format %q: use human or json", scanFormat)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	scanner := codeaction.NewScanner(a.parser, a.logger)
	defer scanner.Close()

	cfg := discoveryConfig(a.cfg.Scan)
	if scanWorkers > 0 {
		cfg.Workers = scanWorkers
	}

	report, err := scanner.Scan(commandContext(cmd), root, cfg)
	if err != nil {
		return err
	}

	if scanFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	printReportHuman(cmd.OutOrStdout(), newStyles(), report)
	return nil
}

func discoveryConfig(c config.ScanConfig) codeaction.ScanConfig {
	return codeaction.ScanConfig{
		Include: c.Include,
		Exclude: c.Exclude,
		Workers: c.Workers,
	}
}

func printReportHuman(w io.Writer, s *styles, report *codeaction.Report) {
	for _, fr := range report.Files {
		printFileReport(w, s, report.Root, &fr)
	}

	summary := fmt.Sprintf("%d sites in %d files", report.Sites, report.Scanned)
	if report.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", report.Failed)
	}
	s.heading.Fprintln(w, summary)
}

func printFileReport(w io.Writer, s *styles, root string, fr *codeaction.FileReport) {
	path := fr.Path
	if absRoot, err := filepath.Abs(root); err == nil {
		if rel, err := filepath.Rel(absRoot, fr.Path); err == nil {
			path = rel
		}
	}

	if fr.Error != "" {
		fmt.Fprintf(w, "%s  %s\n", s.path.Sprint(path), s.errMsg.Sprint(fr.Error))
		return
	}

	s.path.Fprintln(w, path)
	for _, site := range fr.Sites {
		line := fmt.Sprintf("  %d:%d  %s  %d properties", site.Line, site.Column, s.tag.Sprint("<"+site.Tag+">"), site.Properties)
		if site.Skipped > 0 {
			line += s.warn.Sprintf(", %d skipped", site.Skipped)
		}
		fmt.Fprintln(w, line)
	}
	if !fr.StyledBound && len(fr.Sites) > 0 {
		s.dim.Fprintln(w, "  styled is not imported")
	}
}
