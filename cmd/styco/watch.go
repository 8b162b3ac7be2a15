package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/styco/pkg/codeaction"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Scan a directory and rescan files as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	configureColor(colorMode)
	s := newStyles()
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := codeaction.NewScanner(a.parser, a.logger)
	defer scanner.Close()

	cfg := discoveryConfig(a.cfg.Scan)
	report, err := scanner.Scan(ctx, root, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printReportHuman(out, s, report)

	debounce := time.Duration(a.cfg.Scan.DebounceMillis) * time.Millisecond
	w, err := codeaction.NewWatcher(scanner, cfg, debounce, func(ev codeaction.Event) {
		switch {
		case ev.Removed:
			s.dim.Fprintf(out, "removed %s\n", ev.Path)
		case ev.Err != nil:
			fmt.Fprintf(out, "%s  %s\n", s.path.Sprint(ev.Path), s.errMsg.Sprint(ev.Err))
		case ev.Report != nil:
			printFileReport(out, s, root, ev.Report)
		}
	}, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(root); err != nil {
		return err
	}

	s.dim.Fprintln(out, "watching for changes, press Ctrl+C to stop")
	<-ctx.Done()

	return w.Stop()
}
