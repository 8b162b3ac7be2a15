package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/styco/pkg/codeaction"
	mcpserver "github.com/gnana997/styco/pkg/mcp"
	"github.com/gnana997/styco/pkg/mcplog"
)

var serveLogFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the refactor as MCP tools on stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Append one JSON line per tool call to this file")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	logPath := a.cfg.Log.CallLog
	if serveLogFile != "" {
		logPath = serveLogFile
	}
	callLog, err := mcplog.NewLogger(logPath)
	if err != nil {
		return err
	}
	defer callLog.Close()

	scanner := codeaction.NewScanner(a.parser, a.logger)
	defer scanner.Close()

	srv := mcpserver.NewServer(version, a.refactorer, scanner, a.cfg.Refactor, callLog, a.logger)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
