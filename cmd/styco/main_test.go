package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/gnana997/styco/pkg/codeaction"
	"github.com/gnana997/styco/pkg/styco"
)

const boxSource = `
        <div style={{
            marginTop: '12px'
        }}/>
    `

const boxExtracted = "const Box = styled.div`\n  margin-top: 12px;\n`;\n\n\n        <Box />\n    "

// resetFlags restores every package-level flag to its default.
func resetFlags() {
	configPath, logLevel, logFormat, colorMode = "", "error", "", "never"
	extractName, extractOffset, extractLine, extractColumn = "", -1, 0, 0
	extractWrite, extractOrderByName, extractObjectSyntax = false, false, false
	extractNoImport, extractDiff, extractJSON = true, false, false
	actionsLine, actionsJSON = 0, false
	scanFormat, scanWorkers = "human", 0
	serveLogFile = ""
}

func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func writeSource(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "App.tsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunExtract_PrintsUpdatedText(t *testing.T) {
	resetFlags()
	path := writeSource(t, t.TempDir(), boxSource)
	extractName, extractOffset = "Box", 10

	cmd, out, _ := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))
	assert.Equal(t, boxExtracted, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, boxSource, string(data), "file is untouched without --write")
}

func TestRunExtract_Write(t *testing.T) {
	resetFlags()
	path := writeSource(t, t.TempDir(), boxSource)
	extractName, extractLine, extractColumn, extractWrite = "Box", 2, 10, true

	cmd, out, _ := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))
	assert.Contains(t, out.String(), "Extracted <div> into Box (1 properties)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, boxExtracted, string(data))
}

func TestRunExtract_Diff(t *testing.T) {
	resetFlags()
	path := writeSource(t, t.TempDir(), boxSource)
	extractName, extractOffset, extractDiff = "Box", 10, true

	cmd, out, _ := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))

	diff := out.String()
	assert.Contains(t, diff, "--- a/")
	assert.Contains(t, diff, "-        <div style={{")
	assert.Contains(t, diff, "+const Box = styled.div`")
	assert.Contains(t, diff, "+        <Box />")
}

func TestRunExtract_JSON(t *testing.T) {
	resetFlags()
	path := writeSource(t, t.TempDir(), boxSource)
	extractName, extractOffset, extractJSON, extractObjectSyntax = "Box", 10, true, true

	cmd, out, _ := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "Box", result["name"])
	assert.Equal(t, "div", result["tag"])
	assert.Equal(t, "const Box = styled.div({\n  marginTop: \"12px\"\n});\n", result["declaration"])
}

func TestRunExtract_InsertsImport(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"dependencies": {"react": "^18.0.0", "styled-components": "^6.1.0"}}`), 0644))
	path := writeSource(t, dir, "import React from 'react';\n\nexport const App = () => <main style={{ padding: 4 }} />;\n")
	extractName, extractOffset, extractNoImport, extractWrite = "Main", 60, false, true

	cmd, _, _ := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "import React from 'react';\nimport styled from \"styled-components\";\n"), text)
	assert.Contains(t, text, "const Main = styled.main`\n  padding: 4;\n`;")
	assert.Contains(t, text, "=> <Main ")
	assert.NotContains(t, text, "style=")
}

func TestRunExtract_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		setup  func()
		target error
	}{
		{"no element", "const x = 1;\n", func() { extractName, extractOffset = "Box", 3 }, styco.ErrNoElement},
		{"parse failure", "const x = <div", func() { extractName, extractOffset = "Box", 11 }, styco.ErrParse},
		{"invalid name", boxSource, func() { extractName, extractOffset = "my-box", 10 }, styco.ErrInvalidName},
		{"no cursor", boxSource, func() { extractName = "Box" }, nil},
		{"offset past end", boxSource, func() { extractName, extractOffset = "Box", 500 }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags()
			path := writeSource(t, t.TempDir(), tc.source)
			tc.setup()

			cmd, _, _ := testCommand()
			err := runExtract(cmd, []string{path})
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}

			data, rerr := os.ReadFile(path)
			require.NoError(t, rerr)
			assert.Equal(t, tc.source, string(data))
		})
	}
}

func TestRunExtract_NoNameCancels(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	resetFlags()
	path := writeSource(t, t.TempDir(), boxSource)
	extractOffset = 10

	cmd, out, errOut := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "extract cancelled")
}

func TestRunExtract_ProjectConfig(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".styco"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".styco", "config.yaml"),
		[]byte("refactor:\n  object_syntax: true\n"), 0644))
	path := writeSource(t, dir, boxSource)
	t.Chdir(dir)
	extractName, extractOffset = "Box", 10

	cmd, out, _ := testCommand()
	require.NoError(t, runExtract(cmd, []string{path}))
	assert.Contains(t, out.String(), "styled.div({")
}

func TestRunActions(t *testing.T) {
	resetFlags()
	path := writeSource(t, t.TempDir(), boxSource)

	actionsLine = 2
	cmd, out, _ := testCommand()
	require.NoError(t, runActions(cmd, []string{path}))
	assert.Contains(t, out.String(), "Extract to styled component")

	actionsLine, actionsJSON = 3, true
	cmd, out, _ = testCommand()
	require.NoError(t, runActions(cmd, []string{path}))
	assert.Equal(t, "[]\n", out.String())

	actionsLine = 42
	cmd, _, _ = testCommand()
	assert.Error(t, runActions(cmd, []string{path}))
}

func TestRunScan(t *testing.T) {
	resetFlags()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "Box.tsx"), []byte(boxSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "Plain.jsx"), []byte("const p = <p />;\n"), 0644))

	cmd, out, _ := testCommand()
	require.NoError(t, runScan(cmd, []string{root}))
	assert.Contains(t, out.String(), filepath.Join("src", "Box.tsx"))
	assert.Contains(t, out.String(), "2:9  <div>  1 properties")
	assert.Contains(t, out.String(), "1 sites in 2 files")

	scanFormat = "json"
	cmd, out, _ = testCommand()
	require.NoError(t, runScan(cmd, []string{root}))
	var report codeaction.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Sites)

	scanFormat = "sarif"
	cmd, _, _ = testCommand()
	assert.Error(t, runScan(cmd, []string{root}))
}

func TestRunVersion(t *testing.T) {
	cmd, out, _ := testCommand()
	require.NoError(t, runVersion(cmd, nil))
	assert.Contains(t, out.String(), "styco "+version)
}
