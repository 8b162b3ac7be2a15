package styco

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/styco/pkg/document"
	"github.com/gnana997/styco/pkg/edit"
	"github.com/gnana997/styco/pkg/manifest"
	"github.com/gnana997/styco/pkg/parser"
	"github.com/gnana997/styco/pkg/util"
)

func newTestRefactorer(t *testing.T, root string) *Refactorer {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	t.Cleanup(func() { pm.Close() })

	var det *manifest.Detector
	if root != "" {
		var err error
		det, err = manifest.NewDetector(0, util.NopLogger(), manifest.WithBoundary(root))
		require.NoError(t, err)
	}
	return NewRefactorer(pm, det, util.NopLogger())
}

// project creates root/package.json (when manifest is non-empty) and
// root/src/App.tsx and returns the source file path.
func project(t *testing.T, manifestJSON, source string) (string, string) {
	t.Helper()
	root := t.TempDir()
	if manifestJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(manifestJSON), 0644))
	}
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	path := filepath.Join(src, "App.tsx")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return root, path
}

func TestRun_BoxScenario(t *testing.T) {
	text := `
        <div style={{
            marginTop: '12px'
        }}/>
    `
	doc := document.NewBuffer("", text)
	r := newTestRefactorer(t, "")

	result, err := r.Run(context.Background(), Invocation{
		Document: doc,
		Offset:   10,
		Prompt:   StaticName("Box"),
		Config:   DefaultConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "div", result.Tag)
	assert.Equal(t, "Box", result.Name)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "marginTop", result.Properties[0].Key)
	assert.Equal(t, "12px", result.Properties[0].Value)
	assert.Contains(t, result.Declaration, "margin-top: 12px;")
	assert.Empty(t, result.Import, "unsaved buffers never get an import")

	assert.Equal(t, "const Box = styled.div`\n  margin-top: 12px;\n`;\n\n\n        <Box />\n    ", doc.Text())
	assert.Equal(t, doc.Text(), result.Text)
	assert.NotContains(t, doc.Text(), "style=")
	assert.True(t, doc.Dirty())
}

func TestRun_RenamesClosingTag(t *testing.T) {
	text := `import React from "react";

export function Card() {
  return (
    <section className="card" style={{ padding: 8, color: "red" }}>
      <h2>Title</h2>
    </section>
  );
}
`
	doc := document.NewBuffer("Card.tsx", text)
	r := newTestRefactorer(t, "")

	result, err := r.Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "className"),
		Prompt:   StaticName("Wrapper"),
		Config:   Config{OrderStyleByName: true},
	})
	require.NoError(t, err)
	assert.Len(t, result.Operations, 4)

	assert.Equal(t, `import React from "react";

const Wrapper = styled.section`+"`\n  color: red;\n  padding: 8;\n`;"+`

export function Card() {
  return (
    <Wrapper className="card" >
      <h2>Title</h2>
    </Wrapper>
  );
}
`, doc.Text())
}

func TestRun_ObjectSyntaxForComponentTag(t *testing.T) {
	text := `const x = <Button style={{ fontSize: 14, lineHeight: "1.2" }}>Go</Button>;`
	doc := document.NewBuffer("x.jsx", text)

	result, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "Go"),
		Prompt:   StaticName("BigButton"),
		Config:   Config{ObjectSyntax: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "const BigButton = styled(Button)({\n  fontSize: 14,\n  lineHeight: \"1.2\"\n});\n", result.Declaration)
	assert.Contains(t, doc.Text(), "<BigButton >Go</BigButton>")
}

func TestRun_NoStyleAttribute(t *testing.T) {
	text := `const x = <Card title="a" />;`
	doc := document.NewBuffer("x.tsx", text)

	result, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "Card"),
		Prompt:   StaticName("Fancy"),
	})
	require.NoError(t, err)
	assert.Nil(t, result.Properties)
	assert.Equal(t, "const Fancy = styled(Card)``;\n", result.Declaration)
	assert.Equal(t, "const Fancy = styled(Card)``;\n\nconst x = <Fancy title=\"a\" />;", doc.Text())
}

func TestRun_SkippedCount(t *testing.T) {
	text := `const x = <div style={{ color: theme.fg, margin: 0, ...rest }} />;`
	doc := document.NewBuffer("x.tsx", text)

	result, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "div"),
		Prompt:   StaticName("Box"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "margin", result.Properties[0].Key)
}

func TestRun_SiblingRegression(t *testing.T) {
	text := `const a = <p style={{ color: 'red' }}>one</p>;

const b = <p>two</p>;
`
	doc := document.NewBuffer("x.tsx", text)

	_, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "\n\n") + 1,
		Prompt:   StaticName("Box"),
	})
	require.ErrorIs(t, err, ErrNoElement)
	assert.Equal(t, "no element/attribute found", UserMessage(err))
	assert.Equal(t, text, doc.Text())
	assert.False(t, doc.Dirty())
}

func TestRun_ParseFailure(t *testing.T) {
	text := `const x = <div style={{ color: 'red' }}`
	doc := document.NewBuffer("x.tsx", text)

	promptCalled := false
	_, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   12,
		Prompt: func(context.Context, *Analysis) (string, error) {
			promptCalled = true
			return "Box", nil
		},
	})
	require.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, parser.ErrSyntax)
	assert.Equal(t, "could not analyze document", UserMessage(err))
	assert.False(t, promptCalled, "no prompt before a successful analysis")
	assert.False(t, doc.Dirty())
}

func TestRun_NameValidation(t *testing.T) {
	text := `const x = <div style={{ color: 'red' }} />;`

	tests := []struct {
		name   string
		prompt Prompt
		want   error
	}{
		{"empty", StaticName(""), ErrEmptyName},
		{"blank", StaticName("   "), ErrEmptyName},
		{"no prompt", nil, ErrEmptyName},
		{"cancelled", func(context.Context, *Analysis) (string, error) { return "", context.Canceled }, ErrEmptyName},
		{"space", StaticName("my box"), ErrInvalidName},
		{"reserved", StaticName("class"), ErrInvalidName},
		{"digit", StaticName("1Box"), ErrInvalidName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := document.NewBuffer("x.tsx", text)
			_, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
				Document: doc,
				Offset:   strings.Index(text, "div"),
				Prompt:   tc.prompt,
			})
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, text, doc.Text())
			assert.False(t, doc.Dirty())
		})
	}
}

func TestRun_EmptyNameIsSilent(t *testing.T) {
	assert.True(t, IsSilent(ErrEmptyName))
	assert.Equal(t, "", UserMessage(ErrEmptyName))
	assert.Equal(t, "", UserMessage(nil))
	assert.False(t, IsSilent(ErrParse))
}

func TestRun_DocumentChangedDuringPrompt(t *testing.T) {
	text := `const x = <div style={{ color: 'red' }} />;`
	doc := document.NewBuffer("x.tsx", text)

	_, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "div"),
		Prompt: func(context.Context, *Analysis) (string, error) {
			require.NoError(t, doc.ApplyEdits([]edit.Operation{edit.NewInsert(0, "// edited\n")}))
			return "Box", nil
		},
	})
	require.ErrorIs(t, err, ErrEditApplication)
	assert.Equal(t, "could not update document", UserMessage(err))
	assert.Equal(t, "// edited\n"+text, doc.Text())
}

func TestRun_PromptSeesAnalysis(t *testing.T) {
	text := `const x = <span style={{ color: 'red' }}>a</span>;`
	doc := document.NewBuffer("x.tsx", text)

	var seen *Analysis
	_, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(text, "a<"),
		Prompt: func(_ context.Context, a *Analysis) (string, error) {
			seen = a
			return "Label", nil
		},
	})
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, "span", seen.Element.TagName)
	assert.Len(t, seen.Properties(), 1)
}

func TestRun_ImportFromManifest(t *testing.T) {
	source := "import React from 'react';\n\nexport const App = () => <div style={{ marginTop: '12px' }} />;\n"
	root, path := project(t, `{"dependencies": {"react": "18", "styled-components": "6"}}`, source)

	doc, err := document.Open(path, util.NopLogger())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SaveAfterExecute = true

	result, err := newTestRefactorer(t, root).Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(source, "<div") + 1,
		Prompt:   StaticName("Box"),
		Config:   cfg,
	})
	require.NoError(t, err)
	assert.Equal(t, `import styled from "styled-components";`, result.Import)
	require.NotNil(t, result.Library)
	assert.Equal(t, "styled-components", result.Library.PackageName)
	assert.True(t, result.Saved)

	want := "import React from 'react';\n" +
		"import styled from \"styled-components\";\n" +
		"\n" +
		"const Box = styled.div`\n  margin-top: 12px;\n`;\n" +
		"\n" +
		"export const App = () => <Box  />;\n"
	assert.Equal(t, want, doc.Text())

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(onDisk))
}

func TestRun_ImportConditions(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		source   string
		cfg      Config
		want     string
	}{
		{
			name:     "no matching dependency",
			manifest: `{"dependencies": {"react": "18"}}`,
			source:   "const x = <div style={{ color: 'red' }} />;\n",
			cfg:      DefaultConfig(),
			want:     "",
		},
		{
			name:     "no manifest",
			source:   "const x = <div style={{ color: 'red' }} />;\n",
			cfg:      DefaultConfig(),
			want:     "",
		},
		{
			name:     "already imported",
			manifest: `{"dependencies": {"styled-components": "6"}}`,
			source:   "import styled from 'styled-components';\nconst x = <div style={{ color: 'red' }} />;\n",
			cfg:      DefaultConfig(),
			want:     "",
		},
		{
			name:     "disabled",
			manifest: `{"dependencies": {"styled-components": "6"}}`,
			source:   "const x = <div style={{ color: 'red' }} />;\n",
			cfg:      Config{},
			want:     "",
		},
		{
			name:     "malformed manifest",
			manifest: `{"dependencies": [}`,
			source:   "const x = <div style={{ color: 'red' }} />;\n",
			cfg:      DefaultConfig(),
			want:     "",
		},
		{
			name:     "named export",
			manifest: `{"devDependencies": {"linaria": "2"}}`,
			source:   "const x = <div style={{ color: 'red' }} />;\n",
			cfg:      DefaultConfig(),
			want:     `import { styled } from "linaria/react";`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root, path := project(t, tc.manifest, tc.source)
			doc, err := document.Open(path, util.NopLogger())
			require.NoError(t, err)

			result, err := newTestRefactorer(t, root).Run(context.Background(), Invocation{
				Document: doc,
				Offset:   strings.Index(tc.source, "<div") + 1,
				Prompt:   StaticName("Box"),
				Config:   tc.cfg,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Import)
			if tc.want != "" {
				assert.True(t, strings.HasPrefix(doc.Text(), tc.want+"\n\nconst Box"))
			}

			// Not saved without SaveAfterExecute.
			onDisk, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.source, string(onDisk))
		})
	}
}

func TestRun_SaveConflict(t *testing.T) {
	source := "const x = <div style={{ color: 'red' }} />;\n"
	root, path := project(t, "", source)
	doc, err := document.Open(path, util.NopLogger())
	require.NoError(t, err)

	_, err = newTestRefactorer(t, root).Run(context.Background(), Invocation{
		Document: doc,
		Offset:   strings.Index(source, "div"),
		Prompt: func(context.Context, *Analysis) (string, error) {
			require.NoError(t, os.WriteFile(path, []byte("// changed elsewhere\n"), 0644))
			return "Box", nil
		},
		Config: Config{SaveAfterExecute: true},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEditApplication))
	assert.True(t, errors.Is(err, document.ErrModified))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// changed elsewhere\n", string(onDisk))
}

func TestRun_NilDocument(t *testing.T) {
	_, err := newTestRefactorer(t, "").Run(context.Background(), Invocation{Prompt: StaticName("Box")})
	assert.Error(t, err)
}
