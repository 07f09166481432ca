package commands

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	progressstore "github.com/jbctechsolutions/doc2code/internal/adapters/progress"
	"github.com/jbctechsolutions/doc2code/internal/application/generation"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/domain/progress"
	"github.com/jbctechsolutions/doc2code/internal/presentation/cli/output"
)

// executeCommand executes a cobra command with the given args.
func executeCommand(root *cobra.Command, args ...string) error {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	return root.Execute()
}

func newTestFormatter(format output.Format) (*output.Formatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return output.NewFormatter(
		output.WithWriter(&buf),
		output.WithFormat(format),
		output.WithColor(false),
	), &buf
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "doc2code", cmd.Use)

	subcmds := make(map[string]*cobra.Command)
	for _, sub := range cmd.Commands() {
		subcmds[sub.Name()] = sub
	}
	for _, want := range []string{"version", "serve", "generate", "models", "logs"} {
		assert.Contains(t, subcmds, want)
	}
	assert.Equal(t, "true", subcmds["serve"].Annotations[annotationContainer])
	assert.Equal(t, "true", subcmds["generate"].Annotations[annotationContainer])
	assert.Empty(t, subcmds["models"].Annotations[annotationContainer])

	for _, flag := range []string{"config", "output", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing persistent flag %s", flag)
	}
}

func TestNewGenerateCmd_Structure(t *testing.T) {
	cmd := NewGenerateCmd()

	for _, flag := range []string{"provider", "language", "model", "minify", "json", "chunk", "write"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
	assert.Equal(t, "openai", cmd.Flags().Lookup("provider").DefValue)
}

func TestCommandArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"generate without input", []string{"generate"}},
		{"models with two providers", []string{"models", "groq", "openai"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, executeCommand(NewRootCmd(), tt.args...))
		})
	}
}

func TestVersionCmd_NoError(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"version", "--short"}, {"version", "-o", "json"}} {
		assert.NoError(t, executeCommand(NewRootCmd(), args...), "args %v", args)
	}
}

func TestRunVersion(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatText)
		require.NoError(t, runVersion(f, false))
		assert.Contains(t, buf.String(), "doc2code")
		assert.Contains(t, buf.String(), "Version: "+Version)
	})

	t.Run("short json", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatJSON)
		require.NoError(t, runVersion(f, true))

		var got map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, Version, got["version"])
	})
}

func TestRunModels(t *testing.T) {
	t.Run("all providers as table", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatText)
		require.NoError(t, runModels(f, ""))

		out := buf.String()
		assert.Contains(t, out, "PROVIDER")
		assert.Contains(t, out, "gpt-4-turbo")
		assert.Contains(t, out, "anthropic/claude-3-opus")
		assert.Contains(t, out, "llama3-70b-8192")
		assert.Contains(t, out, "default")
	})

	t.Run("single provider as json", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatJSON)
		require.NoError(t, runModels(f, "groq"))

		var got modelsOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Len(t, got.Models, 4)
		assert.Equal(t, "llama3-70b-8192", got.DefaultModel)
		assert.Equal(t, model.TokenLimitFor(model.ProviderGroq, "llama3-70b-8192"), got.TokenLimit)
		assert.NotEmpty(t, got.Languages)
	})

	t.Run("unknown provider", func(t *testing.T) {
		f, _ := newTestFormatter(output.FormatText)
		err := runModels(f, "bogus")
		require.Error(t, err)
		assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
	})
}

func TestReadDocumentation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.md")
	require.NoError(t, os.WriteFile(path, []byte("# Pets API"), 0o644))

	doc, err := readDocumentation(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Pets API", doc)

	doc, err = readDocumentation("-", strings.NewReader(`{"openapi":"3.0.0"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"openapi":"3.0.0"}`, doc)

	_, err = readDocumentation("-", strings.NewReader("  \n"))
	assert.ErrorIs(t, err, errors.ErrDocumentationRequired)

	_, err = readDocumentation(filepath.Join(dir, "missing.md"), nil)
	assert.Error(t, err)
}

func TestSDKPath(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "", sdkPath("", "python"))
	assert.Equal(t, filepath.Join(dir, "generated-sdk.py"), sdkPath(dir, "python"))
	assert.Equal(t, filepath.Join("out", "generated-sdk.ts"), sdkPath("out/", "typescript"))
	assert.Equal(t, filepath.Join(dir, "client.go"), sdkPath(filepath.Join(dir, "client.go"), "go"))
}

// fakeGenerator returns a canned result and records the request.
type fakeGenerator struct {
	req    generation.Request
	result *generation.Result
	err    error
	onCall func(req generation.Request)
}

func (g *fakeGenerator) Generate(_ context.Context, req generation.Request) (*generation.Result, error) {
	g.req = req
	if g.onCall != nil {
		g.onCall(req)
	}
	if g.err != nil {
		return nil, g.err
	}
	r := *g.result
	r.SessionID = req.SessionID
	return &r, nil
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{result: &generation.Result{
		SDK:          "class PetsClient: pass",
		Provider:     model.ProviderGroq,
		Model:        "llama3-70b-8192",
		Chunks:       1,
		InputTokens:  120,
		OutputTokens: 40,
		Duration:     1500 * time.Millisecond,
	}}
}

func TestRunGenerate(t *testing.T) {
	t.Run("prints sdk to stdout", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatText)
		gen := newFakeGenerator()

		err := runGenerate(context.Background(), f, gen, nil, "# Pets API",
			generateOptions{Provider: "groq", Language: "python", Minify: true, JSON: true})
		require.NoError(t, err)

		assert.Equal(t, "class PetsClient: pass\n", buf.String())
		assert.Equal(t, generation.Request{
			Documentation: "# Pets API",
			Language:      "python",
			Provider:      "groq",
			Minify:        true,
			IsJSON:        true,
		}, gen.req)
	})

	t.Run("json output with file", func(t *testing.T) {
		dir := t.TempDir()
		f, buf := newTestFormatter(output.FormatJSON)

		err := runGenerate(context.Background(), f, newFakeGenerator(), nil, "docs",
			generateOptions{Provider: "groq", Language: "python", Write: dir})
		require.NoError(t, err)

		var got generateOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, filepath.Join(dir, "generated-sdk.py"), got.File)
		assert.Equal(t, "groq", got.Provider)
		assert.Equal(t, int64(1500), got.DurationMs)

		written, err := os.ReadFile(got.File)
		require.NoError(t, err)
		assert.Equal(t, "class PetsClient: pass", string(written))
	})

	t.Run("text summary when writing a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "client.py")
		f, buf := newTestFormatter(output.FormatText)
		gen := newFakeGenerator()
		gen.result.Truncated = true

		err := runGenerate(context.Background(), f, gen, nil, "docs",
			generateOptions{Provider: "groq", Language: "python", Write: path})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Wrote python SDK to "+path)
		assert.Contains(t, out, "Provider: Groq")
		assert.Contains(t, out, "120 in / 40 out")
		assert.Contains(t, out, "truncated")
		assert.FileExists(t, path)
	})

	t.Run("chunking creates a progress session", func(t *testing.T) {
		store := progressstore.NewMemoryStore(0, 0)
		f, buf := newTestFormatter(output.FormatJSON)
		gen := newFakeGenerator()

		err := runGenerate(context.Background(), f, gen, store, "docs",
			generateOptions{Provider: "openai", Language: "go", Chunk: true})
		require.NoError(t, err)

		assert.True(t, gen.req.UseChunking)
		assert.NotEmpty(t, gen.req.SessionID)

		var got generateOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, gen.req.SessionID, got.SessionID)
	})

	t.Run("no session without a store", func(t *testing.T) {
		f, _ := newTestFormatter(output.FormatJSON)
		gen := newFakeGenerator()

		require.NoError(t, runGenerate(context.Background(), f, gen, nil, "docs",
			generateOptions{Provider: "openai", Language: "go", Chunk: true}))
		assert.Empty(t, gen.req.SessionID)
	})

	t.Run("invalid provider", func(t *testing.T) {
		f, _ := newTestFormatter(output.FormatText)
		gen := newFakeGenerator()

		err := runGenerate(context.Background(), f, gen, nil, "docs",
			generateOptions{Provider: "anthropic", Language: "go"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidProvider)
		assert.Empty(t, gen.req.Provider, "generator should not be called")
	})

	t.Run("generation error", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatText)
		gen := newFakeGenerator()
		gen.err = stderrors.New("boom")

		err := runGenerate(context.Background(), f, gen, nil, "docs",
			generateOptions{Provider: "groq", Language: "go"})
		assert.EqualError(t, err, "boom")
		assert.Empty(t, buf.String())
	})
}

func TestGenerateWithIndicator_PollsProgress(t *testing.T) {
	store := progressstore.NewMemoryStore(0, 0)
	gen := newFakeGenerator()
	gen.onCall = func(req generation.Request) {
		_ = store.Set(context.Background(), req.SessionID, progress.Progress{Current: 1, Total: 2, Status: progress.StatusProcessing})
		time.Sleep(3 * progressPollInterval)
	}

	req := generation.Request{Documentation: "docs", Language: "go", Provider: "groq",
		UseChunking: true, SessionID: generation.NewSessionID()}

	result, err := generateWithIndicator(context.Background(), gen, store, req, true)
	require.NoError(t, err)
	assert.Equal(t, req.SessionID, result.SessionID)
}

func TestPollProgress_StopsAtTerminalStatus(t *testing.T) {
	store := progressstore.NewMemoryStore(0, 0)
	require.NoError(t, store.Set(context.Background(), "sess",
		progress.Progress{Current: 2, Total: 2, Status: progress.StatusComplete}))

	var buf bytes.Buffer
	bar := output.NewProgressBar("Generating", output.WithProgressBarWriter(&buf), output.WithProgressBarColor(false))

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		pollProgress(context.Background(), store, "sess", bar, make(chan struct{}))
	}()

	select {
	case <-stopped:
	case <-time.After(20 * progressPollInterval):
		t.Fatal("polling should stop once the session is complete")
	}
	current, total := bar.Current()
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, total)
	assert.Contains(t, buf.String(), "100%")
}

func TestParseLevelFilter(t *testing.T) {
	for in, want := range map[string]string{"": "", "INFO": "info", "warning": "warn", "error": "error", "debug": "debug"} {
		got, err := parseLevelFilter(in)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
	_, err := parseLevelFilter("fatal")
	assert.Error(t, err)
}

func writeLogFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	older := "time=2024-01-01T10:00:00Z level=INFO msg=\"old file\"\n"
	newer := strings.Join([]string{
		`time=2024-01-02T10:00:00Z level=INFO msg="Generation started" provider=groq`,
		`time=2024-01-02T10:00:01Z level=WARN msg="Documentation truncated"`,
		`time=2024-01-02T10:00:02Z level=ERROR msg="Generation failed" provider=openai`,
		`time=2024-01-02T10:00:03Z level=INFO msg="Generation completed" provider=groq`,
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-01.log"), []byte(older), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-02.log"), []byte(newer), 0o644))
	return dir
}

func TestRunLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("newest file filtered by level", func(t *testing.T) {
		dir := writeLogFixture(t)
		f, buf := newTestFormatter(output.FormatText)

		require.NoError(t, runLogs(ctx, f, dir, logsOptions{Level: "error", Tail: 100}))
		assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
		assert.Contains(t, buf.String(), "Generation failed")
	})

	t.Run("search and tail", func(t *testing.T) {
		dir := writeLogFixture(t)
		f, buf := newTestFormatter(output.FormatJSON)

		require.NoError(t, runLogs(ctx, f, dir, logsOptions{Search: "GROQ", Tail: 1}))

		var got struct {
			File  string   `json:"file"`
			Lines []string `json:"lines"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "2024-01-02.log", got.File)
		require.Len(t, got.Lines, 1)
		assert.Contains(t, got.Lines[0], "Generation completed")
	})

	t.Run("explicit file", func(t *testing.T) {
		dir := writeLogFixture(t)
		f, buf := newTestFormatter(output.FormatText)

		require.NoError(t, runLogs(ctx, f, dir, logsOptions{File: "2024-01-01.log"}))
		assert.Contains(t, buf.String(), "old file")
	})

	t.Run("list", func(t *testing.T) {
		dir := writeLogFixture(t)
		f, buf := newTestFormatter(output.FormatText)

		require.NoError(t, runLogs(ctx, f, dir, logsOptions{List: true}))
		assert.Equal(t, "2024-01-02.log\n2024-01-01.log\n", buf.String())
	})

	t.Run("empty directory", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatText)

		require.NoError(t, runLogs(ctx, f, t.TempDir(), logsOptions{}))
		assert.Contains(t, buf.String(), "No log files")
	})

	t.Run("errors", func(t *testing.T) {
		f, _ := newTestFormatter(output.FormatText)
		dir := writeLogFixture(t)

		assert.Error(t, runLogs(ctx, f, "", logsOptions{}))
		assert.Error(t, runLogs(ctx, f, dir, logsOptions{Level: "loud"}))
		assert.Error(t, runLogs(ctx, f, dir, logsOptions{File: "../secrets.log"}))
		assert.Error(t, runLogs(ctx, f, filepath.Join(dir, "missing"), logsOptions{}))
	})

	t.Run("follow stops with context", func(t *testing.T) {
		dir := writeLogFixture(t)
		f, _ := newTestFormatter(output.FormatText)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		assert.NoError(t, runLogs(ctx, f, dir, logsOptions{Follow: true, Tail: 1}))
	})

	t.Run("follow empty directory waits for files", func(t *testing.T) {
		f, buf := newTestFormatter(output.FormatText)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		require.NoError(t, runLogs(ctx, f, t.TempDir(), logsOptions{Follow: true, Tail: 1}))
		assert.Contains(t, buf.String(), "Waiting for log files")
	})
}
