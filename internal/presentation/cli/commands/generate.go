package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/doc2code/internal/application/generation"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/presentation/cli/output"
)

// progressPollInterval is how often the CLI samples chunk progress.
const progressPollInterval = 250 * time.Millisecond

// sdkGenerator is the part of the generation service the command needs.
type sdkGenerator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

// generateOptions holds the generate command flags.
type generateOptions struct {
	Provider string
	Language string
	Model    string
	Minify   bool
	JSON     bool
	Chunk    bool
	Write    string
}

// generateOutput is the JSON rendering of a finished generation.
type generateOutput struct {
	SDK          string `json:"sdk"`
	File         string `json:"file,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Chunks       int    `json:"chunks"`
	Minified     bool   `json:"minified"`
	Truncated    bool   `json:"truncated"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	DurationMs   int64  `json:"durationMs"`
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <documentation-file | ->",
		Short: "Generate an SDK from API documentation",
		Long: `Generate a client SDK from an API documentation file, or from stdin when the
argument is "-". The SDK is printed to stdout unless --write is given.

Examples:
  doc2code generate openapi.json --language python --provider groq --minify --json
  cat docs.md | doc2code generate - -l typescript -p openai --chunk -w ./sdk/`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationContainer: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			container := GetContainer()
			if container == nil {
				return fmt.Errorf("application not initialized")
			}

			doc, err := readDocumentation(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			return runGenerate(cmd.Context(), GetFormatter(), container.GenerationService(),
				container.ProgressStore(), doc, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Provider, "provider", "p", string(model.ProviderOpenAI), "AI provider: openai, openrouter, groq")
	cmd.Flags().StringVarP(&opts.Language, "language", "l", "", "target SDK language (required)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model ID (default: the provider's default model)")
	cmd.Flags().BoolVar(&opts.Minify, "minify", false, "minify the documentation before sending it")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "treat the documentation as JSON when minifying")
	cmd.Flags().BoolVar(&opts.Chunk, "chunk", false, "split large documentation into chunks")
	cmd.Flags().StringVarP(&opts.Write, "write", "w", "", "write the SDK to this file or directory")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

// readDocumentation reads path, or stdin when path is "-".
func readDocumentation(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read documentation: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.Validation(errors.ErrDocumentationRequired)
	}
	return string(data), nil
}

// sdkPath resolves --write. A directory target (existing, or ending in a
// separator) receives the language's default file name.
func sdkPath(target, language string) string {
	if target == "" {
		return ""
	}
	if strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/") {
		return filepath.Join(target, model.SDKFileName(language))
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, model.SDKFileName(language))
	}
	return target
}

func runGenerate(ctx context.Context, formatter *output.Formatter, gen sdkGenerator,
	store ports.ProgressStorePort, doc string, opts generateOptions) error {
	if !model.IsValidProvider(opts.Provider) {
		return errors.Validation(fmt.Errorf("%w: %s", errors.ErrInvalidProvider, opts.Provider))
	}

	req := generation.Request{
		Documentation: doc,
		Language:      opts.Language,
		Provider:      opts.Provider,
		Model:         opts.Model,
		Minify:        opts.Minify,
		IsJSON:        opts.JSON,
		UseChunking:   opts.Chunk,
	}
	if opts.Chunk && store != nil {
		req.SessionID = generation.NewSessionID()
	}

	interactive := formatter.Format() != output.FormatJSON
	result, err := generateWithIndicator(ctx, gen, store, req, interactive && formatter.ColorEnabled())
	if err != nil {
		return err
	}

	path := sdkPath(opts.Write, opts.Language)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(result.SDK), 0o644); err != nil {
			return fmt.Errorf("failed to write SDK: %w", err)
		}
	}

	if !interactive {
		return formatter.JSON(generateOutput{
			SDK:          result.SDK,
			File:         path,
			SessionID:    result.SessionID,
			Provider:     string(result.Provider),
			Model:        result.Model,
			Chunks:       result.Chunks,
			Minified:     result.Minified,
			Truncated:    result.Truncated,
			InputTokens:  result.InputTokens,
			OutputTokens: result.OutputTokens,
			DurationMs:   result.Duration.Milliseconds(),
		})
	}

	if path == "" {
		formatter.Println("%s", result.SDK)
		return nil
	}

	formatter.Success("Wrote %s SDK to %s", opts.Language, path)
	formatter.Item("Provider", result.Provider.DisplayName())
	formatter.Item("Model", result.Model)
	formatter.Item("Chunks", fmt.Sprintf("%d", result.Chunks))
	formatter.Item("Tokens", fmt.Sprintf("%d in / %d out", result.InputTokens, result.OutputTokens))
	formatter.Item("Duration", result.Duration.Round(time.Millisecond).String())
	if result.Truncated {
		formatter.Warning("Documentation was truncated to fit the model's context window")
	}
	return nil
}

// generateWithIndicator runs the generation while showing a progress bar for
// chunked sessions and a spinner otherwise. Indicators go to stderr so stdout
// carries only the SDK.
func generateWithIndicator(ctx context.Context, gen sdkGenerator, store ports.ProgressStorePort,
	req generation.Request, show bool) (*generation.Result, error) {
	if !show {
		return gen.Generate(ctx, req)
	}

	if req.SessionID == "" {
		spinner := output.NewSpinner(fmt.Sprintf("Generating %s SDK with %s", req.Language, model.Provider(req.Provider).DisplayName()))
		spinner.Start()
		result, err := gen.Generate(ctx, req)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return nil, err
		}
		spinner.StopWithSuccess("SDK generated")
		return result, nil
	}

	bar := output.NewProgressBar("Generating")
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		pollProgress(ctx, store, req.SessionID, bar, done)
	}()

	result, err := gen.Generate(ctx, req)
	close(done)
	<-stopped
	if err != nil {
		return nil, err
	}
	bar.Complete()
	return result, nil
}

// pollProgress feeds bar from the progress store until done is closed or the
// session reaches a terminal status.
func pollProgress(ctx context.Context, store ports.ProgressStorePort, sessionID string,
	bar *output.ProgressBar, done <-chan struct{}) {
	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p, err := store.Get(ctx, sessionID)
			if err != nil {
				continue
			}
			bar.Update(p)
			if p.Status.IsTerminal() {
				return
			}
		}
	}
}
