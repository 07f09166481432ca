// Package commands implements the CLI commands for doc2code.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/doc2code/internal/application"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/config"
	"github.com/jbctechsolutions/doc2code/internal/presentation/cli/output"
)

// Version information - set at build time via ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// annotationContainer marks commands that need providers, stores and the logger.
const annotationContainer = "doc2code/container"

// GlobalFlags holds the global CLI flags.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	Verbose    bool
}

// AppContext holds the application runtime context.
type AppContext struct {
	Config    *config.Config
	Formatter *output.Formatter
	Flags     *GlobalFlags
	Container *application.Container
}

var (
	globalFlags GlobalFlags
	appCtx      *AppContext
	appCtxMu    sync.RWMutex
)

// NewRootCmd creates the root command for the doc2code CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doc2code",
		Short: "doc2code - Generate client SDKs from API documentation",
		Long: `doc2code turns API documentation into a client SDK using a large
language model from OpenAI, OpenRouter or Groq.

Run "doc2code serve" for the HTTP API used by the web UI, or
"doc2code generate" to produce an SDK straight from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			return initializeApp(cmd.Annotations[annotationContainer] == "true")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigFile, "config", "c", "", "config file path (default: ~/.doc2code/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.Output, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewModelsCmd())
	rootCmd.AddCommand(NewLogsCmd())

	return rootCmd
}

// newFormatter builds the formatter selected by the --output flag.
func newFormatter() (*output.Formatter, error) {
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(
		output.WithFormat(format),
		output.WithColor(format != output.FormatJSON && output.IsColorSupported()),
	), nil
}

// initializeApp loads configuration and, when withContainer is set, wires
// the application container.
func initializeApp(withContainer bool) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}

	if err := config.LoadDotEnv(".env.local", ".env"); err != nil && globalFlags.Verbose {
		formatter.Warning("Could not load .env: %v", err)
	}

	cfg, err := loadConfig(globalFlags.ConfigFile)
	if err != nil {
		return err
	}

	var container *application.Container
	if withContainer {
		container, err = application.NewContainer(cfg, globalFlags.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
	}

	appCtxMu.Lock()
	appCtx = &AppContext{
		Config:    cfg,
		Formatter: formatter,
		Flags:     &globalFlags,
		Container: container,
	}
	appCtxMu.Unlock()

	return nil
}

// loadConfig loads configuration from the specified file or default location
// and applies environment overrides.
func loadConfig(configPath string) (*config.Config, error) {
	loader, err := config.NewLoader("")
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}

	return loader.LoadWithEnv(configPath, os.Getenv)
}

// GetAppContext returns the current application context.
// Returns nil if the app hasn't been initialized.
func GetAppContext() *AppContext {
	appCtxMu.RLock()
	defer appCtxMu.RUnlock()
	return appCtx
}

// GetFormatter returns the output formatter.
// Creates a default formatter if app context is not initialized.
func GetFormatter() *output.Formatter {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil {
		return ctx.Formatter
	}
	if f, err := newFormatter(); err == nil {
		return f
	}
	return output.NewFormatter()
}

// GetConfig returns the loaded configuration, or defaults before initialization.
func GetConfig() *config.Config {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil && ctx.Config != nil {
		return ctx.Config
	}
	return config.NewDefaultConfig()
}

// GetContainer returns the application container.
// Returns nil for commands that run without one.
func GetContainer() *application.Container {
	appCtxMu.RLock()
	ctx := appCtx
	appCtxMu.RUnlock()

	if ctx != nil {
		return ctx.Container
	}
	return nil
}

// Shutdown releases the container and clears the app context.
func Shutdown() {
	appCtxMu.Lock()
	defer appCtxMu.Unlock()

	if appCtx != nil && appCtx.Container != nil {
		_ = appCtx.Container.Close()
	}
	appCtx = nil
}

// Execute runs the root command with graceful shutdown support.
// The first SIGINT or SIGTERM cancels the command context so servers and
// in-flight generations can drain; a second one terminates immediately.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- NewRootCmd().ExecuteContext(ctx)
	}()

	var err error
	interrupted := false
	select {
	case err = <-errChan:
	case sig := <-sigChan:
		signal.Stop(sigChan)
		interrupted = true
		GetFormatter().Warning("Received signal %v, shutting down...", sig)
		cancel()
		err = <-errChan
	}

	formatter := GetFormatter()
	Shutdown()

	switch {
	case interrupted:
		os.Exit(130)
	case err != nil:
		formatter.Error("%s", err.Error())
		os.Exit(1)
	}
}
