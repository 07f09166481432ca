package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
	"github.com/jbctechsolutions/doc2code/internal/presentation/cli/output"
)

// logsOptions holds the logs command flags.
type logsOptions struct {
	File   string
	Level  string
	Search string
	Tail   int
	List   bool
	Follow bool
}

// NewLogsCmd creates the logs command.
func NewLogsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View server log files",
		Long: `Show the daily log files written by "doc2code serve", filtered by level or
search text. Defaults to the newest file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd.Context(), GetFormatter(), GetConfig().Logging.Dir, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "log file name (default: newest)")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "only show lines at this level: debug, info, warn, error")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only show lines containing this text")
	cmd.Flags().IntVarP(&opts.Tail, "tail", "n", 100, "number of lines to show (0 for all)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list log files")
	cmd.Flags().BoolVarP(&opts.Follow, "follow", "F", false, "keep printing new lines as they are written")

	return cmd
}

func parseLevelFilter(s string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "debug":
		return logging.LevelDebug, nil
	case "info":
		return logging.LevelInfo, nil
	case "warn", "warning":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return "", fmt.Errorf("unknown log level: %s", s)
	}
}

func runLogs(ctx context.Context, formatter *output.Formatter, dir string, opts logsOptions) error {
	if dir == "" {
		return fmt.Errorf("file logging is disabled (logging.dir is empty)")
	}

	level, err := parseLevelFilter(opts.Level)
	if err != nil {
		return err
	}
	filter := logging.Filter{Level: level, Search: opts.Search, Tail: opts.Tail}

	files, err := logging.ListLogFiles(dir)
	if err != nil {
		return err
	}

	if opts.List {
		if formatter.Format() == output.FormatJSON {
			return formatter.JSON(map[string]any{"dir": dir, "files": files})
		}
		if len(files) == 0 {
			return formatter.Info("No log files in %s", dir)
		}
		for _, name := range files {
			formatter.Println("%s", name)
		}
		return nil
	}

	name := opts.File
	if name == "" && len(files) > 0 {
		name = files[0]
	}

	var lines []string
	if name != "" {
		all, err := logging.ReadLogFile(dir, name)
		if err != nil {
			return fmt.Errorf("failed to read log file: %w", err)
		}
		lines = logging.FilterLines(all, filter)
	}

	if formatter.Format() == output.FormatJSON && !opts.Follow {
		return formatter.JSON(map[string]any{"file": name, "lines": nonNil(lines)})
	}

	if name == "" && !opts.Follow {
		return formatter.Info("No log files in %s", dir)
	}
	for _, line := range lines {
		formatter.Println("%s", formatter.LogLine(line))
	}

	if !opts.Follow {
		return nil
	}

	follower, err := logging.NewFollower(dir, name)
	if err != nil {
		return err
	}
	if follower.Current() == "" && formatter.Format() != output.FormatJSON {
		formatter.Info("Waiting for log files in %s", dir)
	}
	return follower.Run(ctx, func(line string) {
		if filter.Match(line) {
			formatter.Println("%s", formatter.LogLine(line))
		}
	})
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
