package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/projclean/projclean/internal/config"
	"github.com/projclean/projclean/internal/events"
	"github.com/projclean/projclean/internal/purge"
	"github.com/projclean/projclean/internal/tui"
	"github.com/projclean/projclean/internal/walk"
)

// flagValues holds the parsed global flag values, populated by
// config.BindFlags during command initialization and validated in
// PersistentPreRunE.
var flagValues *config.FlagValues

var rootCmd = &cobra.Command{
	Use:   "projclean [flags] [RULES...]",
	Short: "Find and remove build-artifact directories.",
	Long: `projclean scans a directory tree for build-artifact directories
("purge targets") that belong to recognizable project kinds, measures
their sizes, and lets you remove them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateFlags(flagValues, cmd); err != nil {
			return err
		}

		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
	RunE: run,
}

func init() {
	flagValues = config.BindFlags(rootCmd)
}

// Execute runs the root command and returns the process exit code: 0 on
// success, the wrapped *ExitError's Code on failure, and 1 for any other
// non-nil error. This mirrors harvx's internal/cli.Execute exactly.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		return extractExitCode(err)
	}
	return 0
}

func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code
	}
	return 1
}

// RootCmd returns the root cobra.Command for use in testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	if flagValues.ListRules {
		printCatalog()
		return nil
	}

	if len(flagValues.Rules) == 0 {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return NewError("startup", &config.InvalidConfigError{
				Field:   "RULES",
				Message: "no rules given and stdin is not a terminal to prompt from",
			})
		}
		picked, err := tui.PickRules(config.Catalog())
		if err != nil {
			return NewError("rule picker", err)
		}
		if len(picked) == 0 {
			return NewError("startup", &config.InvalidConfigError{
				Field:   "RULES",
				Message: "no rules selected",
			})
		}
		flagValues.Rules = picked
	}

	resolved, err := config.Resolve(config.ResolveOptions{
		GlobalConfigPath: flagValues.ConfigPath,
		CLIFlags:         config.ToCLIFlags(flagValues, cmd),
	})
	if err != nil {
		return NewError("config", err)
	}

	ch := make(chan events.Event, 4096)
	cancel := &events.CancelFlag{}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel.Cancel()
	}()
	defer signal.Stop(sigCh)

	w := walk.New(resolved.Config, ch, cancel)
	go func() {
		if err := w.Walk(context.Background(), resolved.Cwd); err != nil {
			slog.Error("scan failed", "error", err)
		}
	}()

	pool := purge.New(ch, cancel)

	switch {
	case flagValues.Print:
		return runPrint(ch)
	case flagValues.DeleteAll:
		return runDeleteAll(ch, pool)
	default:
		return tui.Run(ch, cancel, pool)
	}
}

func printCatalog() {
	for _, entry := range config.Catalog() {
		fmt.Printf("%-28s %s\n", entry.Label, entry.Rule.ID())
	}
}
