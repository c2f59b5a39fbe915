// Package cli provides the command-line interface for kasalog.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kasalog/internal/config"
	"kasalog/internal/util/logx"
)

// Execute runs the root command and returns the exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		// SilenceErrors keeps cobra from printing it
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	cfg     *config.Config
	logFile io.Closer
}

// NewRootCommand creates the root cobra command. Without a subcommand it
// starts the viewer.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "kasalog [file]",
		Short: "View loguru JSON logs",
		Long: `kasalog reads log files written by loguru with serialize=True, one JSON
object per line, and shows them colored by severity.

Lines that fail to parse are kept as ERROR records so nothing is lost.
Records can be filtered by level, searched by text or matched against an
expression such as:

  level == "ERROR" && contains(message, "printer")

Use "-" as the file to read standard input.`,
		Args:               cobra.MaximumNArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		RunE:               a.runTUI,
	}
	config.RegisterFlags(root.PersistentFlags())
	addWatchFlag(root)

	root.AddCommand(newTUICommand(a))
	root.AddCommand(newPrintCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// setup loads the configuration for the command being run and points the
// application log at its outputs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	fs := cmd.Flags()
	path, err := fs.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, path != "")
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(fs); err != nil {
		return fmt.Errorf("reading flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	lvl, _ := logx.ParseLevel(cfg.LogLevel)
	logx.SetLevel(lvl)
	logx.SetStderr(cfg.LogStderr)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logx.SetFile(f)
		a.logFile = f
	}
	a.cfg = cfg
	logx.Debugf("cli: %s with %s", cmd.Name(), cfg)
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.logFile == nil {
		return nil
	}
	logx.SetFile(nil)
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
