package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"kasalog/internal/ingest"
	"kasalog/internal/ui"
	"kasalog/internal/util/logx"
	"kasalog/internal/version"
)

func newTUICommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Open the interactive viewer",
		Long: `Open the interactive viewer, loading file when given.

Keys: o open, r reset, 1-5 filter by level, / search, f expression filter,
v raw record, c copy message, L application logs, ? help, q quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runTUI,
	}
	addWatchFlag(cmd)
	return cmd
}

func addWatchFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("watch", "w", false, "reload the file when lines are appended")
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if a.cfg.Watch && (path == "" || path == ingest.StdinPath) {
		return errors.New("--watch needs a file path")
	}
	logx.Infof("starting kasalog %s: %s", version.String(), a.cfg)
	if err := ui.Run(commandContext(cmd), a.cfg, path); err != nil {
		logx.Errorf("kasalog exited with error: %v", err)
		return err
	}
	return nil
}
