package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kasalog/internal/detect"
	"kasalog/internal/engine"
	"kasalog/internal/export"
	"kasalog/internal/ingest"
	"kasalog/internal/model"
	"kasalog/internal/printer"
	"kasalog/internal/util/logx"
)

// PrintOptions holds command-line options for the print command.
type PrintOptions struct {
	Level  string
	Search string
	Expr   string
	Format string
	Color  string
	Redact bool
	Quiet  bool
}

func newPrintCommand(a *app) *cobra.Command {
	opts := &PrintOptions{}
	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Write the records of a log file to stdout",
		Long: `Parse a log file, apply at most one of --level, --search or --expr, and
write the resulting records to stdout.

Formats:
  text - colored segments followed by a separator rule
  json - one JSON object per record
  csv  - line,timestamp,level,message,extra

The per-level counters of the written records go to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPrint(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "only records with this level")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only records containing this text (case-insensitive)")
	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "only records matching this expression")
	cmd.Flags().StringVarP(&opts.Format, "format", "o", "text", "output format (text|json|csv)")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "color text output (auto|always|never)")
	cmd.Flags().BoolVar(&opts.Redact, "redact", false, "mask emails and secrets in the output")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print the counters")
	cmd.MarkFlagsMutuallyExclusive("level", "search", "expr")
	return cmd
}

// recordWriter is implemented by every output format.
type recordWriter interface {
	WriteRecords([]model.LogRecord) error
	Flush() error
}

func newRecordWriter(format string, w io.Writer, redact bool) (recordWriter, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return printer.NewText(w, redact), nil
	case "json", "ndjson":
		return export.NewNDJSON(w, redact), nil
	case "csv":
		return export.NewCSV(w, redact), nil
	}
	return nil, fmt.Errorf("unknown format %q (want text, json or csv)", format)
}

// printConsumer writes rendered batches once it is unmuted. The first error
// stops all further writes.
type printConsumer struct {
	w    recordWriter
	warn io.Writer
	mute bool
	err  error
}

func (c *printConsumer) OnIngestProgress(int)     {}
func (c *printConsumer) OnIngestError(error)      {}
func (c *printConsumer) OnViewCleared()           {}
func (c *printConsumer) OnRenderProgress(int)     {}
func (c *printConsumer) OnRenderComplete()        {}
func (c *printConsumer) OnNoSearchResults(string) {}

func (c *printConsumer) OnIngestComplete(records []model.LogRecord) {
	logx.Debugf("print: %d records", len(records))
	if g := detect.Records(records); !g.Loguru() && c.warn != nil {
		_, _ = fmt.Fprintf(c.warn, "warning: input does not look like loguru output (looks like %s)\n", g.Format)
	}
}

func (c *printConsumer) OnRenderBatch(records []model.LogRecord) {
	if c.mute || c.err != nil {
		return
	}
	c.err = c.w.WriteRecords(records)
}

func (o *PrintOptions) command() engine.Command {
	switch {
	case o.Level != "":
		return engine.FilterByLevel{Level: o.Level}
	case o.Search != "":
		return engine.Search{Term: o.Search}
	case o.Expr != "":
		return engine.FilterByExpr{Expr: o.Expr}
	}
	return nil
}

func colorSetting(s string) (*bool, error) {
	on, off := true, false
	switch strings.ToLower(s) {
	case "auto", "":
		return nil, nil
	case "always":
		return &on, nil
	case "never":
		return &off, nil
	}
	return nil, fmt.Errorf("invalid --color %q (want auto, always or never)", s)
}

func (a *app) runPrint(cmd *cobra.Command, path string, opts *PrintOptions) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	explicit, err := colorSetting(opts.Color)
	if err != nil {
		return err
	}
	printer.InitColorState(explicit, out)
	w, err := newRecordWriter(opts.Format, out, opts.Redact)
	if err != nil {
		return err
	}

	next := opts.command()
	c := &printConsumer{w: w, mute: next != nil}
	if !opts.Quiet {
		c.warn = cmd.ErrOrStderr()
	}
	s := engine.NewSession(c, engine.Options{
		FilterBatch: a.cfg.FilterBatch,
		RenderBatch: a.cfg.RenderBatch,
		Reader:      ingest.FileReader{MaxLineBytes: a.cfg.MaxLineBytes},
	})

	p, err := s.Wait(ctx, s.Open(ctx, path))
	if err != nil {
		return err
	}
	if err := engine.Drain(ctx, p, nil); err != nil {
		return err
	}

	if next != nil {
		c.mute = false
		res, err := s.Dispatch(ctx, next)
		switch {
		case errors.Is(err, engine.ErrEmptyResult):
			return fmt.Errorf("no records contain %q: %w", opts.Search, err)
		case errors.Is(err, engine.ErrInvalidState):
			// empty file: nothing to filter, and nothing to write
		case err != nil:
			return err
		case res.Pass != nil:
			if err := engine.Drain(ctx, res.Pass, nil); err != nil {
				return err
			}
		}
	}

	if c.err != nil {
		return fmt.Errorf("writing output: %w", c.err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !opts.Quiet {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), printer.Summary(s.LevelCounts()))
	}
	return nil
}
