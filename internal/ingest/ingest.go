package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"kasalog/internal/model"
	"kasalog/internal/parse"
)

// DefaultMaxLineBytes bounds a single line read from disk.
const DefaultMaxLineBytes = 4 * 1024 * 1024

// StdinPath makes FileReader read standard input.
const StdinPath = "-"

// LineReader is the file access the pipeline needs.
type LineReader interface {
	ReadAllLines(path string) ([]string, error)
}

// IOError wraps a failure to read the source. It ends the ingestion attempt.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// FileReader reads a whole file line by line.
type FileReader struct {
	MaxLineBytes int
}

func (r FileReader) ReadAllLines(path string) ([]string, error) {
	var src io.Reader
	if path == StdinPath {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		defer f.Close()
		src = f
	}
	lines, err := scanLines(src, r.MaxLineBytes)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return lines, nil
}

func scanLines(r io.Reader, maxBuf int) ([]string, error) {
	if maxBuf <= 0 {
		maxBuf = DefaultMaxLineBytes
	}
	initial := 1024 * 64
	if maxBuf < initial {
		initial = maxBuf
	}
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, initial)
	scanner.Buffer(buf, maxBuf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Result is delivered exactly once per job.
type Result struct {
	Records []model.LogRecord
	Err     error
}

// Job is a background ingestion. Progress is closed before Done receives.
type Job struct {
	Path     string
	Progress <-chan int
	Done     <-chan Result
	cancel   context.CancelFunc
}

// Cancel stops the job early. Done then carries the context error.
func (j *Job) Cancel() { j.cancel() }

// Start reads and parses path on its own goroutine.
func Start(ctx context.Context, r LineReader, p parse.Parser, path string) *Job {
	ctx, cancel := context.WithCancel(ctx)
	// 0..100 are the only values ever sent, so sends never block.
	progress := make(chan int, 101)
	done := make(chan Result, 1)

	go func() {
		defer cancel()
		res := run(ctx, r, p, path, progress)
		close(progress)
		done <- res
		close(done)
	}()

	return &Job{Path: path, Progress: progress, Done: done, cancel: cancel}
}

func run(ctx context.Context, r LineReader, p parse.Parser, path string, progress chan<- int) Result {
	progress <- 0
	lines, err := r.ReadAllLines(path)
	if err != nil {
		return Result{Err: err}
	}
	records := make([]model.LogRecord, 0, len(lines))
	last := 0
	for i, line := range lines {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{Err: err}
			}
		}
		if t := strings.TrimSpace(line); t != "" {
			records = append(records, p.Parse(t, i+1))
		}
		pct := int(math.Round(float64(i+1) / float64(len(lines)) * 100))
		if pct > last {
			last = pct
			progress <- pct
		}
	}
	if last < 100 {
		progress <- 100
	}
	return Result{Records: records}
}
