package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	var (
		rate        float64
		count       int
		malformed   float64
		outPath     string
		toStdout    bool
		durationStr string
		seed        int64
	)

	pflag.Float64Var(&rate, "rate", 5.0, "Messages per second when streaming")
	pflag.IntVarP(&count, "count", "n", 0, "Write this many lines at once and exit instead of streaming")
	pflag.Float64Var(&malformed, "malformed", 0.02, "Fraction of lines that are not valid records")
	pflag.StringVarP(&outPath, "out", "o", "", "Output file path. Defaults to simulateddata/loguru.log")
	pflag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	pflag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	pflag.Int64Var(&seed, "seed", 0, "Random seed; 0 picks one from the clock")
	pflag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := newGenerator(rand.New(rand.NewSource(seed)), malformed)

	// Setup interrupt handling
	var interrupted atomic.Bool
	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		interrupted.Store(true)
		close(abort)
	}()

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}

	shouldStop := func() bool {
		select {
		case <-abort:
			return true
		default:
		}
		return !deadline.IsZero() && time.Now().After(deadline)
	}

	if toStdout {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		if count > 0 {
			writeBatch(w, gen, count)
			return
		}
		runStream(w, gen, rate, shouldStop)
		return
	}

	if outPath == "" {
		if err := os.MkdirAll("simulateddata", 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create simulateddata: %v\n", err)
			os.Exit(1)
		}
		outPath = filepath.Join("simulateddata", "loguru.log")
	}
	// Always clear the existing log at the start
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	w := bufio.NewWriter(f)
	if count > 0 {
		writeBatch(w, gen, count)
		_ = w.Flush()
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "wrote %d lines -> %s\n", count, outPath)
		return
	}
	fmt.Fprintf(os.Stderr, "generating loguru logs -> %s at %.2f msg/s\n", outPath, rate)
	runStream(w, gen, rate, shouldStop)
	_ = w.Flush()
	_ = f.Close()
	// If interrupted, remove the created file
	if interrupted.Load() {
		_ = os.Remove(outPath)
	}
}

func writeBatch(w *bufio.Writer, gen *generator, n int) {
	for i := 0; i < n; i++ {
		w.WriteString(gen.line(time.Now()))
		w.WriteByte('\n')
	}
}

func runStream(w *bufio.Writer, gen *generator, rate float64, shouldStop func() bool) {
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !shouldStop() {
		now := <-ticker.C
		w.WriteString(gen.line(now))
		w.WriteByte('\n')
		_ = w.Flush()
	}
}
