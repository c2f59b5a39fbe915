package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasalog/internal/engine"
	"kasalog/internal/ingest"
	"kasalog/internal/printer"
)

const (
	samplePath = "../../testdata/sample.log"
	emptyPath  = "../../testdata/empty.log"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommandWiring(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"print", "tui", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"config", "theme", "filter-batch", "render-batch", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.NotNil(t, cmd.Flags().Lookup("watch"))
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kasalog "))
}

func TestPrintText(t *testing.T) {
	out, errOut, err := run(t, "print", samplePath)
	require.NoError(t, err)

	assert.Equal(t, 6, strings.Count(out, printer.Separator))
	assert.Contains(t, out, "receipt printer offline")
	assert.Contains(t, out, "cashier")
	assert.Equal(t, "INFO 3  WARNING 0  ERROR 3  CRITICAL 0  DEBUG 0  total 6\n", errOut)
}

func TestPrintLevelCSV(t *testing.T) {
	out, errOut, err := run(t, "print", samplePath, "--level", "error", "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"line", "timestamp", "level", "message", "extra"}, rows[0])
	for _, row := range rows[1:] {
		assert.Equal(t, "ERROR", row[2])
	}
	assert.Equal(t, "receipt printer offline", rows[1][3])
	assert.Contains(t, errOut, "ERROR 3")
	assert.Contains(t, errOut, "total 3")
}

func TestPrintSearchJSON(t *testing.T) {
	out, _, err := run(t, "print", samplePath, "--search", "OLENA", "--format", "json", "--quiet")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "shift opened", got["message"])
	assert.Equal(t, "INFO", got["level"])
}

func TestPrintExpr(t *testing.T) {
	out, _, err := run(t, "print", samplePath, "--expr", `level == "INFO" && port == 8080`, "--format", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "service started")
}

func TestPrintEmptyFile(t *testing.T) {
	out, errOut, err := run(t, "print", emptyPath, "--level", "info", "--format", "csv")
	require.NoError(t, err)

	assert.Equal(t, "line,timestamp,level,message,extra\n", out)
	assert.Contains(t, errOut, "total 0")
}

func TestPrintErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			name: "search without results",
			args: []string{"print", samplePath, "--search", "no such thing"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, engine.ErrEmptyResult)
			},
		},
		{
			name: "missing file",
			args: []string{"print", "../../testdata/missing.log"},
			check: func(t *testing.T, err error) {
				var ioErr *ingest.IOError
				assert.ErrorAs(t, err, &ioErr)
			},
		},
		{
			name: "bad expression",
			args: []string{"print", samplePath, "--expr", "level =="},
		},
		{
			name: "unknown format",
			args: []string{"print", samplePath, "--format", "xml"},
		},
		{
			name: "bad color",
			args: []string{"print", samplePath, "--color", "sometimes"},
		},
		{
			name: "two filters",
			args: []string{"print", samplePath, "--level", "info", "--search", "kasa"},
		},
		{
			name: "no file",
			args: []string{"print"},
		},
		{
			name: "invalid batch",
			args: []string{"print", samplePath, "--filter-batch", "0"},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "filter_batch")
			},
		},
		{
			name: "explicit config missing",
			args: []string{"print", samplePath, "--config", "../../testdata/nope.yaml"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Empty(t, out)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestWatchNeedsPath(t *testing.T) {
	_, _, err := run(t, "tui", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch")
}

func TestPrintWarnsOnForeignFormat(t *testing.T) {
	out, errOut, err := run(t, "print", "../../testdata/logfmt.log")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, printer.Separator))
	assert.Contains(t, errOut, "looks like logfmt")
	assert.Contains(t, errOut, "ERROR 3")
}
