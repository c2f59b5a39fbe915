package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasalog/internal/config"
	"kasalog/internal/engine"
	"kasalog/internal/model"
)

const samplePath = "../../testdata/sample.log"

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) *Model {
	t.Helper()
	m := New(context.Background(), config.Default())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// finishLoad plays the ingest job to the end the way waitIngestCmd would.
func finishLoad(t *testing.T, m *Model) {
	t.Helper()
	job := m.load
	require.NotNil(t, job)
	for range job.Progress {
	}
	m.Update(ingestDoneMsg{job: job, res: <-job.Done})
	finishPass(m)
}

func finishPass(m *Model) {
	for m.pass != nil {
		m.Update(passStepMsg{pass: m.pass})
	}
}

func loadedModel(t *testing.T) *Model {
	t.Helper()
	m := newModel(t)
	m.dispatch(engine.OpenFile{Path: samplePath})
	finishLoad(t, m)
	return m
}

func viewLevels(m *Model) []string {
	out := make([]string, len(m.view))
	for i, r := range m.view {
		out[i] = r.Level
	}
	return out
}

func TestLoadRendersEveryRecord(t *testing.T) {
	m := loadedModel(t)

	assert.Len(t, m.view, 6)
	assert.Len(t, m.recordStarts, 6)
	assert.Equal(t, idle, m.busy)
	assert.Equal(t, 100, m.renderPct)
	body := strings.Join(m.lines, "\n")
	assert.Contains(t, body, "receipt printer offline")
	assert.Contains(t, body, strings.Repeat("-", ruleWidth))
	assert.Equal(t, len(m.lines), m.viewport.TotalLineCount())
	for i := 1; i < len(m.recordStarts); i++ {
		assert.Greater(t, m.recordStarts[i], m.recordStarts[i-1])
	}
	assert.Equal(t, 3, m.session.LevelCounts()[model.TagError])
}

func TestLevelKeyFiltersView(t *testing.T) {
	m := loadedModel(t)

	m.Update(keys("3"))
	finishPass(m)

	assert.Equal(t, []string{"ERROR", "ERROR", "ERROR"}, viewLevels(m))
	assert.Contains(t, m.renderStatus(), "level=ERROR")

	m.Update(keys("r"))
	finishPass(m)
	assert.Len(t, m.view, 6)
}

func TestSearchWithoutMatchesKeepsView(t *testing.T) {
	m := loadedModel(t)

	m.Update(keys("/"))
	require.Equal(t, inputSearch, m.inputKind)
	m.Update(keys("no such thing"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, inputNone, m.inputKind)
	assert.Len(t, m.view, 6)
	assert.Contains(t, m.toast, "No results")
}

func TestSearchNarrowsView(t *testing.T) {
	m := loadedModel(t)

	m.Update(keys("/"))
	m.Update(keys("OLENA"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	finishPass(m)

	require.Len(t, m.view, 1)
	assert.Equal(t, "shift opened", m.view[0].Message)
}

func TestCommandsBeforeLoadShowToast(t *testing.T) {
	m := newModel(t)

	m.Update(keys("1"))

	assert.Nil(t, m.pass)
	assert.Equal(t, toastWarn, m.toastKind)
	assert.Contains(t, m.toast, "open a file")
}

func TestStalePassStepIsIgnored(t *testing.T) {
	m := loadedModel(t)

	m.dispatch(engine.FilterByLevel{Level: "INFO"})
	old := m.pass
	require.NotNil(t, old)
	m.dispatch(engine.FilterByLevel{Level: "ERROR"})
	m.Update(passStepMsg{pass: old})
	finishPass(m)

	assert.Equal(t, []string{"ERROR", "ERROR", "ERROR"}, viewLevels(m))
}

func TestRawModal(t *testing.T) {
	m := loadedModel(t)

	m.Update(keys("v"))
	require.Equal(t, modalRaw, m.modalKind)
	assert.Equal(t, "Line 1", m.modalTitle)
	body := stripANSI(m.modalBody)
	assert.Contains(t, body, `"record"`)
	assert.Contains(t, body, `"service started"`)
	assert.Contains(t, m.View(), "Line 1")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modalNone, m.modalKind)
}

func TestRawBodyFallsBackForBrokenLine(t *testing.T) {
	m := loadedModel(t)

	last := m.view[len(m.view)-1]
	assert.Equal(t, last.Raw, m.rawBody(last))
}

func TestNextRecordMovesViewport(t *testing.T) {
	m := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 6})
	m.dispatch(engine.OpenFile{Path: samplePath})
	finishLoad(t, m)

	m.Update(keys("]"))
	assert.Equal(t, m.recordStarts[1], m.viewport.YOffset)
	assert.Equal(t, 1, m.selected())

	m.Update(keys("["))
	assert.Equal(t, 0, m.selected())
}

func TestMissingFileShowsError(t *testing.T) {
	m := newModel(t)

	m.dispatch(engine.OpenFile{Path: "../../testdata/does-not-exist.log"})
	finishLoad(t, m)

	assert.Equal(t, toastError, m.toastKind)
	assert.Contains(t, m.toast, "Failed to open file")
	assert.Empty(t, m.view)
}

func TestToastExpiry(t *testing.T) {
	m := newModel(t)
	m.showToast(toastInfo, "first")
	seq := m.toastSeq
	m.showToast(toastInfo, "second")

	m.Update(toastExpiredMsg{seq: seq})
	assert.Equal(t, "second", m.toast)
	m.Update(toastExpiredMsg{seq: m.toastSeq})
	assert.Empty(t, m.toast)
}

func TestLargePassSyncsViewportSparingly(t *testing.T) {
	const n = 5000
	path := filepath.Join(t.TempDir(), "big.log")
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `{"text": "", "record": {"time": {"repr": "2024-06-24T15:27:29Z"}, "level": {"name": "INFO"}, "message": "tick %d", "extra": {"i": %d}}}`+"\n", i, i)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	m := newModel(t)
	frozen := time.Date(2024, 6, 24, 15, 27, 29, 0, time.UTC)
	m.now = func() time.Time { return frozen }
	m.dispatch(engine.OpenFile{Path: path})
	job := m.load
	require.NotNil(t, job)
	for range job.Progress {
	}
	before := m.syncs
	m.Update(ingestDoneMsg{job: job, res: <-job.Done})
	steps := 0
	for m.pass != nil {
		m.Update(passStepMsg{pass: m.pass})
		steps++
	}

	require.Len(t, m.view, n)
	assert.Greater(t, steps, 100)
	// the clear, the first batch that fills the window, and completion
	assert.LessOrEqual(t, m.syncs-before, 3)
	assert.False(t, m.dirty)
	assert.Equal(t, len(m.lines), m.viewport.TotalLineCount())

	m.Update(keys("G"))
	assert.True(t, m.viewport.AtBottom())
	assert.Greater(t, m.selected(), n-10)
}

func TestPassSyncsAgainAfterInterval(t *testing.T) {
	m := newModel(t)
	clock := time.Date(2024, 6, 24, 15, 27, 29, 0, time.UTC)
	m.now = func() time.Time { return clock }
	m.dispatch(engine.OpenFile{Path: samplePath})
	job := m.load
	for range job.Progress {
	}
	m.Update(ingestDoneMsg{job: job, res: <-job.Done})
	require.NotNil(t, m.pass)

	m.synced = m.viewport.Height
	m.dirty = true
	assert.False(t, m.shouldSync())
	clock = clock.Add(syncInterval)
	assert.True(t, m.shouldSync())
}
