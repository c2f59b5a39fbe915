package ui

import (
	"fmt"
	"strings"

	"kasalog/internal/detect"
	"kasalog/internal/model"
	"kasalog/internal/util/logx"
)

const ruleWidth = 80

// The session calls these from inside Update.

func (m *Model) OnIngestProgress(pct int) {
	m.busy = busyIngest
	m.ingestPct = pct
}

func (m *Model) OnIngestComplete(records []model.LogRecord) {
	logx.Infof("ui: ingested %d records", len(records))
	m.ingestPct = 100
	if g := detect.Records(records); !g.Loguru() {
		logx.Warnf("ui: input looks like %s (%.0f%%)", g.Format, g.Confidence*100)
		m.showToast(toastWarn, fmt.Sprintf("This does not look like loguru output (looks like %s)", g.Format))
	}
}

func (m *Model) OnIngestError(err error) {
	m.busy = idle
	m.showToast(toastError, fmt.Sprintf("Failed to open file: %v", err))
}

func (m *Model) OnViewCleared() {
	m.view = m.view[:0]
	m.lines = m.lines[:0]
	m.recordStarts = m.recordStarts[:0]
	m.synced = 0
	m.dirty = true
	m.busy = busyRender
	m.renderPct = 0
	m.viewport.GotoTop()
}

func (m *Model) OnRenderBatch(records []model.LogRecord) {
	for _, r := range records {
		m.view = append(m.view, r)
		m.recordStarts = append(m.recordStarts, len(m.lines))
		block := m.renderRecord(r)
		m.lines = append(m.lines, strings.Split(strings.TrimSuffix(block, "\n"), "\n")...)
	}
	m.dirty = true
}

func (m *Model) OnRenderProgress(pct int) { m.renderPct = pct }

func (m *Model) OnRenderComplete() {
	m.busy = idle
	m.dirty = true
}

func (m *Model) OnNoSearchResults(term string) {
	m.showToast(toastInfo, fmt.Sprintf("No results for %q", term))
}

// renderRecord styles every segment and closes the record with a rule. The
// block always ends in a newline.
func (m *Model) renderRecord(r model.LogRecord) string {
	var b strings.Builder
	for _, seg := range r.Segments {
		st := m.styles.Segment(seg.Style)
		for i, line := range strings.Split(seg.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(st.Render(line))
			}
		}
	}
	if n := len(r.Segments); n == 0 || !strings.HasSuffix(r.Segments[n-1].Text, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Rule.Render(strings.Repeat("-", ruleWidth)))
	b.WriteByte('\n')
	return b.String()
}

// selected is the index in view of the record at the top of the viewport.
func (m *Model) selected() int {
	if len(m.view) == 0 {
		return -1
	}
	y := m.viewport.YOffset
	lo, hi := 0, len(m.recordStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.recordStarts[mid] <= y {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
