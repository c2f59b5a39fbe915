package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"kasalog/internal/engine"
	"kasalog/internal/model"
	"kasalog/internal/util/logx"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.dirty && m.shouldSync() {
		m.syncViewport()
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.resize()
		return nil
	case ingestProgressMsg:
		return m.handleIngestProgress(msg)
	case ingestDoneMsg:
		return m.handleIngestDone(msg)
	case passStepMsg:
		return m.handleStep(msg)
	case watchChangedMsg:
		if msg.path != m.watchPath {
			return nil
		}
		logx.Debugf("ui: %s changed, reloading", msg.path)
		return tea.Batch(m.dispatch(engine.OpenFile{Path: msg.path}), m.waitWatch())
	case watchErrMsg:
		logx.Warnf("ui: watch: %v", msg.err)
		return tea.Batch(m.showToast(toastError, msg.err.Error()), m.waitWatch())
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return nil
	case spinner.TickMsg:
		if m.busy == idle {
			return nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.inputKind != inputNone {
		return m.handleInputKey(msg)
	}
	if m.modalKind != modalNone {
		return m.handleModalKey(msg)
	}

	km := m.keymap
	switch {
	case key.Matches(msg, km.Quit):
		return tea.Quit
	case key.Matches(msg, km.Open):
		return m.openInput(inputOpen, "path: ", m.session.Source())
	case key.Matches(msg, km.Search):
		return m.openInput(inputSearch, "/", "")
	case key.Matches(msg, km.Expr):
		return m.openInput(inputExpr, "expr: ", "")
	case key.Matches(msg, km.Reset):
		return m.dispatch(engine.Reset{})
	case key.Matches(msg, km.Help):
		m.openModal(modalHelp, "Help", m.help.FullHelpView(km.FullHelp()))
		return nil
	case key.Matches(msg, km.AppLogs):
		m.openModal(modalLogs, "Application Logs", logx.Dump())
		m.modalVP.GotoBottom()
		return nil
	case key.Matches(msg, km.ViewRaw):
		if i := m.selected(); i >= 0 {
			m.openModal(modalRaw, fmt.Sprintf("Line %d", m.view[i].Line), m.rawBody(m.view[i]))
		}
		return nil
	case key.Matches(msg, km.CopyLine):
		if i := m.selected(); i >= 0 {
			if err := copyToClipboard(m.view[i].Message); err != nil {
				return m.showToast(toastError, "Copy failed: "+err.Error())
			}
			return m.showToast(toastInfo, "Message copied")
		}
		return nil
	case key.Matches(msg, km.NextRec):
		m.jumpRecord(1)
		return nil
	case key.Matches(msg, km.PrevRec):
		m.jumpRecord(-1)
		return nil
	case key.Matches(msg, km.Top):
		m.viewport.GotoTop()
		return nil
	case key.Matches(msg, km.Bottom):
		m.viewport.GotoBottom()
		return nil
	}
	for i, b := range km.Levels {
		if key.Matches(msg, b) {
			return m.dispatch(engine.FilterByLevel{Level: string(model.KnownTags[i])})
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Close):
		m.closeInput()
		return nil
	case key.Matches(msg, m.keymap.Submit):
		kind, value := m.inputKind, m.input.Value()
		m.closeInput()
		switch kind {
		case inputOpen:
			path := strings.TrimSpace(value)
			if path == "" {
				return nil
			}
			return m.dispatch(engine.OpenFile{Path: path})
		case inputSearch:
			return m.dispatch(engine.Search{Term: value})
		case inputExpr:
			return m.dispatch(engine.FilterByExpr{Expr: value})
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Close), key.Matches(msg, m.keymap.Submit), key.Matches(msg, m.keymap.Quit):
		m.modalKind = modalNone
		return nil
	case key.Matches(msg, m.keymap.CopyLine):
		if err := copyToClipboard(stripANSI(m.modalBody)); err != nil {
			return m.showToast(toastError, "Copy failed: "+err.Error())
		}
		return m.showToast(toastInfo, "Copied")
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

func (m *Model) openInput(kind inputKind, prompt, value string) tea.Cmd {
	m.inputKind = kind
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputKind = inputNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) jumpRecord(delta int) {
	if len(m.recordStarts) == 0 {
		return
	}
	if m.dirty {
		m.syncViewport()
	}
	i := m.selected() + delta
	if i < 0 {
		i = 0
	}
	if i >= len(m.recordStarts) {
		i = len(m.recordStarts) - 1
	}
	m.viewport.SetYOffset(m.recordStarts[i])
}

// syncInterval is the least time between two viewport syncs while a pass
// is still appending.
const syncInterval = 200 * time.Millisecond

// shouldSync reports whether the pending lines are worth pushing now.
// SetContent copies the whole view, so a running pass only syncs while the
// visible window is still short of lines or once per syncInterval.
func (m *Model) shouldSync() bool {
	if m.pass == nil {
		return true
	}
	if m.synced < m.viewport.YOffset+m.viewport.Height {
		return true
	}
	return m.now().Sub(m.lastSync) >= syncInterval
}

// syncViewport pushes the rendered view into the viewport, keeping the
// scroll position.
func (m *Model) syncViewport() {
	m.dirty = false
	m.syncs++
	m.synced = len(m.lines)
	m.lastSync = m.now()
	y := m.viewport.YOffset
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.SetYOffset(y)
}

func (m *Model) resize() {
	h := m.termHeight - 2
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.termWidth
	m.viewport.Height = h
	m.help.Width = m.termWidth
	m.input.Width = m.termWidth - 10
	if m.modalKind != modalNone {
		m.resizeModal()
	}
	m.dirty = true
}
