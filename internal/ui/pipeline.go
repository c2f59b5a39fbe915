package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kasalog/internal/engine"
	"kasalog/internal/ingest"
	"kasalog/internal/util/logx"
)

// stepCmd schedules the next continuation of a pass. The step itself runs
// in Update, so the session never leaves the Update goroutine.
func stepCmd(p *engine.RenderPass) tea.Cmd {
	return func() tea.Msg { return passStepMsg{pass: p} }
}

// waitIngestCmd blocks on the job's channels off the Update goroutine and
// reports one event.
func waitIngestCmd(job *engine.LoadJob) tea.Cmd {
	return func() tea.Msg {
		pct, ok := <-job.Progress
		if !ok {
			return ingestDoneMsg{job: job, res: <-job.Done}
		}
		return ingestProgressMsg{job: job, pct: pct}
	}
}

// dispatch runs a command on the session and returns the command that keeps
// its work going.
func (m *Model) dispatch(cmd engine.Command) tea.Cmd {
	out, err := m.session.Dispatch(m.ctx, cmd)
	if err != nil {
		return m.commandError(err)
	}
	switch {
	case out.Load != nil:
		if m.load != nil {
			m.load.Cancel()
		}
		m.load = out.Load
		m.busy = busyIngest
		m.ingestPct = 0
		return tea.Batch(waitIngestCmd(out.Load), m.spin.Tick)
	case out.Pass != nil:
		return m.startPass(out.Pass)
	}
	return nil
}

func (m *Model) startPass(p *engine.RenderPass) tea.Cmd {
	m.pass = p
	return tea.Batch(stepCmd(p), m.spin.Tick)
}

func (m *Model) commandError(err error) tea.Cmd {
	switch {
	case errors.Is(err, engine.ErrInvalidState):
		return m.showToast(toastWarn, "Nothing loaded yet: open a file first")
	case errors.Is(err, engine.ErrEmptyResult):
		// the session already reported it
		return m.toastCmd()
	case errors.Is(err, engine.ErrEmptyTerm):
		return m.showToast(toastWarn, "Search term is empty")
	default:
		logx.Warnf("ui: command failed: %v", err)
		return m.showToast(toastError, err.Error())
	}
}

func (m *Model) handleIngestProgress(msg ingestProgressMsg) tea.Cmd {
	if !m.session.Current(msg.job) {
		return nil
	}
	m.session.ReportProgress(msg.job, msg.pct)
	return waitIngestCmd(msg.job)
}

func (m *Model) handleIngestDone(msg ingestDoneMsg) tea.Cmd {
	if m.load == msg.job {
		m.load = nil
	}
	p, err := m.session.Publish(msg.job, msg.res)
	if err != nil {
		if errors.Is(err, engine.ErrSuperseded) || errors.Is(err, context.Canceled) {
			return nil
		}
		// OnIngestError already raised the toast.
		return m.toastCmd()
	}
	return tea.Batch(m.startPass(p), m.ensureWatch(msg.job.Path))
}

func (m *Model) handleStep(msg passStepMsg) tea.Cmd {
	if msg.pass != m.pass {
		return nil
	}
	st := msg.pass.Step()
	if st.Finished() {
		m.pass = nil
		return nil
	}
	return stepCmd(msg.pass)
}

// ensureWatch follows path when watch mode is on, replacing any earlier
// watcher.
func (m *Model) ensureWatch(path string) tea.Cmd {
	if !m.cfg.Watch || path == ingest.StdinPath || path == m.watchPath {
		return nil
	}
	if m.watchCancel != nil {
		m.watchCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.watchCancel = cancel
	m.watchPath = path
	m.watchChanges, m.watchErrs = ingest.Watch(ctx, path, m.cfg.WatchDebounce)
	logx.Infof("ui: watching %s", path)
	return m.waitWatch()
}

func (m *Model) waitWatch() tea.Cmd {
	return waitWatchCmd(m.watchPath, m.watchChanges, m.watchErrs)
}

func waitWatchCmd(path string, changes <-chan struct{}, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			return watchChangedMsg{path: path}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

func (m *Model) showToast(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastKind = kind
	return m.toastCmd()
}

func (m *Model) toastCmd() tea.Cmd {
	seq := m.toastSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}
