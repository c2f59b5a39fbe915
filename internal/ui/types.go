package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"kasalog/internal/config"
	"kasalog/internal/engine"
	"kasalog/internal/ingest"
	"kasalog/internal/model"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalRaw
	modalLogs
)

type inputKind int

const (
	inputNone inputKind = iota
	inputOpen
	inputSearch
	inputExpr
)

type busyKind int

const (
	idle busyKind = iota
	busyIngest
	busyRender
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastWarn
	toastError
)

type Model struct {
	ctx     context.Context
	cfg     *config.Config
	session *engine.Session

	initialPath string
	noColor     bool

	// in-flight work, nil when there is none
	load *engine.LoadJob
	pass *engine.RenderPass

	// watch mode
	watchPath    string
	watchCancel  context.CancelFunc
	watchChanges <-chan struct{}
	watchErrs    <-chan error

	// derived view as emitted by the session
	view         []model.LogRecord
	lines        []string
	recordStarts []int
	dirty        bool

	// viewport sync bookkeeping; now is swapped out in tests
	now      func() time.Time
	lastSync time.Time
	synced   int
	syncs    int

	busy      busyKind
	ingestPct int
	renderPct int

	// UI
	styles     Styles
	keymap     KeyMap
	help       help.Model
	spin       spinner.Model
	viewport   viewport.Model
	input      textinput.Model
	inputKind  inputKind
	termWidth  int
	termHeight int

	modalKind  modalKind
	modalVP    viewport.Model
	modalTitle string
	modalBody  string

	toast     string
	toastKind toastKind
	toastSeq  int
}

// Messages. Every one of them is handled on the Update goroutine, which is
// the only place the session is touched.
type (
	ingestProgressMsg struct {
		job *engine.LoadJob
		pct int
	}
	ingestDoneMsg struct {
		job *engine.LoadJob
		res ingest.Result
	}
	passStepMsg struct {
		pass *engine.RenderPass
	}
	watchChangedMsg struct {
		path string
	}
	watchErrMsg struct {
		err error
	}
	toastExpiredMsg struct {
		seq int
	}
)
