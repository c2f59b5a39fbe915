package ui

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"kasalog/internal/config"
	"kasalog/internal/engine"
	"kasalog/internal/ingest"
	"kasalog/internal/util/logx"
)

// New builds the viewer and its session.
func New(ctx context.Context, cfg *config.Config) *Model {
	m := &Model{
		ctx:      ctx,
		cfg:      cfg,
		styles:   NewStyles(cfg.Theme == config.ThemeDark),
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spin:     spinner.New(),
		input:    textinput.New(),
		viewport: viewport.New(80, 20),
		noColor:  os.Getenv("NO_COLOR") != "",
		now:      time.Now,
	}
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 1024
	m.session = engine.NewSession(m, engine.Options{
		FilterBatch: cfg.FilterBatch,
		RenderBatch: cfg.RenderBatch,
		Reader:      ingest.FileReader{MaxLineBytes: cfg.MaxLineBytes},
	})
	logx.Infof("ui: session %s (%s)", m.session.ID(), cfg)
	return m
}

// Run starts the viewer, opening path first when it is not empty.
func Run(ctx context.Context, cfg *config.Config, path string) error {
	m := New(ctx, cfg)
	m.initialPath = path
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if m.watchCancel != nil {
		m.watchCancel()
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	if m.initialPath == "" {
		return nil
	}
	return m.dispatch(engine.OpenFile{Path: m.initialPath})
}
