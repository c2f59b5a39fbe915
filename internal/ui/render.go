package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"kasalog/internal/model"
)

func (m *Model) View() string {
	v := m.viewport.View() + "\n" + m.renderFooter()
	if m.modalKind != modalNone {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderFooter() string {
	if m.inputKind != inputNone {
		return m.input.View()
	}
	if m.toast != "" {
		return m.toastStyle().Render(m.toast)
	}
	return m.renderStatus()
}

func (m *Model) toastStyle() lipgloss.Style {
	switch m.toastKind {
	case toastWarn:
		return m.styles.ToastWarn
	case toastError:
		return m.styles.ToastError
	}
	return m.styles.ToastInfo
}

// renderStatus is "source | progress | counters | filter".
func (m *Model) renderStatus() string {
	parts := []string{}
	src := m.session.Source()
	if src == "" {
		src = "no file (press o)"
	}
	parts = append(parts, src)
	switch m.busy {
	case busyIngest:
		parts = append(parts, fmt.Sprintf("%s loading %d%%", m.spin.View(), m.ingestPct))
	case busyRender:
		parts = append(parts, fmt.Sprintf("%s rendering %d%%", m.spin.View(), m.renderPct))
	}
	parts = append(parts, m.renderCounts(m.session.LevelCounts()))
	if p := m.session.Predicate(); p != nil {
		parts = append(parts, p.String())
	}
	line := strings.Join(parts, m.styles.Status.Render(" | "))
	return line + "  " + m.help.ShortHelpView(m.keymap.ShortHelp())
}

func (m *Model) renderCounts(c model.LevelCounts) string {
	out := make([]string, 0, len(model.AllTags))
	for _, tag := range model.AllTags {
		n := c[tag]
		if tag == model.TagUnknown && n == 0 {
			continue
		}
		out = append(out, m.styles.Level[tag].Render(string(tag))+" "+humanize.Comma(int64(n)))
	}
	return strings.Join(out, " ")
}

// rawBody pretty prints the source line with colorjson. Lines that are not
// JSON objects are shown as is.
func (m *Model) rawBody(r model.LogRecord) string {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(r.Raw), &obj); err != nil {
		return r.Raw
	}
	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = m.noColor
	s, err := f.Marshal(obj)
	if err != nil {
		return r.Raw
	}
	return string(s)
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	m.modalVP.SetContent(m.modalBody)
}

func (m *Model) renderModal() string {
	content := m.modalVP.View() + "\n" + m.styles.Help.Render("[esc/enter]=close  [c]=copy")
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func overlay(base, overlay string) string {
	// Draw overlay on top of base by replacing lines where overlay has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		var b, o string
		if i < len(bLines) {
			b = bLines[i]
		}
		if i < len(oLines) {
			o = oLines[i]
		}
		// Treat whitespace-only overlay lines as transparent
		if strings.TrimSpace(o) != "" {
			out[i] = o
		} else {
			out[i] = b
		}
	}
	return strings.Join(out, "\n")
}
