// Package browser is an interactive picker over saved restore scripts.
//
// It lists the scripts in the output directory, marks the ones whose
// session is running, previews the selected script and lets the user
// re-capture every session or pick a script to run.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/timvw/tmux-persist/internal/persist"
	"github.com/timvw/tmux-persist/internal/store"
)

// Saver re-captures every session.
type Saver interface {
	Save(ctx context.Context) (*persist.Report, error)
}

// SessionLister reports the sessions running now.
type SessionLister interface {
	ListSessions(ctx context.Context) ([]string, error)
}

// Browser runs the interactive script picker.
type Browser struct {
	Store     *store.Store
	Saver     Saver
	Sessions  SessionLister
	ThemeName string
	Logger    *slog.Logger // nil discards
}

// Run shows the browser until the user quits. It returns the path of the
// script the user picked, or "" when they quit without picking one.
func (b *Browser) Run(ctx context.Context) (string, error) {
	m := newModel(ctx, b)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if fm, ok := final.(*browseModel); ok {
		return fm.chosen, nil
	}
	return "", nil
}

const listWidth = 36

type row struct {
	entry store.Entry
	live  bool
}

// messages
type loadedMsg struct {
	rows    []row
	liveErr error
	err     error
}

type savedMsg struct {
	report *persist.Report
	err    error
}

type browseModel struct {
	ctx      context.Context
	store    *store.Store
	saver    Saver
	sessions SessionLister
	st       styles
	log      *slog.Logger

	rows    []row
	cursor  int
	preview viewport.Model

	width  int
	height int

	now func() time.Time

	loading bool
	saving  bool
	message string
	chosen  string
}

func newModel(ctx context.Context, b *Browser) *browseModel {
	log := b.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &browseModel{
		log:      log,
		ctx:      ctx,
		store:    b.Store,
		saver:    b.Saver,
		sessions: b.Sessions,
		st:       newStyles(ThemeByName(b.ThemeName)),
		preview:  viewport.New(80, 20),
		now:      time.Now,
	}
}

func (m *browseModel) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

func (m *browseModel) load() tea.Cmd {
	st, lister, ctx := m.store, m.sessions, m.ctx
	return func() tea.Msg {
		entries, err := st.List()
		if err != nil {
			return loadedMsg{err: err}
		}
		live := map[string]bool{}
		var liveErr error
		if lister != nil {
			names, err := lister.ListSessions(ctx)
			liveErr = err
			for _, n := range names {
				live[n] = true
			}
		}
		rows := make([]row, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, row{entry: e, live: live[e.Session]})
		}
		return loadedMsg{rows: rows, liveErr: liveErr}
	}
}

func (m *browseModel) save() tea.Cmd {
	saver, ctx := m.saver, m.ctx
	return func() tea.Msg {
		report, err := saver.Save(ctx)
		return savedMsg{report: report, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePreview()
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Error("cannot list restore scripts", "dir", m.store.Dir, "error", msg.err)
			m.message = fmt.Sprintf("List error: %v", msg.err)
			return m, nil
		}
		m.rows = msg.rows
		if m.cursor >= len(m.rows) {
			m.cursor = 0
		}
		if msg.liveErr != nil && m.message == "" {
			m.message = "tmux not reachable; live status unknown"
		}
		m.refreshPreview()
		return m, nil

	case savedMsg:
		m.saving = false
		switch {
		case msg.err != nil:
			m.log.Warn("re-capture failed", "error", msg.err)
			m.message = fmt.Sprintf("Save error: %v", msg.err)
		case msg.report.HasFailures():
			for _, f := range msg.report.Failed {
				m.log.Warn("session not saved", "session", f.Session, "error", f.Err)
			}
			m.message = fmt.Sprintf("Saved %d sessions, %d failed", len(msg.report.Written), len(msg.report.Failed))
		default:
			m.message = fmt.Sprintf("Saved %d sessions", len(msg.report.Written))
		}
		m.loading = true
		return m, m.load()
	}

	return m, nil
}

func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refreshPreview()
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.refreshPreview()
		}
		return m, nil

	case "g", "home":
		m.cursor = 0
		m.refreshPreview()
		return m, nil

	case "G", "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.refreshPreview()
		}
		return m, nil

	case "r":
		if m.saving || m.saver == nil {
			return m, nil
		}
		m.saving = true
		m.message = ""
		return m, m.save()

	case "enter":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.chosen = r.entry.Path
		m.log.Info("restore script chosen", "session", r.entry.Session, "path", r.entry.Path)
		return m, tea.Quit
	}

	// Scroll keys go to the preview.
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *browseModel) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *browseModel) refreshPreview() {
	r, ok := m.selected()
	if !ok {
		m.preview.SetContent("")
		return
	}
	content, err := m.store.Read(r.entry.Session)
	if err != nil {
		content = m.st.err.Render(fmt.Sprintf("cannot read %s: %v", r.entry.Path, err))
	}
	m.preview.SetContent(content)
	m.preview.GotoTop()
}

func (m *browseModel) resizePreview() {
	w := m.width - listWidth - 3
	if w < 20 {
		w = 20
	}
	h := m.height - 3
	if h < 3 {
		h = 3
	}
	m.preview.Width = w
	m.preview.Height = h
}

func (m *browseModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.st.title.Render("Restore scripts"))
	b.WriteString("  ")
	b.WriteString(m.st.dim.Render("j/k=move  Enter=restore  r=re-capture  q=quit"))
	if m.saving {
		b.WriteString("  ")
		b.WriteString(m.st.stale.Render("saving..."))
	}
	b.WriteString("\n")

	if len(m.rows) == 0 {
		if m.loading {
			b.WriteString("  Loading scripts...\n")
		} else {
			b.WriteString(fmt.Sprintf("  No restore scripts in %s. Press r to capture.\n", m.store.Dir))
		}
		b.WriteString(m.footer())
		return b.String()
	}

	list := m.renderList()
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, m.st.preview.Render(m.preview.View()))
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *browseModel) renderList() string {
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		marker := m.st.stale.Render("○")
		if r.live {
			marker = m.st.live.Render("●")
		}
		name := padRight(truncate(r.entry.Session, listWidth-14), listWidth-14)
		when := age(m.now(), r.entry.ModTime)
		if i == m.cursor {
			lines = append(lines, marker+" "+m.st.selected.Render(name)+" "+m.st.dim.Render(when))
			continue
		}
		lines = append(lines, marker+" "+m.st.text.Render(name)+" "+m.st.dim.Render(when))
	}
	return lipgloss.NewStyle().Width(listWidth).Render(strings.Join(lines, "\n"))
}

func (m *browseModel) footer() string {
	if m.message == "" {
		return ""
	}
	return m.st.dim.Render(m.message) + "\n"
}

// truncate cuts a string to at most maxLen runes.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// age formats how long ago t was.
func age(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
