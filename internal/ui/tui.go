// Package ui provides a read-only terminal viewer for the task file.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/todo"
)

const maxDescriptionWidth = 60

// TUIOption configures the viewer.
type TUIOption func(*viewerSettings)

type viewerSettings struct {
	interval  time.Duration
	storeOpts []todo.StoreOption
}

// WithRefreshInterval sets how often the task file is re-read.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(s *viewerSettings) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithStoreOptions sets the options used when loading the task file.
func WithStoreOptions(opts ...todo.StoreOption) TUIOption {
	return func(s *viewerSettings) {
		s.storeOpts = opts
	}
}

// RunTUI shows the task file at todoPath until the user quits.
// The file is never written.
func RunTUI(ctx context.Context, todoPath string, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return errors.New("tui requires a TTY on stdout")
	}

	_, err := tea.NewProgram(
		newTUIModel(todoPath, opts...),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	).Run()
	return err
}

// snapshot is the result of the last read of the task file.
type snapshot struct {
	tasks   []todo.Task
	pending int
	done    int
	err     error
	at      time.Time
}

type tuiModel struct {
	path     string
	settings viewerSettings
	snap     snapshot
	help     bool
}

type refreshMsg time.Time

func newTUIModel(todoPath string, opts ...TUIOption) *tuiModel {
	settings := viewerSettings{interval: 2 * time.Second}
	for _, opt := range opts {
		opt(&settings)
	}
	return &tuiModel{path: todoPath, settings: settings}
}

func (m *tuiModel) Init() tea.Cmd {
	m.snap = readSnapshot(m.path, m.settings.storeOpts)
	return m.scheduleRefresh()
}

func (m *tuiModel) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.settings.interval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snap = readSnapshot(m.path, m.settings.storeOpts)
		return m, m.scheduleRefresh()
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *tuiModel) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "r", "f5":
		m.snap = readSnapshot(m.path, m.settings.storeOpts)
	case "?", "h":
		m.help = !m.help
	}
	return nil
}

func (m *tuiModel) View() string {
	var sb strings.Builder
	sb.WriteString("Todo Viewer\n===========\n\n")

	switch {
	case m.help:
		sb.WriteString(keyHelp)
	case m.snap.err != nil:
		fmt.Fprintf(&sb, "Error loading task file:\n  %v\n\n", m.snap.err)
	default:
		m.renderTasks(&sb)
	}

	fmt.Fprintf(&sb, "Press h for help | q to quit | Refreshing every %s\n", m.settings.interval)
	return sb.String()
}

func (m *tuiModel) renderTasks(sb *strings.Builder) {
	fmt.Fprintf(sb, "  Pending: %d  Done: %d\n\n", m.snap.pending, m.snap.done)

	for _, task := range m.snap.tasks {
		sb.WriteString(formatTask(task) + "\n")
	}
	if len(m.snap.tasks) == 0 {
		sb.WriteString("  No tasks.\n")
	}

	fmt.Fprintf(sb, "\nTask File: %s (read %s)\n\n", m.path, m.snap.at.Format(time.TimeOnly))
}

const keyHelp = `Keyboard Shortcuts

  q, ctrl+c    Quit
  r, F5        Re-read the task file
  h, ?         Toggle this help screen

`

// readSnapshot loads the task file. A missing file reads as an empty list.
func readSnapshot(path string, opts []todo.StoreOption) snapshot {
	snap := snapshot{at: time.Now()}
	store, err := todo.LoadStrict(path, opts...)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return snap
	case err != nil:
		snap.err = err
		return snap
	}
	snap.tasks = store.Tasks()
	snap.pending, snap.done = store.Counts()
	return snap
}

func formatTask(t todo.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	desc := []rune(t.Description)
	if len(desc) > maxDescriptionWidth {
		desc = append(desc[:maxDescriptionWidth-3], []rune("...")...)
	}
	return fmt.Sprintf("  %s %d. %s", mark, t.ID, string(desc))
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
