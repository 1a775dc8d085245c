package dashboard

import (
	"fmt"
	"strings"
	"time"

	"relay_pls/internal/registry"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	ColorPrimary   = "#7D56F4"
	ColorSecondary = "#04B575"
	ColorGray      = "#888888"
	ColorWhite     = "#FAFAFA"
)

type keymap struct {
	quit key.Binding
}

type tickMsg time.Time

type model struct {
	registry registry.Registry
	target   string

	entries []registry.Entry

	keymap   keymap
	help     help.Model
	quitting bool
	width    int
	height   int
}

func newModel(reg registry.Registry, target string) *model {
	return &model{
		registry: reg,
		target:   target,
		keymap: keymap{
			quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		help: help.New(),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(tickCmd(time.Second), tea.WindowSize())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.entries = m.registry.Snapshot()
		return m, tickCmd(time.Second)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimary)).
		PaddingTop(1)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorGray)).
		Italic(true)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorGray)).
		Bold(true)

	rowStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite))

	countStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondary)).
		Bold(true)

	var b strings.Builder

	b.WriteString(titleStyle.Render("RELAY PLS"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("relaying to %s", m.target)))
	b.WriteString("\n\n")

	b.WriteString(countStyle.Render(fmt.Sprintf("%d active", len(m.entries))))
	b.WriteString("\n\n")

	pathWidth := 30
	if m.width > 100 {
		pathWidth = m.width - 70
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-22s %-*s %12s %12s %8s",
		"ID", "REMOTE", pathWidth, "PATH", "TO TARGET", "TO CLIENT", "AGE")))
	b.WriteString("\n")

	now := time.Now()
	for _, e := range m.entries {
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-10s %-22s %-*s %12s %12s %8s",
			truncateString(e.ID.String(), 8),
			truncateString(e.RemoteAddr, 22),
			pathWidth, truncateString(e.Path, pathWidth),
			formatBytes(e.Counters.BytesToTarget()),
			formatBytes(e.Counters.BytesToClient()),
			now.Sub(e.StartedAt).Truncate(time.Second))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keymap.quit}))

	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength < 4 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
