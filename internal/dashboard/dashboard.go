package dashboard

import (
	"log"

	"relay_pls/internal/registry"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Dashboard renders the live relay table on the local terminal. It is
// opt-in; the proxy runs headless without it.
type Dashboard struct {
	registry registry.Registry
	target   string
	program  *tea.Program
}

func New(reg registry.Registry, target string) *Dashboard {
	return &Dashboard{
		registry: reg,
		target:   target,
	}
}

func (d *Dashboard) Start() {
	lipgloss.SetColorProfile(termenv.TrueColor)

	m := newModel(d.registry, d.target)

	d.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)

	_, err := d.program.Run()
	if err != nil {
		log.Printf("Cannot run dashboard: %s \n", err)
	}
	d.program = nil
}

func (d *Dashboard) Stop() {
	if d.program != nil {
		d.program.Kill()
		d.program = nil
	}
}
