package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"relay_pls/internal/registry"
)

type fixedCounters struct {
	toTarget int64
	toClient int64
}

func (f fixedCounters) BytesToTarget() int64 { return f.toTarget }
func (f fixedCounters) BytesToClient() int64 { return f.toClient }

func TestTickRefreshesEntries(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(registry.Entry{
		ID:         uuid.New(),
		RemoteAddr: "10.0.0.1:52000",
		Path:       "/rest/auth/1/session",
		StartedAt:  time.Now(),
		Counters:   fixedCounters{toTarget: 512, toClient: 4096},
	})

	m := newModel(reg, "jira.domain.com:443")
	assert.Empty(t, m.entries)

	updated, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd, "tick must schedule the next tick")

	mm := updated.(*model)
	assert.Len(t, mm.entries, 1)
	assert.Equal(t, "/rest/auth/1/session", mm.entries[0].Path)
}

func TestQuitKey(t *testing.T) {
	m := newModel(registry.NewRegistry(), "jira.domain.com:443")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)

	mm := updated.(*model)
	assert.True(t, mm.quitting)
	assert.Empty(t, mm.View(), "no render after quit")
}

func TestViewShowsTargetAndEntries(t *testing.T) {
	reg := registry.NewRegistry()
	reg.Register(registry.Entry{
		ID:         uuid.New(),
		RemoteAddr: "10.0.0.1:52000",
		Path:       "/dashboard",
		StartedAt:  time.Now(),
		Counters:   fixedCounters{toTarget: 100, toClient: 200},
	})

	m := newModel(reg, "jira.domain.com:443")
	m.entries = reg.Snapshot()

	view := m.View()
	assert.Contains(t, view, "jira.domain.com:443")
	assert.Contains(t, view, "/dashboard")
	assert.Contains(t, view, "1 active")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "exact", truncateString("exact", 5))
	assert.Equal(t, "longer...", truncateString("longer string", 9))
	assert.Equal(t, "ab", truncateString("abcdef", 2))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KiB", formatBytes(1024))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "2.0 MiB", formatBytes(2<<20))
}
