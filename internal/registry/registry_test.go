package registry

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fixedCounters struct {
	toTarget int64
	toClient int64
}

func (f fixedCounters) BytesToTarget() int64 { return f.toTarget }
func (f fixedCounters) BytesToClient() int64 { return f.toClient }

func TestRegisterAndRemove(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Count())

	id := uuid.New()
	r.Register(Entry{
		ID:         id,
		RemoteAddr: "10.0.0.1:52000",
		Path:       "/rest/auth/1/session",
		StartedAt:  time.Now(),
		Counters:   fixedCounters{toTarget: 128, toClient: 2048},
	})
	assert.Equal(t, 1, r.Count())

	snap := r.Snapshot()
	assert.Len(t, snap, 1)
	assert.Equal(t, "/rest/auth/1/session", snap[0].Path)
	assert.Equal(t, int64(128), snap[0].Counters.BytesToTarget())
	assert.Equal(t, int64(2048), snap[0].Counters.BytesToClient())

	r.Remove(id)
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Snapshot())
}

func TestSnapshotOrderedByStartTime(t *testing.T) {
	r := NewRegistry()
	base := time.Now()

	second := Entry{ID: uuid.New(), Path: "/second", StartedAt: base.Add(time.Second)}
	first := Entry{ID: uuid.New(), Path: "/first", StartedAt: base}
	third := Entry{ID: uuid.New(), Path: "/third", StartedAt: base.Add(2 * time.Second)}

	r.Register(second)
	r.Register(third)
	r.Register(first)

	snap := r.Snapshot()
	assert.Len(t, snap, 3)
	assert.Equal(t, "/first", snap[0].Path)
	assert.Equal(t, "/second", snap[1].Path)
	assert.Equal(t, "/third", snap[2].Path)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Register(Entry{ID: uuid.New(), Path: "/keep", StartedAt: time.Now()})

	r.Remove(uuid.New())
	assert.Equal(t, 1, r.Count())
}
