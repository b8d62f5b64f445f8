package process

import (
	"sort"
	"sync"
	"time"
)

// State is the lifecycle state of a managed process.
type State string

const (
	StateSpawned   State = "spawned"
	StateStreaming State = "streaming"
	StateExited    State = "exited"
)

// Snapshot is a point in time view of a table entry.
type Snapshot struct {
	PID       int       `json:"pid" yaml:"pid"`
	AppID     int64     `json:"app_id" yaml:"app_id"`
	StackID   string    `json:"stack_id" yaml:"stack_id"`
	State     State     `json:"state" yaml:"state"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}

type entry struct {
	proc  *Process
	state State
}

// Table holds the processes that have been registered and have not exited yet, keyed by pid.
type Table struct {
	mu      sync.Mutex
	entries map[int]*entry
}

func NewTable() *Table {
	return &Table{entries: map[int]*entry{}}
}

// Insert adds p in the spawned state, replacing any entry with the same pid.
func (t *Table) Insert(p *Process) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries[p.PID] = &entry{proc: p, state: StateSpawned}
}

// Advance moves the entry for pid to state. Exited is terminal and removes the entry.
// It reports whether the entry existed.
func (t *Table) Advance(pid int, state State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[pid]
	if !ok {
		return false
	}
	if state == StateExited {
		delete(t.entries, pid)
		return true
	}
	e.state = state
	return true
}

// Snapshot returns the current entries ordered by pid.
func (t *Table) Snapshot() []Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshots := make([]Snapshot, 0, len(t.entries))
	for _, e := range t.entries {
		snapshots = append(snapshots, Snapshot{
			PID:       e.proc.PID,
			AppID:     e.proc.AppID,
			StackID:   e.proc.StackID,
			State:     e.state,
			StartedAt: e.proc.StartedAt,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].PID < snapshots[j].PID
	})
	return snapshots
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
