package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Defaults for the desktop profile.
const (
	DefaultWorkers       = 2
	DefaultMaxQueue      = 32
	DefaultStalePending  = 2 * time.Minute
	DefaultRetention     = 10 * time.Minute
	DefaultSweepInterval = 30 * time.Second
)

// Config holds the manager's limits and lifecycle windows.
type Config struct {
	// Workers is the number of concurrent task slots.
	Workers int
	// MaxQueue caps queued + active tasks; beyond it Submit rejects with
	// ErrQueueOverflow.
	MaxQueue int
	// StalePending force-fails tasks that sat queued longer than this.
	StalePending time.Duration
	// Retention keeps terminal tasks visible before garbage collection.
	Retention time.Duration
	// SweepInterval is how often staleness and retention are enforced.
	SweepInterval time.Duration
}

// DefaultConfig returns the stock task-manager configuration.
func DefaultConfig() Config {
	return Config{
		Workers:       DefaultWorkers,
		MaxQueue:      DefaultMaxQueue,
		StalePending:  DefaultStalePending,
		Retention:     DefaultRetention,
		SweepInterval: DefaultSweepInterval,
	}
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxQueue <= 0 {
		c.MaxQueue = DefaultMaxQueue
	}
	if c.StalePending <= 0 {
		c.StalePending = DefaultStalePending
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	return c
}

// Manager is the bounded task runner. Safe for concurrent use.
type Manager struct {
	cfg Config

	mu       sync.Mutex
	queue    []*Task
	tasks    map[string]*Task
	byDedupe map[string]*Task
	active   int
	closed   bool

	stop chan struct{}
	wg   sync.WaitGroup

	// now is swapped in tests to drive staleness.
	now func() time.Time
}

// NewManager starts a manager and its background sweep loop.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		cfg:      cfg.normalized(),
		tasks:    make(map[string]*Task),
		byDedupe: make(map[string]*Task),
		stop:     make(chan struct{}),
		now:      time.Now,
	}
	m.wg.Add(1)
	go m.sweepLoop()
	return m
}

// Submit queues a task. When dedupeKey is non-empty and a task with that
// key is still pending or processing, the existing handle is returned
// instead of creating a new one: single execution, many observers.
func (m *Manager) Submit(typ Type, filePath, dedupeKey string, fn Func) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	if dedupeKey != "" {
		if existing, ok := m.byDedupe[dedupeKey]; ok && !existing.status.terminal() {
			return existing, nil
		}
	}

	if len(m.queue)+m.active >= m.cfg.MaxQueue {
		return nil, ErrQueueOverflow
	}

	t := &Task{
		ID:        uuid.NewString(),
		Type:      typ,
		FilePath:  filePath,
		DedupeKey: dedupeKey,
		fn:        fn,
		done:      make(chan struct{}),
		status:    StatusQueued,
		createdAt: m.now(),
	}
	m.tasks[t.ID] = t
	if dedupeKey != "" {
		m.byDedupe[dedupeKey] = t
	}
	m.queue = append(m.queue, t)
	m.dispatchLocked()
	return t, nil
}

// Get returns a task handle by ID.
func (m *Manager) Get(id string) (*Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok
}

// Snapshot returns an immutable view of the task's current state.
func (m *Manager) Snapshot(t *Task) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := View{
		ID:          t.ID,
		Type:        t.Type,
		FilePath:    t.FilePath,
		DedupeKey:   t.DedupeKey,
		Status:      t.status,
		Progress:    t.progress,
		CreatedAt:   t.createdAt,
		StartedAt:   t.startedAt,
		CompletedAt: t.completedAt,
	}
	if t.err != nil {
		v.Error = t.err.Error()
	}
	return v
}

// Counts returns (queued, active) for monitoring.
func (m *Manager) Counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue), m.active
}

// Close stops the sweep loop and fails every still-queued task with
// ErrClosed. Processing tasks run to completion.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	queued := m.queue
	m.queue = nil
	for _, t := range queued {
		m.completeLocked(t, nil, ErrClosed)
	}
	m.mu.Unlock()

	close(m.stop)
	m.wg.Wait()
}

// dispatchLocked starts queued tasks while worker slots are free. FIFO:
// always the queue head.
func (m *Manager) dispatchLocked() {
	for m.active < m.cfg.Workers && len(m.queue) > 0 {
		t := m.queue[0]
		m.queue = m.queue[1:]
		m.active++
		t.status = StatusProcessing
		t.startedAt = m.now()
		go m.run(t)
	}
}

func (m *Manager) run(t *Task) {
	report := func(p int) {
		m.mu.Lock()
		if !t.status.terminal() {
			if p < 0 {
				p = 0
			}
			if p > 100 {
				p = 100
			}
			t.progress = p
		}
		m.mu.Unlock()
	}

	result, err := t.fn(context.Background(), report)

	m.mu.Lock()
	m.active--
	m.completeLocked(t, result, err)
	// Completion, success or failure, always tries to start the next
	// queued task.
	m.dispatchLocked()
	m.mu.Unlock()
}

// completeLocked moves a task to its terminal state and releases its
// dedupe key so later submissions start fresh work.
func (m *Manager) completeLocked(t *Task, result any, err error) {
	if t.status.terminal() {
		return
	}
	t.result = result
	t.err = err
	t.completedAt = m.now()
	if err != nil {
		t.status = StatusFailed
	} else {
		t.status = StatusCompleted
		t.progress = 100
	}
	if t.DedupeKey != "" && m.byDedupe[t.DedupeKey] == t {
		delete(m.byDedupe, t.DedupeKey)
	}
	close(t.done)
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep force-fails queued tasks older than the stale-pending threshold
// and garbage-collects terminal tasks past the retention window.
func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	kept := m.queue[:0]
	for _, t := range m.queue {
		if now.Sub(t.createdAt) > m.cfg.StalePending {
			slog.Warn("stale pending task expired", "id", t.ID, "type", t.Type, "queued_for", now.Sub(t.createdAt))
			m.completeLocked(t, nil, ErrStalePending)
			continue
		}
		kept = append(kept, t)
	}
	m.queue = kept

	for id, t := range m.tasks {
		if t.status.terminal() && now.Sub(t.completedAt) > m.cfg.Retention {
			delete(m.tasks, id)
		}
	}
}
