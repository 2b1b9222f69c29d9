package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Defaults for the desktop profile.
const (
	DefaultSize      = 4
	DefaultQueueSize = 64
	DefaultTimeout   = 60 * time.Second
)

// Config holds pool sizing and behavior.
type Config struct {
	// Size is the number of parallel workers.
	Size int
	// QueueSize caps the number of jobs waiting for a worker. A full
	// queue rejects submissions with ErrQueueOverflow.
	QueueSize int
	// Timeout bounds how long a caller waits for one job's response.
	Timeout time.Duration
	// Disabled makes Submit run the job synchronously in-process,
	// bypassing the queue entirely.
	Disabled bool
}

// DefaultConfig returns the stock pool configuration.
func DefaultConfig() Config {
	return Config{Size: DefaultSize, QueueSize: DefaultQueueSize, Timeout: DefaultTimeout}
}

func (c Config) normalized() Config {
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Job lifecycle states. Transitions are claimed by compare-and-swap so
// the departing caller and the worker resolve their race with exactly
// one winner: a worker only retires when the caller has already spawned
// its replacement, and a caller only spawns a replacement when a worker
// is actually stuck on the job.
const (
	jobPending int32 = iota
	jobRunning
	jobDelivered
	jobAbandonedQueued
	jobAbandonedRunning
)

type job struct {
	req   Request
	done  chan Response
	state atomic.Int32
}

// Pool dispatches jobs FIFO to a fixed set of workers.
type Pool struct {
	cfg  Config
	exec Executor

	queue  chan *job
	quit   chan struct{}
	closed atomic.Bool
}

// New starts a pool with cfg.Size workers.
func New(cfg Config, exec Executor) *Pool {
	cfg = cfg.normalized()
	p := &Pool{
		cfg:   cfg,
		exec:  exec,
		queue: make(chan *job, cfg.QueueSize),
		quit:  make(chan struct{}),
	}
	if !cfg.Disabled {
		for i := 0; i < cfg.Size; i++ {
			go p.worker()
		}
	}
	return p
}

// Submit runs one job and waits for its response. It returns
// ErrQueueOverflow immediately on a full queue, ErrJobTimeout when no
// response arrives in time, ErrShutdown after Shutdown, and the
// executor's own error otherwise. When the pool is disabled the job runs
// synchronously on the calling goroutine.
func (p *Pool) Submit(ctx context.Context, req Request) (Response, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if p.cfg.Disabled {
		resp := p.execute(req)
		return resp, resp.Err
	}
	if p.closed.Load() {
		return Response{}, ErrShutdown
	}

	j := &job{req: req, done: make(chan Response, 1)}
	select {
	case p.queue <- j:
	default:
		return Response{}, ErrQueueOverflow
	}

	timer := time.NewTimer(p.cfg.Timeout)
	defer timer.Stop()

	select {
	case resp := <-j.done:
		return resp, resp.Err
	case <-timer.C:
		if resp, ok := p.abandon(j); ok {
			return resp, resp.Err
		}
		slog.Warn("parse job timed out", "id", req.ID, "kind", req.Kind, "timeout", p.cfg.Timeout)
		return Response{}, ErrJobTimeout
	case <-ctx.Done():
		if resp, ok := p.abandon(j); ok {
			return resp, resp.Err
		}
		return Response{}, ctx.Err()
	case <-p.quit:
		return Response{}, ErrShutdown
	}
}

// abandon resolves the race between a departing caller and the job's
// worker. A still-queued job is marked so the dequeuing worker discards
// it (no worker was tied up, so no replacement is needed). A running job
// leaves its worker to retire late; only then is a replacement spawned.
// If the worker won the race and already delivered, the response is
// returned and the departure is withdrawn.
func (p *Pool) abandon(j *job) (Response, bool) {
	if j.state.CompareAndSwap(jobPending, jobAbandonedQueued) {
		return Response{}, false
	}
	if j.state.CompareAndSwap(jobRunning, jobAbandonedRunning) {
		// The worker is not killed: it may still be grinding on the job
		// and will retire when it notices. A replacement keeps capacity.
		p.spawnReplacement()
		return Response{}, false
	}
	return <-j.done, true
}

// Shutdown rejects every queued and in-flight job with ErrShutdown and
// stops all workers. It does not attempt a graceful drain.
func (p *Pool) Shutdown() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.quit)
}

// Queued returns the number of jobs waiting for a worker.
func (p *Pool) Queued() int {
	return len(p.queue)
}

func (p *Pool) spawnReplacement() {
	if !p.closed.Load() {
		go p.worker()
	}
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.quit:
			return
		case j := <-p.queue:
			if !j.state.CompareAndSwap(jobPending, jobRunning) {
				// Caller already gave up while the job was queued; it did
				// not spawn a replacement, so this worker keeps its slot.
				continue
			}
			resp := p.execute(j.req)
			if !j.state.CompareAndSwap(jobRunning, jobDelivered) {
				// A replacement worker took this slot when the caller
				// left; retire so the pool size stays fixed.
				slog.Debug("abandoned job finished late", "id", j.req.ID, "kind", j.req.Kind)
				return
			}
			j.done <- resp
		}
	}
}

// execute runs one request, converting a panic into a failed response so
// a crash takes down the job, never the process.
func (p *Pool) execute(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("parse job panicked", "id", req.ID, "kind", req.Kind, "panic", r)
			resp = Response{ID: req.ID, Err: fmt.Errorf("pool: job panicked: %v", r)}
		}
	}()
	resp = p.exec.Execute(req)
	resp.ID = req.ID
	return resp
}
