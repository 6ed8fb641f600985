// Package workers runs tile generation tasks on a bounded goroutine pool.
package workers

import (
	"runtime"

	"github.com/alitto/pond/v2"

	"github.com/Faultbox/planet-terrain/internal/metrics"
)

// Pool is a fire-and-forget task pool backed by pond.
type Pool struct {
	pool pond.Pool
}

// New creates a pool with size workers; size <= 0 uses one per CPU.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	return &Pool{pool: pond.NewPool(size)}
}

// Submit queues task without waiting for it. Tasks submitted after Close
// are dropped.
func (p *Pool) Submit(task func()) {
	if p.pool.Stopped() {
		return
	}
	p.pool.Submit(task)
}

// Size returns the maximum number of concurrent workers.
func (p *Pool) Size() int { return p.pool.MaxConcurrency() }

// Running returns the number of workers currently executing a task.
func (p *Pool) Running() int64 { return p.pool.RunningWorkers() }

// Waiting returns the number of queued tasks.
func (p *Pool) Waiting() uint64 { return p.pool.WaitingTasks() }

// Completed returns the number of tasks that have finished.
func (p *Pool) Completed() uint64 { return p.pool.CompletedTasks() }

// Close stops accepting tasks and waits for queued ones to drain.
func (p *Pool) Close() {
	p.pool.StopAndWait()
}

// RegisterMetrics exports queue depth and busy workers as gauges.
func (p *Pool) RegisterMetrics() error {
	if err := metrics.RegisterGaugeFunc("pool_running_workers",
		"Workers currently building a patch mesh.",
		func() float64 { return float64(p.Running()) }); err != nil {
		return err
	}
	return metrics.RegisterGaugeFunc("pool_waiting_tasks",
		"Patch builds queued behind busy workers.",
		func() float64 { return float64(p.Waiting()) })
}
