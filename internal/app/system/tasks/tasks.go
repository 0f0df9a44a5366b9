// internal/app/system/tasks/tasks.go
//
// Package tasks runs background work in-process: fire-and-forget jobs
// dispatched by handlers (eligibility recomputation, CSV export) and
// periodic maintenance jobs started at boot.
package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher runs named task functions on their own goroutines, detached
// from the request context. Each run gets its own timeout and a task id
// for log correlation.
type Dispatcher struct {
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher whose tasks are bounded by timeout.
func NewDispatcher(log *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{log: log, timeout: timeout}
}

// Dispatch runs fn in the background and returns immediately. Errors are
// logged, not returned; callers that need the result poll the stored
// output instead.
func (d *Dispatcher) Dispatch(name string, fn func(ctx context.Context) error) {
	taskID := uuid.NewString()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		start := time.Now()
		err := fn(ctx)
		fields := []zap.Field{
			zap.String("task", name),
			zap.String("task_id", taskID),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			d.log.Error("background task failed", append(fields, zap.Error(err))...)
			return
		}
		d.log.Info("background task finished", fields...)
	}()
}

// Wait blocks until all dispatched tasks complete. Used by shutdown and
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Job is a periodic maintenance job.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// RunJobs starts each job on its own ticker until ctx is canceled.
func RunJobs(ctx context.Context, log *zap.Logger, jobs ...Job) {
	for _, job := range jobs {
		go func(j Job) {
			ticker := time.NewTicker(j.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := j.Run(ctx); err != nil {
						log.Error("periodic job failed",
							zap.String("job", j.Name),
							zap.Error(err))
					}
				}
			}
		}(job)
	}
}
