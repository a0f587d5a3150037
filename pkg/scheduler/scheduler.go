// Package scheduler runs long operations as a queue of resumable jobs that
// advance one bounded step per Tick, so a single driver loop can interleave
// scanning with rendering progress and reacting to input.
//
// A Scheduler is an owned value; there is no package-level state. It is not
// safe for concurrent use: exactly one goroutine (the driver) calls Tick,
// Enqueue and Clear.
package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Job is a resumable unit of work. Step performs one bounded increment and
// reports the job's progress in [0, 1] and whether it has finished.
// A job that has nothing to do may report done on its first step.
type Job interface {
	Step() (progress float64, done bool, err error)
}

// JobFunc adapts a function to the Job interface.
type JobFunc func() (float64, bool, error)

func (f JobFunc) Step() (float64, bool, error) { return f() }

// Named is implemented by jobs that want a readable name in logs.
type Named interface {
	Name() string
}

type entry struct {
	id  string
	job Job
}

// Scheduler is a FIFO queue of jobs with at most one active job.
type Scheduler struct {
	active    *entry
	queue     []*entry
	progress  float64
	listeners map[int]func()
	nextID    int
	logger    zerolog.Logger
}

// New creates an idle scheduler.
func New() *Scheduler {
	return &Scheduler{
		listeners: make(map[int]func()),
		logger:    logging.GetLogger("scheduler"),
	}
}

// Enqueue appends job to the queue. If the scheduler is idle the job becomes
// active immediately. It returns the job's id.
func (s *Scheduler) Enqueue(job Job) string {
	e := &entry{id: uuid.NewString(), job: job}
	s.logger.Debug().Str("job", e.id).Str("name", jobName(job)).Int("queued", len(s.queue)).Msg("Job enqueued")
	if s.active == nil {
		s.activate(e)
		return e.id
	}
	s.queue = append(s.queue, e)
	return e.id
}

// Tick advances the active job by one step. When that step completes the
// job, the next queued job is activated; when the queue drains, the
// queue-complete listeners are notified once. Tick on an idle scheduler is
// a no-op. A step error is returned as is and leaves the queue untouched.
func (s *Scheduler) Tick() error {
	if s.active == nil {
		return nil
	}
	current := s.active
	progress, done, err := current.job.Step()
	if err != nil {
		s.logger.Error().Err(err).Str("job", current.id).Str("name", jobName(current.job)).Msg("Job step failed")
		return err
	}
	if s.active != current {
		// The step cleared or replaced the queue.
		return nil
	}
	s.progress = progress
	if !done {
		return nil
	}

	s.logger.Debug().Str("job", current.id).Str("name", jobName(current.job)).Msg("Job completed")
	if len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.activate(next)
		return nil
	}

	s.active = nil
	s.progress = 0
	s.notifyComplete()
	return nil
}

// CurrentProgress returns the last progress reported by the active job, or
// 0 when idle.
func (s *Scheduler) CurrentProgress() float64 {
	if s.active == nil {
		return 0
	}
	return s.progress
}

// Clear drops the active and queued jobs without notifying listeners.
func (s *Scheduler) Clear() {
	if s.active != nil || len(s.queue) > 0 {
		s.logger.Debug().Int("dropped", len(s.queue)+boolToInt(s.active != nil)).Msg("Queue cleared")
	}
	s.active = nil
	s.queue = nil
	s.progress = 0
}

// Idle reports whether there is no active job.
func (s *Scheduler) Idle() bool {
	return s.active == nil
}

// Pending returns the number of jobs including the active one.
func (s *Scheduler) Pending() int {
	return len(s.queue) + boolToInt(s.active != nil)
}

// OnQueueComplete registers fn to run each time the queue drains. The
// returned function unregisters it.
func (s *Scheduler) OnQueueComplete(fn func()) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// RunUntilIdle ticks until the queue drains, a step fails or ctx is done.
func (s *Scheduler) RunUntilIdle(ctx context.Context) error {
	for !s.Idle() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Drive ticks once per interval until ctx is done. onTick, when non-nil,
// runs after every tick on the driver goroutine; use it to render progress
// or to feed the scheduler from channels.
func (s *Scheduler) Drive(ctx context.Context, interval time.Duration, onTick func() error) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(); err != nil {
				return err
			}
			if onTick != nil {
				if err := onTick(); err != nil {
					return err
				}
			}
		}
	}
}

func (s *Scheduler) activate(e *entry) {
	s.active = e
	s.progress = 0
}

func (s *Scheduler) notifyComplete() {
	s.logger.Debug().Msg("Queue complete")
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn()
		}
	}
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return "job"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
