package scheduler

// SliceJob processes one item per step. It is the resumable equivalent of a
// loop over items and tracks TotalSteps and CompletedSteps for progress.
type SliceJob[T any] struct {
	name  string
	items []T
	fn    func(index int, item T) error
	next  int
}

// NewSliceJob creates a job that calls fn for each item in order.
func NewSliceJob[T any](name string, items []T, fn func(index int, item T) error) *SliceJob[T] {
	return &SliceJob[T]{name: name, items: items, fn: fn}
}

func (j *SliceJob[T]) Name() string { return j.name }

// TotalSteps is the number of items.
func (j *SliceJob[T]) TotalSteps() int { return len(j.items) }

// CompletedSteps is the number of items processed so far.
func (j *SliceJob[T]) CompletedSteps() int { return j.next }

// Progress is CompletedSteps / TotalSteps, 1 for an empty job.
func (j *SliceJob[T]) Progress() float64 {
	if len(j.items) == 0 {
		return 1
	}
	return float64(j.next) / float64(len(j.items))
}

// Step processes the next item. A failing item is not retried past: the
// error is returned and the next Step moves on to the following item.
func (j *SliceJob[T]) Step() (float64, bool, error) {
	if j.next >= len(j.items) {
		return 1, true, nil
	}
	i := j.next
	j.next++
	if err := j.fn(i, j.items[i]); err != nil {
		return j.Progress(), false, err
	}
	return j.Progress(), j.next >= len(j.items), nil
}

// Sequence runs jobs one after another as a single job. Progress is spread
// evenly across the parts.
type Sequence struct {
	name  string
	parts []Job
	index int
}

// NewSequence chains parts into one job.
func NewSequence(name string, parts ...Job) *Sequence {
	return &Sequence{name: name, parts: parts}
}

func (s *Sequence) Name() string { return s.name }

func (s *Sequence) Step() (float64, bool, error) {
	if s.index >= len(s.parts) {
		return 1, true, nil
	}
	p, done, err := s.parts[s.index].Step()
	if err != nil {
		return s.overall(p), false, err
	}
	if done {
		s.index++
		p = 0
	}
	finished := s.index >= len(s.parts)
	if finished {
		return 1, true, nil
	}
	return s.overall(p), false, nil
}

func (s *Sequence) overall(p float64) float64 {
	return (float64(s.index) + p) / float64(len(s.parts))
}
