package clock

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Task is the handle to a repeating callback armed via Scheduler.Repeat.
type Task struct {
	stop chan struct{}
	once sync.Once
	done chan struct{} // closed when the run loop has exited
}

// Stop cancels future fires. Idempotent. Best-effort: a callback that is
// already running completes.
func (t *Task) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

// Wait blocks until the run loop has exited, or the timeout passes.
// It reports whether the task settled in time.
func (t *Task) Wait(timeout time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (t *Task) run(period time.Duration, fn func(now time.Time)) {
	defer close(t.done)
	timer := time.NewTimer(period)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		now := time.Now()
		diff := period - (time.Duration(now.UnixNano()) % period)
		timer.Reset(diff)
		select {
		case <-t.stop:
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
			t.invoke(fn, now.Add(diff))
		}
	}
}

// a panicking callback must not kill the schedule
func (t *Task) invoke(fn func(now time.Time), now time.Time) {
	defer func() {
		if e := recover(); e != nil {
			log.Errorf("clock: task callback panicked: %v", e)
		}
	}()
	fn(now)
}

// Scheduler drives any number of repeating tasks, one goroutine each.
// Callbacks are expected to be short and non-blocking; a callback that
// overruns its period delays only its own next fire.
type Scheduler struct {
	mu     sync.Mutex
	tasks  []*Task
	closed bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Repeat arms fn to run every period, aligned to multiples of period.
// The first fire happens within one period. On a closed scheduler the
// returned task is already stopped and fn never runs.
func (s *Scheduler) Repeat(period time.Duration, fn func(now time.Time)) *Task {
	t := &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Warnf("clock: Repeat on closed scheduler, task will never fire")
		t.Stop()
		close(t.done)
		return t
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	go func() {
		t.run(period, fn)
		s.remove(t)
	}()
	return t
}

// remove forgets a task whose run loop has exited, so stopping individual
// tasks does not grow the slice for the scheduler's lifetime.
func (s *Scheduler) remove(task *Task) {
	s.mu.Lock()
	for i, t := range s.tasks {
		if t == task {
			last := len(s.tasks) - 1
			s.tasks[i] = s.tasks[last]
			s.tasks[last] = nil
			s.tasks = s.tasks[:last]
			break
		}
	}
	s.mu.Unlock()
}

// Close stops every task and waits up to grace for their run loops to exit.
// It reports whether all tasks settled in time. The scheduler cannot be
// reused afterwards.
func (s *Scheduler) Close(grace time.Duration) bool {
	s.mu.Lock()
	s.closed = true
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t.Stop()
	}
	deadline := time.Now().Add(grace)
	settled := true
	for _, t := range tasks {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		if !t.Wait(remaining) {
			settled = false
		}
	}
	if !settled {
		log.Warnf("clock: scheduler closed with tasks still running after %s", grace)
	}
	return settled
}
