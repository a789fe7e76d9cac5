package notify

import (
	"sort"
	"sync"
	"time"
)

// CancelHandle stops a scheduled callback. Cancel is safe to call more than
// once and after the callback has run.
type CancelHandle interface {
	Cancel()
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelHandle
}

// TimerScheduler schedules callbacks with time.AfterFunc.
type TimerScheduler struct{}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Cancel() { h.t.Stop() }

// Schedule implements Scheduler.
func (TimerScheduler) Schedule(d time.Duration, fn func()) CancelHandle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

// ManualScheduler is a Scheduler driven by Advance instead of wall-clock
// time. Callbacks run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
	ran      bool
	s        *ManualScheduler
}

func (t *manualTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.canceled = true
}

// NewManualScheduler creates a ManualScheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule implements Scheduler.
func (s *ManualScheduler) Schedule(d time.Duration, fn func()) CancelHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{at: s.now + d, seq: s.seq, fn: fn, s: s}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d and runs every callback that comes
// due, in due-time order. Callbacks scheduled while advancing run too if
// they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.ran = true
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns how many callbacks are scheduled and neither run nor
// canceled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, t := range s.tasks {
		if !t.ran && !t.canceled {
			n++
		}
	}
	return n
}

// nextDue must be called with s.mu held.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.ran && !t.canceled {
			live = append(live, t)
		}
	}
	s.tasks = live
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at != s.tasks[j].at {
			return s.tasks[i].at < s.tasks[j].at
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	if len(s.tasks) == 0 || s.tasks[0].at > target {
		return nil
	}
	return s.tasks[0]
}
