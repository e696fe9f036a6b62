/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import "time"

// DefaultSuddenDelay is how long a winning sudden death answer stays on
// screen before fast money begins.
const DefaultSuddenDelay = 700 * time.Millisecond

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. It must not call f synchronously.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// schedule arms the sudden death win transition, replacing any pending one.
func (s *Session) schedule() {
	s.cancelPending()

	if s.delay <= 0 {
		s.enterFastMoney()
		return
	}

	gen := s.generation
	s.pending = s.scheduler(s.delay, func() {
		s.fire(gen)
	})
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if s.pending == nil || s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.enterFastMoney()
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// cancelPending stops any scheduled transition. Bumping the generation also
// disarms a callback that has already started but not yet taken the lock.
func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.generation++
}
