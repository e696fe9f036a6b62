/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package feud runs the game: faceoffs, the main round with strikes and
// steals, sudden death and fast money, along with scoring.
package feud

import (
	"sync"
	"time"

	"github.com/Seednode/feudbox/content"
)

// Session is one game in progress. All methods are safe for concurrent use;
// every event is applied in full before the next one is looked at.
type Session struct {
	mu sync.Mutex

	content   content.Content
	delay     time.Duration
	scheduler Scheduler
	notify    func()

	phase       Phase
	roundIndex  int
	suddenIndex int
	revealed    []bool
	strikes     int
	bank        int
	scoreA      int
	scoreB      int
	buzz        Team
	turn        Team
	control     Team
	fast        FastMoney

	pending    Timer
	generation uint64
}

// Option configures a Session.
type Option func(*Session)

// WithSuddenDelay sets the pause between a winning sudden death answer and
// fast money. Zero or less switches immediately.
func WithSuddenDelay(d time.Duration) Option {
	return func(s *Session) {
		s.delay = d
	}
}

// WithScheduler replaces time.AfterFunc for the sudden death transition.
func WithScheduler(fn Scheduler) Option {
	return func(s *Session) {
		if fn != nil {
			s.scheduler = fn
		}
	}
}

// WithNotify registers fn to be called after a scheduled transition changes
// the session. It runs without the session lock held.
func WithNotify(fn func()) Option {
	return func(s *Session) {
		s.notify = fn
	}
}

// New starts a session at the first faceoff of c.
func New(c content.Content, opts ...Option) *Session {
	s := &Session{
		content:   usable(c),
		delay:     DefaultSuddenDelay,
		scheduler: afterFunc,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.restart()

	return s
}

func usable(c content.Content) content.Content {
	if len(c.Rounds) == 0 {
		c.Rounds = content.Default().Rounds
	}
	return c
}

// Apply runs ev against the current phase and reports whether anything
// changed. Events the phase does not accept are ignored.
func (s *Session) Apply(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case Restart:
		s.restart()
		return true
	case LoadContent:
		s.content = usable(e.Content)
		s.restart()
		return true
	}

	h, ok := phases[s.phase]
	if !ok {
		return false
	}

	return h.apply(s, ev)
}

// Content returns the content the session is played with.
func (s *Session) Content() content.Content {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.content
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.phase
}

// Scores returns the team totals.
func (s *Session) Scores() (a, b int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scoreA, s.scoreB
}

// Bank returns the unawarded points on the board.
func (s *Session) Bank() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bank
}

func (s *Session) StartFaceoff() bool        { return s.Apply(StartFaceoff{}) }
func (s *Session) StartSuddenDeath() bool    { return s.Apply(StartSuddenDeath{}) }
func (s *Session) Buzz(t Team) bool          { return s.Apply(Buzz{Team: t}) }
func (s *Session) PassFaceoff() bool         { return s.Apply(Pass{}) }
func (s *Session) Wrong() bool               { return s.Apply(Wrong{}) }
func (s *Session) BeginRound(t Team) bool    { return s.Apply(BeginRound{Team: t}) }
func (s *Session) ToggleReveal(i int) bool   { return s.Apply(Reveal{Slot: i}) }
func (s *Session) AddStrike() bool           { return s.Apply(Strike{}) }
func (s *Session) Award(t Team) bool         { return s.Apply(Award{Team: t}) }
func (s *Session) ResolveSteal(ok bool) bool { return s.Apply(ResolveSteal{Success: ok}) }
func (s *Session) NextRound() bool           { return s.Apply(NextRound{}) }
func (s *Session) Restart() bool             { return s.Apply(Restart{}) }
func (s *Session) BackToRounds() bool        { return s.Apply(BackToRounds{}) }
func (s *Session) ToggleShow(slot int) bool  { return s.Apply(ToggleShow{Slot: slot}) }
func (s *Session) RevealNextHidden() bool    { return s.Apply(RevealNextHidden{}) }
func (s *Session) ResetFastMoney() bool      { return s.Apply(ResetFastMoney{}) }

func (s *Session) SetPoints(player, slot, value int) bool {
	return s.Apply(SetPoints{Player: player, Slot: slot, Value: value})
}

func (s *Session) LoadContent(c content.Content) bool {
	return s.Apply(LoadContent{Content: c})
}
