/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

// phaseHandler applies the events one phase accepts. Handlers run with the
// session lock held.
type phaseHandler interface {
	apply(s *Session, ev Event) bool
}

var phases = map[Phase]phaseHandler{
	PhaseFaceoff:     faceoffPhase{},
	PhaseRound:       roundPhase{},
	PhaseSteal:       stealPhase{},
	PhaseSuddenDeath: suddenPhase{},
	PhaseFastMoney:   fastPhase{},
}

type faceoffPhase struct{}

func (faceoffPhase) apply(s *Session, ev Event) bool {
	switch e := ev.(type) {
	case StartFaceoff:
		s.startFaceoff()
		return true
	case StartSuddenDeath:
		s.startSuddenDeath()
		return true
	case Buzz:
		return s.buzzIn(e.Team)
	case Pass, Wrong:
		return s.passFaceoff()
	case BeginRound:
		return s.beginRound(e.Team)
	case Reveal:
		return s.toggleReveal(e.Slot)
	case Award:
		return s.award(e.Team)
	case NextRound:
		return s.nextRound()
	}
	return false
}

type roundPhase struct{}

func (roundPhase) apply(s *Session, ev Event) bool {
	switch e := ev.(type) {
	case Strike, Wrong:
		return s.addStrike()
	case Reveal:
		return s.toggleReveal(e.Slot)
	case Award:
		return s.award(e.Team)
	case NextRound:
		return s.nextRound()
	case StartFaceoff:
		s.startFaceoff()
		return true
	}
	return false
}

type stealPhase struct{}

func (stealPhase) apply(s *Session, ev Event) bool {
	switch e := ev.(type) {
	case ResolveSteal:
		return s.resolveSteal(e.Success)
	case Reveal:
		return s.toggleReveal(e.Slot)
	case Award:
		return s.award(e.Team)
	case NextRound:
		return s.nextRound()
	case StartFaceoff:
		s.startFaceoff()
		return true
	}
	return false
}

type suddenPhase struct{}

func (suddenPhase) apply(s *Session, ev Event) bool {
	// Once the answer is up the board is frozen until fast money starts.
	if s.pending != nil {
		if _, ok := ev.(NextRound); ok {
			return s.nextRound()
		}
		return false
	}

	switch e := ev.(type) {
	case StartSuddenDeath:
		s.startSuddenDeath()
		return true
	case Buzz:
		return s.buzzIn(e.Team)
	case Pass, Wrong:
		return s.passFaceoff()
	case Reveal:
		return s.revealSudden(e.Slot)
	case Award:
		return s.award(e.Team)
	case NextRound:
		return s.nextRound()
	}
	return false
}

type fastPhase struct{}

func (fastPhase) apply(s *Session, ev Event) bool {
	switch e := ev.(type) {
	case SetPoints:
		return s.fast.SetPoints(e.Player, e.Slot, e.Value, s.promptCount())
	case ToggleShow:
		return s.fast.Toggle(e.Slot, s.promptCount())
	case RevealNextHidden:
		return s.fast.RevealNext(s.promptCount())
	case ResetFastMoney:
		s.fast.Reset()
		return true
	case BackToRounds:
		s.startFaceoff()
		return true
	case NextRound:
		return s.nextRound()
	}
	return false
}
