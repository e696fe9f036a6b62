/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import "github.com/Seednode/feudbox/content"

// Everything in this file expects s.mu to be held.

const maxStrikes = 3

func (s *Session) resetBoard(slots int) {
	s.revealed = make([]bool, slots)
	s.strikes = 0
	s.bank = 0
	s.buzz = TeamNone
	s.turn = TeamNone
	s.control = TeamNone
}

func (s *Session) startFaceoff() {
	s.cancelPending()
	s.resetBoard(content.MaxAnswers)
	s.phase = PhaseFaceoff
}

func (s *Session) startSuddenDeath() {
	s.cancelPending()
	s.resetBoard(1)
	s.phase = PhaseSuddenDeath
}

func (s *Session) enterFastMoney() {
	s.cancelPending()
	s.resetBoard(content.MaxAnswers)
	s.fast.HideAll()
	s.phase = PhaseFastMoney
}

func (s *Session) restart() {
	s.roundIndex = 0
	s.suddenIndex = 0
	s.scoreA = 0
	s.scoreB = 0
	s.fast.Reset()
	s.startFaceoff()
}

func (s *Session) currentRound() content.Round {
	rounds := s.content.Rounds
	return rounds[min(s.roundIndex, len(rounds)-1)]
}

func (s *Session) suddenItem() (content.SuddenDeathItem, bool) {
	items := s.content.SuddenDeath
	if len(items) == 0 {
		return content.SuddenDeathItem{}, false
	}
	return items[min(s.suddenIndex, len(items)-1)], true
}

func (s *Session) roundMultiplier() int {
	return RoundMultiplier(s.roundIndex, s.currentRound())
}

func (s *Session) suddenMultiplier() int {
	item, _ := s.suddenItem()
	return SuddenMultiplier(item)
}

func (s *Session) activeMultiplier() int {
	if s.phase == PhaseSuddenDeath {
		return s.suddenMultiplier()
	}
	return s.roundMultiplier()
}

// answers returns the visible slots: one in sudden death, eight otherwise.
func (s *Session) answers() []content.Answer {
	if s.phase == PhaseSuddenDeath {
		item, _ := s.suddenItem()
		return []content.Answer{item.Answer}
	}
	return s.currentRound().Slots()
}

func (s *Session) promptCount() int {
	return min(len(s.content.FastMoneyPrompts), content.MaxPrompts)
}

func (s *Session) credit(t Team, points int) {
	switch t {
	case TeamA:
		s.scoreA += points
	case TeamB:
		s.scoreB += points
	}
}

func (s *Session) buzzIn(t Team) bool {
	if t == TeamNone || s.buzz != TeamNone {
		return false
	}
	s.buzz = t
	s.turn = t
	return true
}

func (s *Session) passFaceoff() bool {
	if s.buzz == TeamNone {
		return false
	}
	s.turn = s.turn.Other()
	return true
}

func (s *Session) beginRound(t Team) bool {
	if t == TeamNone || s.buzz == TeamNone {
		return false
	}
	s.control = t
	s.phase = PhaseRound
	return true
}

// toggleReveal flips a tile on the main board and moves its points in or out
// of the bank.
func (s *Session) toggleReveal(i int) bool {
	answers := s.answers()
	if i < 0 || i >= len(answers) || i >= len(s.revealed) || answers[i].Blank() {
		return false
	}

	s.revealed[i] = !s.revealed[i]
	if s.revealed[i] {
		s.bank += answers[i].Points
	} else {
		s.bank = max(0, s.bank-answers[i].Points)
	}

	return true
}

// revealSudden uncovers the tie-breaker answer, pays the team holding the
// turn and schedules fast money. It cannot be undone.
func (s *Session) revealSudden(i int) bool {
	answers := s.answers()
	if s.pending != nil || i < 0 || i >= len(answers) || i >= len(s.revealed) {
		return false
	}
	if answers[i].Blank() || s.revealed[i] {
		return false
	}

	s.revealed[i] = true
	s.credit(s.turn, answers[i].Points*s.suddenMultiplier())
	s.bank = 0
	s.schedule()

	return true
}

func (s *Session) addStrike() bool {
	if s.strikes >= maxStrikes {
		return false
	}

	s.strikes++
	if s.strikes == maxStrikes {
		s.phase = PhaseSteal
	}

	return true
}

func (s *Session) award(t Team) bool {
	if t == TeamNone || s.bank <= 0 {
		return false
	}

	s.credit(t, s.bank*s.activeMultiplier())
	s.bank = 0

	return true
}

func (s *Session) resolveSteal(success bool) bool {
	if success {
		return s.award(s.control.Other())
	}
	return s.award(s.control)
}

func (s *Session) nextRound() bool {
	if s.phase == PhaseSuddenDeath {
		s.enterFastMoney()
		return true
	}

	if s.roundIndex+1 >= len(s.content.Rounds) {
		if s.scoreA == s.scoreB && len(s.content.SuddenDeath) > 0 {
			s.suddenIndex = min(s.suddenIndex, len(s.content.SuddenDeath)-1)
			s.startSuddenDeath()
			return true
		}

		s.enterFastMoney()
		return true
	}

	s.roundIndex++
	s.startFaceoff()

	return true
}
