/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import "github.com/Seednode/feudbox/content"

// Event is an operation requested by the host. Each phase decides which
// events it accepts; the rest are ignored.
type Event interface {
	event()
}

type (
	// StartFaceoff clears the board for a fresh faceoff on the current round.
	StartFaceoff struct{}

	// StartSuddenDeath clears the board for a one-answer tie-breaker.
	StartSuddenDeath struct{}

	// Buzz records the first team to buzz in. Later buzzes are locked out.
	Buzz struct{ Team Team }

	// Pass hands the faceoff answer to the other team.
	Pass struct{}

	// Strike marks a wrong answer during the main round.
	Strike struct{}

	// Wrong is the shared wrong-answer control: Pass during a faceoff or
	// sudden death, Strike during the main round.
	Wrong struct{}

	// BeginRound gives Team control of the board after a faceoff.
	BeginRound struct{ Team Team }

	// Reveal toggles the tile at Slot.
	Reveal struct{ Slot int }

	// Award pays the bank, times the active multiplier, to Team.
	Award struct{ Team Team }

	// ResolveSteal pays the bank to the stealing team on Success, otherwise
	// to the team in control.
	ResolveSteal struct{ Success bool }

	// NextRound advances to the next faceoff, sudden death or fast money.
	NextRound struct{}

	// Restart returns everything to the start of the session.
	Restart struct{}

	// BackToRounds leaves fast money for a faceoff on the current round.
	BackToRounds struct{}

	// SetPoints records Value for Player (0 or 1) on fast money prompt Slot.
	SetPoints struct{ Player, Slot, Value int }

	// ToggleShow shows or hides fast money prompt Slot.
	ToggleShow struct{ Slot int }

	// RevealNextHidden shows the first hidden fast money prompt.
	RevealNextHidden struct{}

	// ResetFastMoney zeroes all fast money points and hides every prompt.
	ResetFastMoney struct{}

	// LoadContent swaps the session's content and restarts it.
	LoadContent struct{ Content content.Content }
)

func (StartFaceoff) event()     {}
func (StartSuddenDeath) event() {}
func (Buzz) event()             {}
func (Pass) event()             {}
func (Strike) event()           {}
func (Wrong) event()            {}
func (BeginRound) event()       {}
func (Reveal) event()           {}
func (Award) event()            {}
func (ResolveSteal) event()     {}
func (NextRound) event()        {}
func (Restart) event()          {}
func (BackToRounds) event()     {}
func (SetPoints) event()        {}
func (ToggleShow) event()       {}
func (RevealNextHidden) event() {}
func (ResetFastMoney) event()   {}
func (LoadContent) event()      {}
