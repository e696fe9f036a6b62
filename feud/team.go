/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import (
	"fmt"
	"strings"
)

// Team identifies one side of the game. The zero value means no team.
type Team uint8

const (
	TeamNone Team = iota
	TeamA
	TeamB
)

// ParseTeam accepts "A" or "B" in either case.
func ParseTeam(s string) (Team, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return TeamA, true
	case "B":
		return TeamB, true
	}
	return TeamNone, false
}

// Other returns the opposing team, or TeamNone for TeamNone.
func (t Team) Other() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	}
	return ""
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = TeamNone
		return nil
	}

	team, ok := ParseTeam(string(b))
	if !ok {
		return fmt.Errorf("unknown team %q", b)
	}
	*t = team

	return nil
}

// Phase is the stage of play the session is in.
type Phase uint8

const (
	PhaseFaceoff Phase = iota
	PhaseRound
	PhaseSteal
	PhaseSuddenDeath
	PhaseFastMoney
)

var phaseNames = [...]string{
	PhaseFaceoff:     "faceoff",
	PhaseRound:       "round",
	PhaseSteal:       "steal",
	PhaseSuddenDeath: "sudden",
	PhaseFastMoney:   "fast",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", p)
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// onBoard reports whether the phase shows a normal eight-tile board.
func (p Phase) onBoard() bool {
	return p == PhaseFaceoff || p == PhaseRound || p == PhaseSteal
}

// buzzable reports whether teams race to buzz in during the phase.
func (p Phase) buzzable() bool {
	return p == PhaseFaceoff || p == PhaseSuddenDeath
}
