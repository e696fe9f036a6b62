/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

// Tile is one answer slot as shown on the board.
type Tile struct {
	Slot     int    `json:"slot"`
	Text     string `json:"text,omitempty"`
	Points   int    `json:"points,omitempty"`
	Blank    bool   `json:"blank"`
	Revealed bool   `json:"revealed"`
}

// Prompt is one fast money row.
type Prompt struct {
	Slot   int          `json:"slot"`
	Text   string       `json:"text,omitempty"`
	Shown  bool         `json:"shown"`
	Points [Players]int `json:"points"`
}

// FastMoneyView is the fast money table with derived totals.
type FastMoneyView struct {
	Prompts []Prompt     `json:"prompts"`
	Totals  [Players]int `json:"totals"`
}

// Snapshot is a read-only copy of a session, including the values derived
// from it, for rendering.
type Snapshot struct {
	Phase           Phase         `json:"phase"`
	RoundIndex      int           `json:"roundIndex"`
	RoundCount      int           `json:"roundCount"`
	SuddenIndex     int           `json:"suddenIndex"`
	Question        string        `json:"question,omitempty"`
	Tiles           []Tile        `json:"tiles"`
	Strikes         int           `json:"strikes"`
	Bank            int           `json:"bank"`
	Multiplier      int           `json:"multiplier"`
	MultiplierLabel string        `json:"multiplierLabel"`
	Payout          int           `json:"payout"`
	TeamA           int           `json:"teamA"`
	TeamB           int           `json:"teamB"`
	FaceoffBuzz     Team          `json:"faceoffBuzz"`
	FaceoffTurn     Team          `json:"faceoffTurn"`
	Control         Team          `json:"control"`
	StealingTeam    Team          `json:"stealingTeam"`
	Highlight       Team          `json:"highlight"`
	Pending         bool          `json:"pending"`
	FastMoney       FastMoneyView `json:"fastMoney"`
	UsingDefaults   []string      `json:"usingDefaults,omitempty"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	multiplier := s.activeMultiplier()

	snap := Snapshot{
		Phase:           s.phase,
		RoundIndex:      s.roundIndex,
		RoundCount:      len(s.content.Rounds),
		SuddenIndex:     s.suddenIndex,
		Strikes:         s.strikes,
		Bank:            s.bank,
		Multiplier:      multiplier,
		MultiplierLabel: MultiplierLabel(multiplier),
		Payout:          s.bank * multiplier,
		TeamA:           s.scoreA,
		TeamB:           s.scoreB,
		FaceoffBuzz:     s.buzz,
		FaceoffTurn:     s.turn,
		Control:         s.control,
		StealingTeam:    s.control.Other(),
		Highlight:       s.highlight(),
		Pending:         s.pending != nil,
		UsingDefaults:   append([]string(nil), s.content.Fallbacks...),
	}

	if s.phase == PhaseSuddenDeath {
		item, _ := s.suddenItem()
		snap.Question = item.Question
	} else {
		snap.Question = s.currentRound().Question
	}

	if s.phase != PhaseFastMoney {
		for i, a := range s.answers() {
			snap.Tiles = append(snap.Tiles, Tile{
				Slot:     i,
				Text:     a.Text,
				Points:   a.Points,
				Blank:    a.Blank(),
				Revealed: i < len(s.revealed) && s.revealed[i],
			})
		}
	}

	prompts := s.content.FastMoneyPrompts[:s.promptCount()]
	snap.FastMoney.Prompts = make([]Prompt, 0, len(prompts))
	for i, p := range prompts {
		row := Prompt{Slot: i, Text: p, Shown: s.fast.Shown[i]}
		for player := 0; player < Players; player++ {
			row.Points[player] = s.fast.Points[player][i]
		}
		snap.FastMoney.Prompts = append(snap.FastMoney.Prompts, row)
	}
	for player := 0; player < Players; player++ {
		snap.FastMoney.Totals[player] = s.fast.Total(player)
	}

	return snap
}

// highlight picks the team whose turn it is to answer.
func (s *Session) highlight() Team {
	switch s.phase {
	case PhaseRound:
		return s.control
	case PhaseFaceoff, PhaseSuddenDeath:
		return s.turn
	case PhaseSteal:
		return s.control.Other()
	}
	return TeamNone
}

// Redacted strips what the audience must not see yet: unrevealed answers,
// the question while it is being read aloud, and hidden fast money prompts.
func (snap Snapshot) Redacted() Snapshot {
	out := snap

	if snap.Phase.buzzable() {
		out.Question = ""
	}

	out.Tiles = make([]Tile, len(snap.Tiles))
	for i, t := range snap.Tiles {
		if !t.Revealed {
			t.Text = ""
			t.Points = 0
		}
		out.Tiles[i] = t
	}

	out.FastMoney.Prompts = make([]Prompt, len(snap.FastMoney.Prompts))
	for i, p := range snap.FastMoney.Prompts {
		if !p.Shown {
			p.Text = ""
		}
		out.FastMoney.Prompts[i] = p
	}

	out.UsingDefaults = nil

	return out
}
