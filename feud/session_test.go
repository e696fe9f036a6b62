/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import (
	"testing"
	"time"

	"github.com/Seednode/feudbox/content"
)

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (fs *fakeScheduler) schedule(d time.Duration, f func()) Timer {
	t := &fakeTimer{delay: d, f: f}
	fs.timers = append(fs.timers, t)
	return t
}

// fire runs every timer that is still armed.
func (fs *fakeScheduler) fire() {
	for _, t := range fs.timers {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
	}
}

func testContent() content.Content {
	return content.Content{
		Rounds: []content.Round{
			{
				Question: "Name something you bring to a birthday party:",
				Answers: []content.Answer{
					{Text: "Gift", Points: 35},
					{Text: "Cake", Points: 26},
				},
			},
			{
				Question: "Name a reason a video shoot runs late:",
				Answers: []content.Answer{
					{Text: "Technical issues", Points: 29},
					{Text: "Talent arrives late", Points: 24},
				},
			},
			{
				Question: "Name a place you shouldn't check your phone:",
				Answers: []content.Answer{
					{Text: "Driving", Points: 40},
					{Text: "Movie theater", Points: 18},
				},
			},
		},
		FastMoneyPrompts: []string{"one", "two", "three", "four", "five"},
		SuddenDeath: []content.SuddenDeathItem{
			{
				Question:   "Name the most important meal of the day",
				Answer:     content.Answer{Text: "Breakfast", Points: 78},
				Multiplier: 3,
			},
		},
	}
}

func newTestSession(t *testing.T, c content.Content) (*Session, *fakeScheduler) {
	t.Helper()

	fs := &fakeScheduler{}
	return New(c, WithScheduler(fs.schedule)), fs
}

// startRound buzzes team in and hands it control of the current round.
func startRound(t *testing.T, s *Session, team Team) {
	t.Helper()

	if !s.Buzz(team) {
		t.Fatalf("Buzz(%v) = false, want true", team)
	}
	if !s.BeginRound(team) {
		t.Fatalf("BeginRound(%v) = false, want true", team)
	}
}

func bankOfRevealed(snap Snapshot) int {
	sum := 0
	for _, tile := range snap.Tiles {
		if tile.Revealed && !tile.Blank {
			sum += tile.Points
		}
	}
	return sum
}

func TestNewStartsAtFaceoff(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	snap := s.Snapshot()

	if snap.Phase != PhaseFaceoff {
		t.Fatalf("phase = %v, want %v", snap.Phase, PhaseFaceoff)
	}
	if len(snap.Tiles) != content.MaxAnswers {
		t.Fatalf("tiles = %d, want %d", len(snap.Tiles), content.MaxAnswers)
	}
	if snap.RoundCount != 3 {
		t.Fatalf("round count = %d, want 3", snap.RoundCount)
	}
}

func TestNewWithoutRoundsUsesDefaults(t *testing.T) {
	s, _ := newTestSession(t, content.Content{})

	if got := s.Snapshot().RoundCount; got != len(content.Default().Rounds) {
		t.Fatalf("round count = %d, want %d", got, len(content.Default().Rounds))
	}
}

func TestRevealAndAward(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	startRound(t, s, TeamA)

	s.ToggleReveal(0)
	if got := s.Bank(); got != 35 {
		t.Fatalf("bank after slot 0 = %d, want 35", got)
	}

	s.ToggleReveal(1)
	if got := s.Bank(); got != 61 {
		t.Fatalf("bank after slot 1 = %d, want 61", got)
	}

	if !s.Award(TeamA) {
		t.Fatal("Award(A) = false, want true")
	}

	a, b := s.Scores()
	if a != 61 || b != 0 {
		t.Fatalf("scores = %d/%d, want 61/0", a, b)
	}
	if got := s.Bank(); got != 0 {
		t.Fatalf("bank after award = %d, want 0", got)
	}

	if s.Award(TeamA) {
		t.Fatal("second Award(A) = true, want false")
	}
	if a2, _ := s.Scores(); a2 != 61 {
		t.Fatalf("score after empty award = %d, want 61", a2)
	}
	if s.Phase() != PhaseRound {
		t.Fatalf("phase after award = %v, want %v", s.Phase(), PhaseRound)
	}
}

func TestToggleRevealIgnoresBlankAndOutOfRange(t *testing.T) {
	s, _ := newTestSession(t, testContent())

	for _, slot := range []int{-1, 2, 7, 8} {
		if s.ToggleReveal(slot) {
			t.Errorf("ToggleReveal(%d) = true, want false", slot)
		}
	}

	if got := s.Bank(); got != 0 {
		t.Fatalf("bank = %d, want 0", got)
	}
}

func TestToggleRevealHideReturnsPoints(t *testing.T) {
	s, _ := newTestSession(t, testContent())

	s.ToggleReveal(0)
	s.ToggleReveal(0)

	snap := s.Snapshot()
	if snap.Bank != 0 {
		t.Fatalf("bank = %d, want 0", snap.Bank)
	}
	if snap.Tiles[0].Revealed {
		t.Fatal("slot 0 still revealed after second toggle")
	}
}

func TestBankTracksRevealedTiles(t *testing.T) {
	s, _ := newTestSession(t, content.Default())
	startRound(t, s, TeamB)

	for _, slot := range []int{0, 3, 5, 3, 7, 1, 0, 6, 2, 5} {
		s.ToggleReveal(slot)

		snap := s.Snapshot()
		if want := bankOfRevealed(snap); snap.Bank != want {
			t.Fatalf("after toggling %d bank = %d, want %d", slot, snap.Bank, want)
		}
	}
}

func TestBuzzLockout(t *testing.T) {
	s, _ := newTestSession(t, testContent())

	if !s.Buzz(TeamB) {
		t.Fatal("first Buzz(B) = false, want true")
	}
	if s.Buzz(TeamA) {
		t.Fatal("Buzz(A) after lock = true, want false")
	}
	if s.Buzz(TeamB) {
		t.Fatal("repeat Buzz(B) = true, want false")
	}

	snap := s.Snapshot()
	if snap.FaceoffBuzz != TeamB || snap.FaceoffTurn != TeamB {
		t.Fatalf("buzz/turn = %v/%v, want B/B", snap.FaceoffBuzz, snap.FaceoffTurn)
	}

	if !s.PassFaceoff() {
		t.Fatal("PassFaceoff() = false, want true")
	}

	snap = s.Snapshot()
	if snap.FaceoffBuzz != TeamB || snap.FaceoffTurn != TeamA {
		t.Fatalf("after pass buzz/turn = %v/%v, want B/A", snap.FaceoffBuzz, snap.FaceoffTurn)
	}

	s.StartFaceoff()

	snap = s.Snapshot()
	if snap.FaceoffBuzz != TeamNone || snap.FaceoffTurn != TeamNone {
		t.Fatalf("after reset buzz/turn = %v/%v, want none", snap.FaceoffBuzz, snap.FaceoffTurn)
	}
	if !s.Buzz(TeamA) {
		t.Fatal("Buzz(A) after reset = false, want true")
	}
}

func TestFaceoffNeedsBuzz(t *testing.T) {
	s, _ := newTestSession(t, testContent())

	if s.PassFaceoff() {
		t.Error("PassFaceoff() before buzz = true, want false")
	}
	if s.BeginRound(TeamA) {
		t.Error("BeginRound(A) before buzz = true, want false")
	}
	if s.Buzz(TeamNone) {
		t.Error("Buzz(none) = true, want false")
	}
	if s.Phase() != PhaseFaceoff {
		t.Fatalf("phase = %v, want %v", s.Phase(), PhaseFaceoff)
	}
}

func TestStrikesOpenSteal(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	startRound(t, s, TeamA)
	s.ToggleReveal(0)

	for i := 1; i <= 2; i++ {
		s.AddStrike()
		if s.Phase() != PhaseRound {
			t.Fatalf("phase after strike %d = %v, want %v", i, s.Phase(), PhaseRound)
		}
	}

	if !s.AddStrike() {
		t.Fatal("third AddStrike() = false, want true")
	}

	snap := s.Snapshot()
	if snap.Phase != PhaseSteal {
		t.Fatalf("phase after third strike = %v, want %v", snap.Phase, PhaseSteal)
	}
	if snap.StealingTeam != TeamB {
		t.Fatalf("stealing team = %v, want B", snap.StealingTeam)
	}

	if s.AddStrike() {
		t.Fatal("fourth AddStrike() = true, want false")
	}
	if got := s.Snapshot().Strikes; got != 3 {
		t.Fatalf("strikes = %d, want 3", got)
	}

	if !s.ResolveSteal(true) {
		t.Fatal("ResolveSteal(true) = false, want true")
	}

	a, b := s.Scores()
	if a != 0 || b != 35 {
		t.Fatalf("scores = %d/%d, want 0/35", a, b)
	}
	if s.Phase() != PhaseSteal {
		t.Fatalf("phase after steal = %v, want %v", s.Phase(), PhaseSteal)
	}
}

func TestFailedStealPaysControl(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	s.NextRound()
	s.NextRound()
	startRound(t, s, TeamB)
	s.ToggleReveal(0)
	s.ToggleReveal(1)

	for i := 0; i < 3; i++ {
		s.AddStrike()
	}

	s.ResolveSteal(false)

	a, b := s.Scores()
	if a != 0 || b != (40+18)*2 {
		t.Fatalf("scores = %d/%d, want 0/%d", a, b, (40+18)*2)
	}
}

func TestWrongDependsOnPhase(t *testing.T) {
	s, _ := newTestSession(t, testContent())

	if s.Wrong() {
		t.Fatal("Wrong() before buzz = true, want false")
	}

	s.Buzz(TeamA)
	s.Wrong()

	snap := s.Snapshot()
	if snap.FaceoffTurn != TeamB || snap.Strikes != 0 {
		t.Fatalf("faceoff Wrong(): turn = %v strikes = %d, want B and 0", snap.FaceoffTurn, snap.Strikes)
	}

	s.BeginRound(TeamB)
	s.Wrong()

	if got := s.Snapshot().Strikes; got != 1 {
		t.Fatalf("round Wrong(): strikes = %d, want 1", got)
	}
}

func TestRoundMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		explicit int
		want     int
	}{
		{name: "first round", index: 0, want: 1},
		{name: "second round", index: 1, want: 1},
		{name: "third round", index: 2, want: 2},
		{name: "fourth round", index: 3, want: 3},
		{name: "tenth round", index: 9, want: 3},
		{name: "explicit wins early", index: 0, explicit: 3, want: 3},
		{name: "explicit wins late", index: 5, explicit: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundMultiplier(tt.index, content.Round{Multiplier: tt.explicit})
			if got != tt.want {
				t.Fatalf("RoundMultiplier(%d) = %d, want %d", tt.index, got, tt.want)
			}
		})
	}
}

func TestSuddenMultiplier(t *testing.T) {
	if got := SuddenMultiplier(content.SuddenDeathItem{}); got != 3 {
		t.Fatalf("default = %d, want 3", got)
	}
	if got := SuddenMultiplier(content.SuddenDeathItem{Multiplier: 5}); got != 5 {
		t.Fatalf("explicit = %d, want 5", got)
	}
}

func TestMultiplierLabel(t *testing.T) {
	for m, want := range map[int]string{1: "Single", 2: "Double", 3: "Triple"} {
		if got := MultiplierLabel(m); got != want {
			t.Errorf("MultiplierLabel(%d) = %q, want %q", m, got, want)
		}
	}
}

func TestNextRoundAdvances(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	startRound(t, s, TeamA)
	s.ToggleReveal(0)
	s.AddStrike()

	s.NextRound()

	snap := s.Snapshot()
	if snap.Phase != PhaseFaceoff || snap.RoundIndex != 1 {
		t.Fatalf("phase/round = %v/%d, want faceoff/1", snap.Phase, snap.RoundIndex)
	}
	if snap.Bank != 0 || snap.Strikes != 0 || snap.Control != TeamNone || snap.FaceoffBuzz != TeamNone {
		t.Fatalf("board not reset: %+v", snap)
	}
	for _, tile := range snap.Tiles {
		if tile.Revealed {
			t.Fatalf("tile %d still revealed", tile.Slot)
		}
	}
	if snap.Question != "Name a reason a video shoot runs late:" {
		t.Fatalf("question = %q", snap.Question)
	}
}

func TestNextRoundAtLastRound(t *testing.T) {
	withoutSudden := testContent()
	withoutSudden.SuddenDeath = nil

	tests := []struct {
		name    string
		content content.Content
		scoreA  bool
		want    Phase
	}{
		{name: "tied goes to sudden death", content: testContent(), want: PhaseSuddenDeath},
		{name: "untied goes to fast money", content: testContent(), scoreA: true, want: PhaseFastMoney},
		{name: "tied without sudden death items", content: withoutSudden, want: PhaseFastMoney},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, tt.content)

			if tt.scoreA {
				startRound(t, s, TeamA)
				s.ToggleReveal(0)
				s.Award(TeamA)
			}

			s.NextRound()
			s.NextRound()
			if got := s.Snapshot().RoundIndex; got != 2 {
				t.Fatalf("round index = %d, want 2", got)
			}

			s.NextRound()

			snap := s.Snapshot()
			if snap.Phase != tt.want {
				t.Fatalf("phase = %v, want %v", snap.Phase, tt.want)
			}
			if snap.RoundIndex != 2 {
				t.Fatalf("round index = %d, want 2", snap.RoundIndex)
			}
			if tt.want == PhaseSuddenDeath && len(snap.Tiles) != 1 {
				t.Fatalf("sudden death tiles = %d, want 1", len(snap.Tiles))
			}
		})
	}
}

// toSuddenDeath plays through every round with no points scored.
func toSuddenDeath(t *testing.T, s *Session) {
	t.Helper()

	for i := 0; i < 3; i++ {
		s.NextRound()
	}
	if s.Phase() != PhaseSuddenDeath {
		t.Fatalf("phase = %v, want %v", s.Phase(), PhaseSuddenDeath)
	}
}

func TestSuddenDeathWin(t *testing.T) {
	s, fs := newTestSession(t, testContent())
	toSuddenDeath(t, s)

	if !s.Buzz(TeamB) {
		t.Fatal("Buzz(B) = false, want true")
	}
	if !s.ToggleReveal(0) {
		t.Fatal("ToggleReveal(0) = false, want true")
	}

	a, b := s.Scores()
	if a != 0 || b != 234 {
		t.Fatalf("scores = %d/%d, want 0/234", a, b)
	}

	snap := s.Snapshot()
	if snap.Phase != PhaseSuddenDeath || !snap.Pending {
		t.Fatalf("phase/pending = %v/%v, want sudden/true before the delay", snap.Phase, snap.Pending)
	}
	if snap.Bank != 0 {
		t.Fatalf("bank = %d, want 0", snap.Bank)
	}

	if len(fs.timers) != 1 || fs.timers[0].delay != DefaultSuddenDelay {
		t.Fatalf("scheduled timers = %d, want one of %v", len(fs.timers), DefaultSuddenDelay)
	}

	if s.ToggleReveal(0) || s.Buzz(TeamA) || s.PassFaceoff() || s.StartSuddenDeath() {
		t.Fatal("sudden death board accepted input while the transition was pending")
	}

	fs.fire()

	snap = s.Snapshot()
	if snap.Phase != PhaseFastMoney || snap.Pending {
		t.Fatalf("phase/pending = %v/%v, want fast/false after the delay", snap.Phase, snap.Pending)
	}
	if snap.TeamB != 234 {
		t.Fatalf("team B = %d, want 234", snap.TeamB)
	}
}

func TestSuddenDeathRevealWithoutBuzzCreditsNobody(t *testing.T) {
	s, fs := newTestSession(t, testContent())
	toSuddenDeath(t, s)

	if !s.ToggleReveal(0) {
		t.Fatal("ToggleReveal(0) without a buzz = false, want true")
	}

	if a, b := s.Scores(); a != 0 || b != 0 {
		t.Fatalf("scores = %d/%d, want 0/0 when no team holds the turn", a, b)
	}

	snap := s.Snapshot()
	if !snap.Tiles[0].Revealed || !snap.Pending {
		t.Fatalf("revealed/pending = %v/%v, want true/true", snap.Tiles[0].Revealed, snap.Pending)
	}

	fs.fire()

	if s.Phase() != PhaseFastMoney {
		t.Fatalf("phase = %v, want %v", s.Phase(), PhaseFastMoney)
	}
}

func TestSuddenDeathTransitionCancelledByRestart(t *testing.T) {
	s, fs := newTestSession(t, testContent())
	toSuddenDeath(t, s)
	s.Buzz(TeamA)
	s.ToggleReveal(0)

	pending := fs.timers[0]

	s.Restart()

	if !pending.stopped {
		t.Fatal("pending transition was not stopped by Restart")
	}

	// A callback that raced past Stop must not clobber the new state.
	pending.f()

	snap := s.Snapshot()
	if snap.Phase != PhaseFaceoff || snap.TeamA != 0 {
		t.Fatalf("phase/teamA = %v/%d, want faceoff/0", snap.Phase, snap.TeamA)
	}
}

func TestSuddenDeathNextRoundSkipsDelay(t *testing.T) {
	s, fs := newTestSession(t, testContent())
	toSuddenDeath(t, s)
	s.Buzz(TeamA)
	s.ToggleReveal(0)

	if !s.NextRound() {
		t.Fatal("NextRound() while pending = false, want true")
	}
	if s.Phase() != PhaseFastMoney {
		t.Fatalf("phase = %v, want %v", s.Phase(), PhaseFastMoney)
	}
	if !fs.timers[0].stopped {
		t.Fatal("pending transition was not stopped")
	}
}

func TestSuddenDeathWithoutDelay(t *testing.T) {
	s := New(testContent(), WithSuddenDelay(0))
	toSuddenDeath(t, s)
	s.Buzz(TeamA)
	s.ToggleReveal(0)

	if s.Phase() != PhaseFastMoney {
		t.Fatalf("phase = %v, want %v", s.Phase(), PhaseFastMoney)
	}
	if a, _ := s.Scores(); a != 234 {
		t.Fatalf("team A = %d, want 234", a)
	}
}

func TestSuddenDeathNotifies(t *testing.T) {
	fs := &fakeScheduler{}
	notified := 0
	s := New(testContent(), WithScheduler(fs.schedule), WithNotify(func() { notified++ }))
	toSuddenDeath(t, s)
	s.Buzz(TeamA)
	s.ToggleReveal(0)

	fs.fire()

	if notified != 1 {
		t.Fatalf("notified %d times, want 1", notified)
	}
}

func TestSuddenDeathRealTimer(t *testing.T) {
	s := New(testContent(), WithSuddenDelay(10*time.Millisecond))
	toSuddenDeath(t, s)
	s.Buzz(TeamB)
	s.ToggleReveal(0)

	deadline := time.Now().Add(2 * time.Second)
	for s.Phase() != PhaseFastMoney {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for fast money")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRestartClearsEverything(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	startRound(t, s, TeamA)
	s.ToggleReveal(0)
	s.Award(TeamA)
	s.NextRound()
	s.NextRound()
	s.NextRound()

	if s.Phase() != PhaseFastMoney {
		t.Fatalf("phase = %v, want %v", s.Phase(), PhaseFastMoney)
	}
	s.SetPoints(0, 0, 40)
	s.ToggleShow(1)

	s.Restart()

	snap := s.Snapshot()
	if snap.Phase != PhaseFaceoff || snap.RoundIndex != 0 || snap.SuddenIndex != 0 {
		t.Fatalf("phase/round/sudden = %v/%d/%d, want faceoff/0/0", snap.Phase, snap.RoundIndex, snap.SuddenIndex)
	}
	if snap.TeamA != 0 || snap.TeamB != 0 || snap.Bank != 0 || snap.Strikes != 0 {
		t.Fatalf("scores or board not cleared: %+v", snap)
	}
	if snap.FaceoffBuzz != TeamNone || snap.FaceoffTurn != TeamNone || snap.Control != TeamNone {
		t.Fatalf("faceoff state not cleared: %+v", snap)
	}
	if snap.FastMoney.Totals != [Players]int{} {
		t.Fatalf("fast money totals = %v, want zero", snap.FastMoney.Totals)
	}
	for _, p := range snap.FastMoney.Prompts {
		if p.Shown {
			t.Fatalf("prompt %d still shown", p.Slot)
		}
	}
}

func TestBackToRounds(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	toSuddenDeath(t, s)
	s.NextRound()

	if !s.BackToRounds() {
		t.Fatal("BackToRounds() = false, want true")
	}

	snap := s.Snapshot()
	if snap.Phase != PhaseFaceoff || len(snap.Tiles) != content.MaxAnswers {
		t.Fatalf("phase/tiles = %v/%d, want faceoff/%d", snap.Phase, len(snap.Tiles), content.MaxAnswers)
	}

	if s.BackToRounds() {
		t.Fatal("BackToRounds() outside fast money = true, want false")
	}
}

func TestLoadContentRestarts(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	startRound(t, s, TeamA)
	s.ToggleReveal(0)
	s.Award(TeamA)

	c := content.Default()
	s.LoadContent(c)

	snap := s.Snapshot()
	if snap.TeamA != 0 || snap.Phase != PhaseFaceoff {
		t.Fatalf("teamA/phase = %d/%v, want 0/faceoff", snap.TeamA, snap.Phase)
	}
	if snap.Question != c.Rounds[0].Question {
		t.Fatalf("question = %q, want %q", snap.Question, c.Rounds[0].Question)
	}
	if len(snap.UsingDefaults) != 3 {
		t.Fatalf("using defaults = %v, want all three lists", snap.UsingDefaults)
	}
}

func TestPayoutPreview(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	s.NextRound()
	s.NextRound()
	s.ToggleReveal(0)

	snap := s.Snapshot()
	if snap.Multiplier != 2 || snap.MultiplierLabel != "Double" || snap.Payout != 80 {
		t.Fatalf("multiplier/label/payout = %d/%q/%d, want 2/Double/80", snap.Multiplier, snap.MultiplierLabel, snap.Payout)
	}
}

func TestRedacted(t *testing.T) {
	s, _ := newTestSession(t, testContent())
	s.ToggleReveal(1)

	board := s.Snapshot().Redacted()

	if board.Question != "" {
		t.Fatalf("question shown during faceoff: %q", board.Question)
	}
	if board.Tiles[0].Text != "" || board.Tiles[0].Points != 0 {
		t.Fatalf("hidden tile leaked: %+v", board.Tiles[0])
	}
	if board.Tiles[1].Text != "Cake" || board.Tiles[1].Points != 26 {
		t.Fatalf("revealed tile = %+v, want Cake/26", board.Tiles[1])
	}

	full := s.Snapshot()
	if full.Tiles[0].Text != "Gift" {
		t.Fatalf("host snapshot modified by redaction: %+v", full.Tiles[0])
	}

	s.Buzz(TeamA)
	s.BeginRound(TeamA)
	if got := s.Snapshot().Redacted().Question; got == "" {
		t.Fatal("question hidden during the main round")
	}
}
