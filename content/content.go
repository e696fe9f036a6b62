/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package content holds the questions, answers and prompts a feud session is
// played with, along with the built-in set used when no document is available.
package content

const (
	// MaxAnswers is the number of tiles on a round board.
	MaxAnswers = 8

	// MaxPrompts is the number of fast money prompts in play.
	MaxPrompts = 5
)

// Names of the independently validated lists, as they appear in the document.
const (
	ListRounds      = "rounds"
	ListFastMoney   = "fastMoneyPrompts"
	ListSuddenDeath = "suddenDeath"
)

// Answer is one tile on the board. An answer worth zero points is a blank slot.
type Answer struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Blank reports whether the answer is an empty, unrevealable slot.
func (a Answer) Blank() bool {
	return a.Points <= 0
}

// Round is a single survey question. A zero Multiplier means none was given
// and the position of the round decides it.
type Round struct {
	Question   string   `json:"question"`
	Answers    []Answer `json:"answers"`
	Multiplier int      `json:"multiplier,omitempty"`
}

// Slots returns the round's answers padded with blanks to MaxAnswers.
func (r Round) Slots() []Answer {
	slots := make([]Answer, MaxAnswers)
	copy(slots, r.Answers)
	return slots
}

// SuddenDeathItem is a tie-breaker question with exactly one answer.
type SuddenDeathItem struct {
	Question   string `json:"question"`
	Answer     Answer `json:"answer"`
	Multiplier int    `json:"multiplier,omitempty"`
}

// Content is everything a session needs to run. It is not modified once built;
// reloading produces a new value.
type Content struct {
	Rounds           []Round           `json:"rounds"`
	FastMoneyPrompts []string          `json:"fastMoneyPrompts"`
	SuddenDeath      []SuddenDeathItem `json:"suddenDeath"`

	// Fallbacks lists the names of the lists that were replaced by defaults.
	Fallbacks []string `json:"-"`
}

// UsingDefaults reports whether any list came from the built-in set.
func (c Content) UsingDefaults() bool {
	return len(c.Fallbacks) > 0
}

// Default returns the built-in content.
func Default() Content {
	return Content{
		Rounds:           defaultRounds(),
		FastMoneyPrompts: defaultPrompts(),
		SuddenDeath:      defaultSuddenDeath(),
		Fallbacks:        []string{ListRounds, ListFastMoney, ListSuddenDeath},
	}
}

func defaultRounds() []Round {
	return []Round{
		{
			Question: "Name something you bring to a birthday party:",
			Answers: []Answer{
				{Text: "Gift", Points: 35},
				{Text: "Cake", Points: 26},
				{Text: "Balloons", Points: 12},
				{Text: "Drinks", Points: 9},
				{Text: "Snacks/Chips", Points: 7},
				{Text: "Candles", Points: 5},
				{Text: "Plates/Cups", Points: 3},
				{Text: "Games", Points: 3},
			},
			Multiplier: 1,
		},
		{
			Question: "Name a reason a video shoot runs late:",
			Answers: []Answer{
				{Text: "Technical issues", Points: 29},
				{Text: "Talent arrives late", Points: 24},
				{Text: "Last-minute script changes", Points: 17},
				{Text: "Lighting setup", Points: 12},
				{Text: "Audio problems", Points: 8},
				{Text: "Location issues", Points: 6},
				{Text: "Wardrobe/makeup", Points: 3},
				{Text: "Weather", Points: 1},
			},
			Multiplier: 1,
		},
		{
			Question: "Name a place you shouldn't check your phone:",
			Answers: []Answer{
				{Text: "Driving", Points: 40},
				{Text: "Movie theater", Points: 18},
				{Text: "Dinner date", Points: 15},
				{Text: "Class/Meeting", Points: 12},
				{Text: "Church/Service", Points: 8},
				{Text: "Gym", Points: 4},
				{Text: "Bathroom", Points: 2},
				{Text: "Wedding", Points: 1},
			},
			Multiplier: 2,
		},
	}
}

func defaultPrompts() []string {
	return []string{
		"A breakfast food you can eat on the go",
		"Something people lose all the time",
		"A reason you might be late",
		"A chore kids get paid to do",
		"A fruit you can peel",
	}
}

func defaultSuddenDeath() []SuddenDeathItem {
	return []SuddenDeathItem{
		{
			Question:   "Name the most important meal of the day",
			Answer:     Answer{Text: "Breakfast", Points: 78},
			Multiplier: 3,
		},
	}
}
