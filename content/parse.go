/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package content

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidDocument is returned when the document is not valid JSON at all.
	ErrInvalidDocument = errors.New("content document is not valid JSON")

	// ErrFallback is returned when one or more lists were replaced by defaults.
	ErrFallback = errors.New("content lists replaced by defaults")
)

// Parse builds Content from a JSON document. Each list is validated on its own;
// a list that is missing, empty or holds a single malformed entry is replaced
// by its default as a whole. The returned Content is always usable, and the
// error only describes what fell back.
func Parse(data []byte) (Content, error) {
	if !gjson.ValidBytes(data) {
		return Default(), ErrInvalidDocument
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Default(), ErrInvalidDocument
	}

	var (
		c       Content
		reasons []string
	)

	rounds, err := parseRounds(doc.Get(ListRounds))
	if err != nil {
		rounds = defaultRounds()
		c.Fallbacks = append(c.Fallbacks, ListRounds)
		reasons = append(reasons, err.Error())
	}
	c.Rounds = rounds

	prompts, err := parsePrompts(doc.Get(ListFastMoney))
	if err != nil {
		prompts = defaultPrompts()
		c.Fallbacks = append(c.Fallbacks, ListFastMoney)
		reasons = append(reasons, err.Error())
	}
	c.FastMoneyPrompts = prompts

	sudden, err := parseSuddenDeath(doc.Get(ListSuddenDeath))
	if err != nil {
		sudden = defaultSuddenDeath()
		c.Fallbacks = append(c.Fallbacks, ListSuddenDeath)
		reasons = append(reasons, err.Error())
	}
	c.SuddenDeath = sudden

	if len(reasons) > 0 {
		return c, fmt.Errorf("%w: %s", ErrFallback, strings.Join(reasons, "; "))
	}

	return c, nil
}

func nonEmptyArray(name string, r gjson.Result) ([]gjson.Result, error) {
	if !r.Exists() {
		return nil, fmt.Errorf("%s: missing", name)
	}
	if !r.IsArray() {
		return nil, fmt.Errorf("%s: not an array", name)
	}

	items := r.Array()
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: empty", name)
	}

	return items, nil
}

func parseRounds(r gjson.Result) ([]Round, error) {
	items, err := nonEmptyArray(ListRounds, r)
	if err != nil {
		return nil, err
	}

	rounds := make([]Round, 0, len(items))
	for i, item := range items {
		round, err := parseRound(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", ListRounds, i, err)
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}

func parseRound(r gjson.Result) (Round, error) {
	if !r.IsObject() {
		return Round{}, errors.New("not an object")
	}

	question, err := text(r.Get("question"), "question", true)
	if err != nil {
		return Round{}, err
	}

	answersField := r.Get("answers")
	if !answersField.IsArray() {
		return Round{}, errors.New("answers: not an array")
	}

	raw := answersField.Array()
	if len(raw) > MaxAnswers {
		raw = raw[:MaxAnswers]
	}

	answers := make([]Answer, 0, len(raw))
	for i, a := range raw {
		answer, err := parseAnswer(a)
		if err != nil {
			return Round{}, fmt.Errorf("answers[%d]: %w", i, err)
		}
		answers = append(answers, answer)
	}

	multiplier, err := parseMultiplier(r.Get("multiplier"))
	if err != nil {
		return Round{}, err
	}

	return Round{
		Question:   question,
		Answers:    answers,
		Multiplier: multiplier,
	}, nil
}

func parseAnswer(r gjson.Result) (Answer, error) {
	if !r.IsObject() {
		return Answer{}, errors.New("not an object")
	}

	t, err := text(r.Get("text"), "text", false)
	if err != nil {
		return Answer{}, err
	}

	points := 0
	if p := r.Get("points"); p.Exists() && p.Type != gjson.Null {
		n, ok := wholeNumber(p)
		if !ok || n < 0 {
			return Answer{}, fmt.Errorf("points: want a non-negative integer, got %s", p.Raw)
		}
		points = n
	}

	return Answer{Text: t, Points: points}, nil
}

func parseMultiplier(r gjson.Result) (int, error) {
	if !r.Exists() || r.Type == gjson.Null {
		return 0, nil
	}

	n, ok := wholeNumber(r)
	if !ok || n < 1 {
		return 0, fmt.Errorf("multiplier: want a positive integer, got %s", r.Raw)
	}

	return n, nil
}

func parsePrompts(r gjson.Result) ([]string, error) {
	items, err := nonEmptyArray(ListFastMoney, r)
	if err != nil {
		return nil, err
	}

	if len(items) > MaxPrompts {
		items = items[:MaxPrompts]
	}

	prompts := make([]string, 0, len(items))
	for i, item := range items {
		p, err := text(item, "prompt", true)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", ListFastMoney, i, err)
		}
		prompts = append(prompts, p)
	}

	return prompts, nil
}

func parseSuddenDeath(r gjson.Result) ([]SuddenDeathItem, error) {
	items, err := nonEmptyArray(ListSuddenDeath, r)
	if err != nil {
		return nil, err
	}

	sudden := make([]SuddenDeathItem, 0, len(items))
	for i, item := range items {
		s, err := parseSuddenDeathItem(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", ListSuddenDeath, i, err)
		}
		sudden = append(sudden, s)
	}

	return sudden, nil
}

func parseSuddenDeathItem(r gjson.Result) (SuddenDeathItem, error) {
	if !r.IsObject() {
		return SuddenDeathItem{}, errors.New("not an object")
	}

	question, err := text(r.Get("question"), "question", true)
	if err != nil {
		return SuddenDeathItem{}, err
	}

	answer, err := parseAnswer(r.Get("answer"))
	if err != nil {
		return SuddenDeathItem{}, fmt.Errorf("answer: %w", err)
	}
	if answer.Blank() {
		return SuddenDeathItem{}, errors.New("answer: must be worth points")
	}

	multiplier, err := parseMultiplier(r.Get("multiplier"))
	if err != nil {
		return SuddenDeathItem{}, err
	}

	return SuddenDeathItem{
		Question:   question,
		Answer:     answer,
		Multiplier: multiplier,
	}, nil
}

// text extracts a string field. Absent optional fields yield "".
func text(r gjson.Result, name string, required bool) (string, error) {
	if !r.Exists() || r.Type == gjson.Null {
		if required {
			return "", fmt.Errorf("%s: missing", name)
		}
		return "", nil
	}

	if r.Type != gjson.String {
		return "", fmt.Errorf("%s: not a string", name)
	}

	s := strings.TrimSpace(r.String())
	if required && s == "" {
		return "", fmt.Errorf("%s: empty", name)
	}

	return s, nil
}

func wholeNumber(r gjson.Result) (int, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}

	if math.IsNaN(r.Num) || math.IsInf(r.Num, 0) || r.Num != math.Trunc(r.Num) {
		return 0, false
	}

	if r.Num > math.MaxInt32 || r.Num < math.MinInt32 {
		return 0, false
	}

	return int(r.Num), true
}
