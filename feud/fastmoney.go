/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import (
	"math"
	"strconv"
	"strings"

	"github.com/Seednode/feudbox/content"
)

// Players is the number of fast money contestants.
const Players = 2

// FastMoney is the bonus round scratchpad. It is scored apart from the teams.
type FastMoney struct {
	Points [Players][content.MaxPrompts]int
	Shown  [content.MaxPrompts]bool
}

// Total sums the points entered for player.
func (f *FastMoney) Total(player int) int {
	if player < 0 || player >= Players {
		return 0
	}

	total := 0
	for _, p := range f.Points[player] {
		total += p
	}
	return total
}

// SetPoints stores value, floored at zero, for player on slot. Slots at or
// beyond prompts are ignored.
func (f *FastMoney) SetPoints(player, slot, value, prompts int) bool {
	if player < 0 || player >= Players || !validSlot(slot, prompts) {
		return false
	}

	value = max(value, 0)
	if f.Points[player][slot] == value {
		return false
	}

	f.Points[player][slot] = value
	return true
}

// Toggle flips whether the prompt at slot is shown.
func (f *FastMoney) Toggle(slot, prompts int) bool {
	if !validSlot(slot, prompts) {
		return false
	}

	f.Shown[slot] = !f.Shown[slot]
	return true
}

// RevealNext shows the first hidden prompt in slot order.
func (f *FastMoney) RevealNext(prompts int) bool {
	for i := 0; i < min(prompts, content.MaxPrompts); i++ {
		if !f.Shown[i] {
			f.Shown[i] = true
			return true
		}
	}
	return false
}

// HideAll hides every prompt but keeps the points.
func (f *FastMoney) HideAll() {
	f.Shown = [content.MaxPrompts]bool{}
}

// Reset zeroes all points and hides every prompt.
func (f *FastMoney) Reset() {
	*f = FastMoney{}
}

func validSlot(slot, prompts int) bool {
	return slot >= 0 && slot < min(prompts, content.MaxPrompts)
}

// CoercePoints turns host input into a point value. Anything that is not a
// finite non-negative number counts as zero; fractions are truncated.
func CoercePoints(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}

	if f > math.MaxInt32 {
		return math.MaxInt32
	}

	return int(math.Trunc(f))
}
