/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package feud

import "github.com/Seednode/feudbox/content"

// DefaultSuddenMultiplier applies to sudden death items that do not set one.
const DefaultSuddenMultiplier = 3

// RoundMultiplier resolves the multiplier of the round at index. An explicit
// value wins; otherwise rounds go x1, x1, x2, x3, x3, ...
func RoundMultiplier(index int, r content.Round) int {
	if r.Multiplier > 0 {
		return r.Multiplier
	}

	switch {
	case index >= 3:
		return 3
	case index >= 2:
		return 2
	}

	return 1
}

// SuddenMultiplier resolves the multiplier of a sudden death item.
func SuddenMultiplier(item content.SuddenDeathItem) int {
	if item.Multiplier > 0 {
		return item.Multiplier
	}
	return DefaultSuddenMultiplier
}

// MultiplierLabel names a multiplier the way the show does.
func MultiplierLabel(m int) string {
	switch m {
	case 1:
		return "Single"
	case 2:
		return "Double"
	}
	return "Triple"
}
