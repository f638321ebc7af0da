// Package quiz generates multiple-choice questions for curriculum cards,
// blending card difficulty with user progress.
package quiz

import "math"

const (
	LevelMin = 1
	LevelMax = 100
)

// Blend weights for the quiz difficulty. Treated as given constants.
const (
	baseWeight = 0.75
	userWeight = 0.25
)

// ClampLevel clamps n into the valid level range [LevelMin, LevelMax].
func ClampLevel(n int) int {
	if n < LevelMin {
		return LevelMin
	}
	if n > LevelMax {
		return LevelMax
	}
	return n
}

// Level computes the quiz difficulty as a weighted blend of card base level
// and user character level, clamped to the valid range. The blend lands on
// an exact half for many inputs; halves round to the nearest even level.
func Level(baseLevel, charLevel int) int {
	weighted := int(math.RoundToEven(float64(baseLevel)*baseWeight + float64(charLevel)*userWeight))
	return ClampLevel(weighted)
}
