// Package mathx holds the small numeric helpers shared by the deck and the animation code.
package mathx

import "golang.org/x/exp/constraints"

// Clamp returns v limited to [lo, hi]. When lo > hi, lo wins.
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// StepDown moves v toward floor by step without passing it.
func StepDown[T constraints.Float](v, step, floor T) T {
	if v-step <= floor {
		return floor
	}
	return v - step
}

// StepUp moves v toward ceil by step without passing it.
func StepUp[T constraints.Float](v, step, ceil T) T {
	if v+step >= ceil {
		return ceil
	}
	return v + step
}
