package summarize

// shortInputThreshold is the input length below which the fixed target
// window applies.
const shortInputThreshold = 500

// Bounds is the target summary length window, in runes.
type Bounds struct {
	Min int
	Max int
}

// TargetBounds computes the target summary length for an input of n runes.
// Inputs under 500 runes get a fixed 150-250 window; longer inputs get
// a window between one fifth and one third of the input length, with the
// lower bound never dropping below 150.
func TargetBounds(n int) Bounds {
	if n < shortInputThreshold {
		return Bounds{Min: 150, Max: 250}
	}
	min := n / 5
	if min < 150 {
		min = 150
	}
	return Bounds{Min: min, Max: n / 3}
}

// Allowed reports whether a summary of the given rune length falls within
// the window widened by the deviation fraction on both sides.
func (b Bounds) Allowed(length int, deviation float64) bool {
	minAllowed := float64(b.Min) * (1 - deviation)
	maxAllowed := float64(b.Max) * (1 + deviation)
	return float64(length) >= minAllowed && float64(length) <= maxAllowed
}
