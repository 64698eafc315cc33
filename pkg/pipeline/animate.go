package pipeline

import (
	"iter"
	"math"
	"time"
)

// FrameInterval is the sampling interval of AnimateDisplayValue.
const FrameInterval = time.Second / 60

// AnimateDisplayValue yields the values of a counter moving linearly from 0
// to target over duration, one per frame. The last value is always target.
// The sequence can be ranged over any number of times.
func AnimateDisplayValue(target int, duration time.Duration) iter.Seq[int] {
	return func(yield func(int) bool) {
		frames := int(duration / FrameInterval)
		for i := 0; i < frames; i++ {
			progress := float64(i) / float64(frames)
			if !yield(int(math.Round(progress * float64(target)))) {
				return
			}
		}
		yield(target)
	}
}
