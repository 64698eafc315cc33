package pipeline

import "fmt"

// State is the derived pipeline view of an application. It is recomputed
// from the timeline on every read and never stored.
type State struct {
	Badge            Badge   `json:"statusBadge"`
	CompletedCount   int     `json:"completedCount"`
	TotalStages      int     `json:"totalStages"`
	ProgressFraction float64 `json:"progressFraction"`
}

// Classify maps a timeline and the overall status to a badge and progress
// metrics. A rejected status wins over any completion count. The timeline
// must not be empty.
func Classify(timeline []TimelineEntry, overall Status) (State, error) {
	if len(timeline) == 0 {
		return State{}, fmt.Errorf("%w: timeline is empty", ErrInvalidArgument)
	}

	completed := CompletedCount(timeline)
	st := State{
		CompletedCount:   completed,
		TotalStages:      len(timeline),
		ProgressFraction: float64(completed) / float64(len(timeline)),
	}

	switch {
	case overall == StatusRejected:
		st.Badge = BadgeRejected
	case completed >= 4:
		st.Badge = BadgeInterview
	case completed >= 3:
		st.Badge = BadgeActive
	case completed >= 2:
		st.Badge = BadgeViewed
	default:
		st.Badge = BadgeStalled
	}
	return st, nil
}

// CompletedCount returns the number of completed entries.
func CompletedCount(timeline []TimelineEntry) int {
	n := 0
	for _, e := range timeline {
		if e.Completed {
			n++
		}
	}
	return n
}
