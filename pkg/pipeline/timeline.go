package pipeline

import (
	"fmt"
	"time"
)

// StageDisplay is the rendering state of a single stage.
type StageDisplay string

// Stage display states.
const (
	DisplayCompleted StageDisplay = "completed"
	DisplayCurrent   StageDisplay = "current"
	DisplayUpcoming  StageDisplay = "upcoming"
)

// StageView pairs a stage with its display state.
type StageView struct {
	Stage   Stage        `json:"stage"`
	Display StageDisplay `json:"display"`
}

// NewTimeline returns a fresh timeline with every stage present and only
// the applied stage completed.
func NewTimeline(appliedAt time.Time) []TimelineEntry {
	tl := make([]TimelineEntry, len(Stages))
	for i, st := range Stages {
		tl[i] = TimelineEntry{Stage: st}
	}
	at := appliedAt.UTC()
	tl[0].Completed = true
	tl[0].CompletedAt = &at
	return tl
}

// Advance completes the first entry that has not been reached yet and
// returns the updated copy along with the stage that was completed. The
// input slice is left untouched.
func Advance(timeline []TimelineEntry, at time.Time) ([]TimelineEntry, Stage, error) {
	if len(timeline) == 0 {
		return nil, "", fmt.Errorf("%w: timeline is empty", ErrInvalidArgument)
	}

	next := make([]TimelineEntry, len(timeline))
	copy(next, timeline)

	for i := range next {
		if next[i].Completed {
			continue
		}
		ts := at.UTC()
		next[i].Completed = true
		next[i].CompletedAt = &ts
		return next, next[i].Stage, nil
	}
	return nil, "", ErrPipelineComplete
}

// StageStates reports, for each entry, whether it is completed, the
// current stage (not completed, every earlier entry completed) or still
// upcoming.
func StageStates(timeline []TimelineEntry) []StageView {
	views := make([]StageView, len(timeline))
	prefixDone := true
	for i, e := range timeline {
		switch {
		case e.Completed:
			views[i] = StageView{Stage: e.Stage, Display: DisplayCompleted}
		case prefixDone:
			views[i] = StageView{Stage: e.Stage, Display: DisplayCurrent}
		default:
			views[i] = StageView{Stage: e.Stage, Display: DisplayUpcoming}
		}
		prefixDone = prefixDone && e.Completed
	}
	return views
}

// Monotonic reports whether no completed entry follows an incomplete one.
func Monotonic(timeline []TimelineEntry) bool {
	gap := false
	for _, e := range timeline {
		if !e.Completed {
			gap = true
			continue
		}
		if gap {
			return false
		}
	}
	return true
}

// Validate checks that the timeline is non-empty, lists known stages in
// funnel order and is monotonic.
func Validate(timeline []TimelineEntry) error {
	if len(timeline) == 0 {
		return fmt.Errorf("%w: timeline is empty", ErrInvalidArgument)
	}
	last := -1
	for _, e := range timeline {
		idx := e.Stage.Index()
		if idx < 0 {
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidArgument, e.Stage)
		}
		if idx <= last {
			return fmt.Errorf("%w: stage %q out of order", ErrInvalidArgument, e.Stage)
		}
		last = idx
	}
	if !Monotonic(timeline) {
		return fmt.Errorf("%w: completed stage follows an incomplete one", ErrInvalidArgument)
	}
	return nil
}
