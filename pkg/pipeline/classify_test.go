package pipeline_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnwards/niyog/pkg/pipeline"
)

// timeline builds a five-stage timeline with the first n stages completed.
func timeline(n int) []pipeline.TimelineEntry {
	tl := make([]pipeline.TimelineEntry, len(pipeline.Stages))
	for i, st := range pipeline.Stages {
		tl[i] = pipeline.TimelineEntry{Stage: st, Completed: i < n}
	}
	return tl
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		status    pipeline.Status
		badge     pipeline.Badge
		progress  float64
	}{
		{"applied only", 1, pipeline.StatusApplied, pipeline.BadgeStalled, 0.2},
		{"viewed", 2, pipeline.StatusViewed, pipeline.BadgeViewed, 0.4},
		{"shortlisted", 3, pipeline.StatusShortlisted, pipeline.BadgeActive, 0.6},
		{"interview", 4, pipeline.StatusInterview, pipeline.BadgeInterview, 0.8},
		{"rejected after interview", 4, pipeline.StatusRejected, pipeline.BadgeRejected, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pipeline.Classify(timeline(tt.completed), tt.status)
			require.NoError(t, err)
			require.Equal(t, tt.badge, got.Badge)
			require.Equal(t, tt.completed, got.CompletedCount)
			require.Equal(t, 5, got.TotalStages)
			require.InDelta(t, tt.progress, got.ProgressFraction, 1e-9)
		})
	}
}

func TestClassify_Thresholds(t *testing.T) {
	want := map[int]pipeline.Badge{
		0: pipeline.BadgeStalled,
		1: pipeline.BadgeStalled,
		2: pipeline.BadgeViewed,
		3: pipeline.BadgeActive,
		4: pipeline.BadgeInterview,
		5: pipeline.BadgeInterview,
	}
	for n, badge := range want {
		got, err := pipeline.Classify(timeline(n), pipeline.StatusDecision)
		require.NoError(t, err)
		require.Equal(t, badge, got.Badge, "completed=%d", n)
	}
}

func TestClassify_RejectedOverridesEveryCount(t *testing.T) {
	for n := 0; n <= 5; n++ {
		got, err := pipeline.Classify(timeline(n), pipeline.StatusRejected)
		require.NoError(t, err)
		require.Equal(t, pipeline.BadgeRejected, got.Badge, "completed=%d", n)
		require.Equal(t, n, got.CompletedCount)
	}
}

func TestClassify_ProgressMonotonic(t *testing.T) {
	prev := -1.0
	for n := 0; n <= 5; n++ {
		got, err := pipeline.Classify(timeline(n), pipeline.StatusApplied)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got.ProgressFraction, prev)
		require.GreaterOrEqual(t, got.ProgressFraction, 0.0)
		require.LessOrEqual(t, got.ProgressFraction, 1.0)
		prev = got.ProgressFraction
	}
}

func TestClassify_CountsFlagsNotPosition(t *testing.T) {
	tl := timeline(0)
	tl[0].Completed = true
	tl[3].Completed = true

	got, err := pipeline.Classify(tl, pipeline.StatusApplied)
	require.NoError(t, err)
	require.Equal(t, pipeline.BadgeViewed, got.Badge)
	require.Equal(t, 2, got.CompletedCount)
}

func TestClassify_EmptyTimeline(t *testing.T) {
	_, err := pipeline.Classify(nil, pipeline.StatusApplied)
	require.Error(t, err)
	require.True(t, errors.Is(err, pipeline.ErrInvalidArgument))

	_, err = pipeline.Classify([]pipeline.TimelineEntry{}, pipeline.StatusRejected)
	require.ErrorIs(t, err, pipeline.ErrInvalidArgument)
}

func TestClassify_Idempotent(t *testing.T) {
	tl := timeline(3)
	first, err := pipeline.Classify(tl, pipeline.StatusShortlisted)
	require.NoError(t, err)
	second, err := pipeline.Classify(tl, pipeline.StatusShortlisted)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, timeline(3), tl)
}

func TestClassify_Concurrent(t *testing.T) {
	tl := timeline(4)
	var wg sync.WaitGroup
	results := make([]pipeline.State, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = pipeline.Classify(tl, pipeline.StatusInterview)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, pipeline.BadgeInterview, r.Badge)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := pipeline.ParseStatus("rejected")
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusRejected, st)

	st, err = pipeline.ParseStatus("shortlisted")
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusShortlisted, st)

	_, err = pipeline.ParseStatus("hired")
	require.ErrorIs(t, err, pipeline.ErrInvalidArgument)

	_, err = pipeline.ParseStage("rejected")
	require.ErrorIs(t, err, pipeline.ErrInvalidArgument)
}
