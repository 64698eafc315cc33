package pipeline_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnwards/niyog/pkg/pipeline"
)

func TestNewTimeline(t *testing.T) {
	at := time.Date(2024, 10, 29, 9, 0, 0, 0, time.UTC)
	tl := pipeline.NewTimeline(at)

	require.Len(t, tl, 5)
	for i, e := range tl {
		require.Equal(t, pipeline.Stages[i], e.Stage)
		require.Equal(t, i == 0, e.Completed)
	}
	require.NotNil(t, tl[0].CompletedAt)
	require.True(t, tl[0].CompletedAt.Equal(at))
	require.Nil(t, tl[1].CompletedAt)

	st, err := pipeline.Classify(tl, pipeline.StatusApplied)
	require.NoError(t, err)
	require.Equal(t, pipeline.BadgeStalled, st.Badge)
}

func TestAdvance(t *testing.T) {
	at := time.Date(2024, 10, 29, 9, 0, 0, 0, time.UTC)
	tl := pipeline.NewTimeline(at)

	next, stage, err := pipeline.Advance(tl, at.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, pipeline.StageViewed, stage)
	require.True(t, next[1].Completed)
	require.NotNil(t, next[1].CompletedAt)
	require.False(t, tl[1].Completed, "input must not be mutated")
	require.Len(t, next, len(tl))

	for _, want := range []pipeline.Stage{pipeline.StageShortlisted, pipeline.StageInterview, pipeline.StageDecision} {
		next, stage, err = pipeline.Advance(next, at)
		require.NoError(t, err)
		require.Equal(t, want, stage)
		require.True(t, pipeline.Monotonic(next))
	}

	_, _, err = pipeline.Advance(next, at)
	require.ErrorIs(t, err, pipeline.ErrPipelineComplete)

	_, _, err = pipeline.Advance(nil, at)
	require.ErrorIs(t, err, pipeline.ErrInvalidArgument)
}

func TestStageStates(t *testing.T) {
	views := pipeline.StageStates(timeline(2))
	got := make([]pipeline.StageDisplay, len(views))
	for i, v := range views {
		got[i] = v.Display
	}
	require.Equal(t, []pipeline.StageDisplay{
		pipeline.DisplayCompleted,
		pipeline.DisplayCompleted,
		pipeline.DisplayCurrent,
		pipeline.DisplayUpcoming,
		pipeline.DisplayUpcoming,
	}, got)

	gapped := timeline(0)
	gapped[0].Completed = true
	gapped[2].Completed = true
	views = pipeline.StageStates(gapped)
	require.Equal(t, pipeline.DisplayCurrent, views[1].Display)
	require.Equal(t, pipeline.DisplayCompleted, views[2].Display)
	require.Equal(t, pipeline.DisplayUpcoming, views[3].Display)
}

func TestValidate(t *testing.T) {
	require.NoError(t, pipeline.Validate(timeline(3)))

	gapped := timeline(1)
	gapped[3].Completed = true
	require.False(t, pipeline.Monotonic(gapped))
	require.ErrorIs(t, pipeline.Validate(gapped), pipeline.ErrInvalidArgument)

	reordered := timeline(1)
	reordered[1], reordered[2] = reordered[2], reordered[1]
	require.ErrorIs(t, pipeline.Validate(reordered), pipeline.ErrInvalidArgument)

	unknown := timeline(1)
	unknown[4].Stage = "offer"
	require.ErrorIs(t, pipeline.Validate(unknown), pipeline.ErrInvalidArgument)

	require.ErrorIs(t, pipeline.Validate(nil), pipeline.ErrInvalidArgument)
}

func TestAnimateDisplayValue(t *testing.T) {
	values := slices.Collect(pipeline.AnimateDisplayValue(87, 1500*time.Millisecond))

	require.Equal(t, 91, len(values))
	require.Equal(t, 0, values[0])
	require.Equal(t, 87, values[len(values)-1])
	for i := 1; i < len(values); i++ {
		require.GreaterOrEqual(t, values[i], values[i-1])
		require.LessOrEqual(t, values[i], 87)
	}

	again := slices.Collect(pipeline.AnimateDisplayValue(87, 1500*time.Millisecond))
	require.Equal(t, values, again)
}

func TestAnimateDisplayValue_NoDuration(t *testing.T) {
	require.Equal(t, []int{42}, slices.Collect(pipeline.AnimateDisplayValue(42, 0)))
	require.Equal(t, []int{42}, slices.Collect(pipeline.AnimateDisplayValue(42, -time.Second)))
}

func TestAnimateDisplayValue_EarlyStop(t *testing.T) {
	n := 0
	for range pipeline.AnimateDisplayValue(100, time.Second) {
		n++
		if n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)
}
