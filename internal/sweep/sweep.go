// Package sweep flags applications that have sat in the STALLED badge for
// too long.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/pkg/domain"
	"github.com/johnwards/niyog/pkg/pipeline"
)

// Sweeper appends a stalled event to each STALLED application whose last
// completed stage is older than StallAfter. Each application is flagged at
// most once.
type Sweeper struct {
	Store      store.ApplicationStore
	StallAfter time.Duration
	Now        func() time.Time
}

// New creates a Sweeper using the wall clock.
func New(s store.ApplicationStore, stallAfter time.Duration) *Sweeper {
	return &Sweeper{Store: s, StallAfter: stallAfter, Now: time.Now}
}

// Run performs one sweep and returns the number of newly flagged
// applications.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	cutoff := s.Now().Add(-s.StallAfter)
	flagged := 0

	after := ""
	for {
		page, err := s.Store.List(ctx, domain.ApplicationListOpts{Limit: 100, After: after})
		if err != nil {
			return flagged, fmt.Errorf("list applications: %w", err)
		}
		for _, app := range page.Results {
			ok, err := s.flag(ctx, app, cutoff)
			if err != nil {
				return flagged, err
			}
			if ok {
				flagged++
			}
		}
		if !page.HasMore {
			break
		}
		after = page.After
	}

	slog.Info("stalled sweep finished", "flagged", flagged, "cutoff", cutoff.UTC().Format(time.RFC3339))
	return flagged, nil
}

func (s *Sweeper) flag(ctx context.Context, app *domain.Application, cutoff time.Time) (bool, error) {
	if app.Pipeline == nil || app.Pipeline.Badge != pipeline.BadgeStalled {
		return false, nil
	}
	last, ok := lastActivity(app.Timeline)
	if !ok || last.After(cutoff) {
		return false, nil
	}

	seen, err := s.Store.HasEvent(ctx, app.ID, domain.EventStalled)
	if err != nil {
		return false, fmt.Errorf("check stalled event: %w", err)
	}
	if seen {
		return false, nil
	}

	details := fmt.Sprintf("no activity since %s", last.UTC().Format(time.RFC3339))
	if _, err := s.Store.AddEvent(ctx, app.ID, domain.EventStalled, "", details); err != nil {
		return false, fmt.Errorf("add stalled event: %w", err)
	}
	slog.Debug("application stalled", "application_id", app.ID, "last_activity", last)
	return true, nil
}

// lastActivity returns the latest completion time in the timeline.
func lastActivity(timeline []pipeline.TimelineEntry) (time.Time, bool) {
	var last time.Time
	found := false
	for _, e := range timeline {
		if e.Completed && e.CompletedAt != nil && e.CompletedAt.After(last) {
			last = *e.CompletedAt
			found = true
		}
	}
	return last, found
}

// Start schedules Run on the cron spec (for example "@every 1h") and returns
// a function that stops the scheduler and waits for a running sweep.
func (s *Sweeper) Start(spec string) (stop func(), err error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			slog.Error("stalled sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
