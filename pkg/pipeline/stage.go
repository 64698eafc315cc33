// Package pipeline derives the display status of a job application from
// its hiring-stage timeline. Everything here is pure and safe for
// concurrent use.
package pipeline

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument is returned when an input cannot be evaluated, such as
// an empty timeline or an unknown stage name.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrPipelineComplete is returned by Advance when every stage is already
// completed.
var ErrPipelineComplete = errors.New("pipeline already complete")

// Stage is one step of the hiring funnel.
type Stage string

// Hiring funnel stages in canonical order.
const (
	StageApplied     Stage = "applied"
	StageViewed      Stage = "viewed"
	StageShortlisted Stage = "shortlisted"
	StageInterview   Stage = "interview"
	StageDecision    Stage = "decision"
)

// Stages lists every stage in funnel order.
var Stages = []Stage{StageApplied, StageViewed, StageShortlisted, StageInterview, StageDecision}

// Status is the overall status of an application. Apart from the funnel
// stages it may be StatusRejected, which overrides the timeline.
type Status string

// Overall application statuses.
const (
	StatusApplied     = Status(StageApplied)
	StatusViewed      = Status(StageViewed)
	StatusShortlisted = Status(StageShortlisted)
	StatusInterview   = Status(StageInterview)
	StatusDecision    = Status(StageDecision)
	StatusRejected    Status = "rejected"
)

// Badge is the coarse, human-facing classification of an application.
type Badge string

// Status badges.
const (
	BadgeRejected  Badge = "REJECTED"
	BadgeInterview Badge = "INTERVIEW"
	BadgeActive    Badge = "ACTIVE"
	BadgeViewed    Badge = "VIEWED"
	BadgeStalled   Badge = "STALLED"
)

// Badges lists every badge, strongest first.
var Badges = []Badge{BadgeRejected, BadgeInterview, BadgeActive, BadgeViewed, BadgeStalled}

// TimelineEntry records whether a stage has been reached and when.
type TimelineEntry struct {
	Stage       Stage      `json:"stage"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Completed   bool       `json:"completed"`
}

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown stage %q", ErrInvalidArgument, s)
}

// ParseStatus validates an overall status name.
func ParseStatus(s string) (Status, error) {
	if Status(s) == StatusRejected {
		return StatusRejected, nil
	}
	st, err := ParseStage(s)
	if err != nil {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, s)
	}
	return Status(st), nil
}

// Index returns the funnel position of the stage, or -1 if unknown.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}
