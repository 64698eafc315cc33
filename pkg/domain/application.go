package domain

import "github.com/johnwards/niyog/pkg/pipeline"

// Application is a candidate's application to a job, with its hiring
// timeline. Pipeline and Stages are derived from the timeline on read.
type Application struct {
	ID          string                   `json:"id"`
	JobTitle    string                   `json:"jobTitle"`
	Company     string                   `json:"company"`
	Role        string                   `json:"role"`
	Location    string                   `json:"location"`
	Salary      string                   `json:"salary"`
	Description string                   `json:"description"`
	Status      pipeline.Status          `json:"status"`
	MatchScore  int                      `json:"matchScore"`
	AppliedAt   string                   `json:"appliedDate"`
	Timeline    []pipeline.TimelineEntry `json:"timeline"`
	Pipeline    *pipeline.State          `json:"pipeline,omitempty"`
	Stages      []pipeline.StageView     `json:"stages,omitempty"`
	CreatedAt   string                   `json:"createdAt"`
	UpdatedAt   string                   `json:"updatedAt"`
}

// Derive computes the pipeline state and per-stage views from the timeline.
func (a *Application) Derive() error {
	st, err := pipeline.Classify(a.Timeline, a.Status)
	if err != nil {
		return err
	}
	a.Pipeline = &st
	a.Stages = pipeline.StageStates(a.Timeline)
	return nil
}

// CreateApplicationInput holds the data needed to submit an application.
type CreateApplicationInput struct {
	JobTitle    string `json:"jobTitle" validate:"required,max=200"`
	Company     string `json:"company" validate:"required,max=200"`
	Role        string `json:"role" validate:"max=100"`
	Location    string `json:"location" validate:"max=100"`
	Salary      string `json:"salary" validate:"max=100"`
	Description string `json:"description" validate:"max=5000"`
	MatchScore  int    `json:"matchScore" validate:"gte=0,lte=100"`
}

// ApplicationListOpts holds the parameters for listing applications.
type ApplicationListOpts struct {
	Limit  int
	After  string
	Status pipeline.Status
}

// ApplicationPage is a paginated list of applications.
type ApplicationPage struct {
	Results []*Application
	After   string
	HasMore bool
}

// Application event types.
const (
	EventCreated  = "created"
	EventAdvanced = "advanced"
	EventRejected = "rejected"
	EventStalled  = "stalled"
)

// ApplicationEvent is one entry of an application's activity log.
type ApplicationEvent struct {
	ID            string `json:"id"`
	ApplicationID string `json:"applicationId"`
	Type          string `json:"eventType"`
	Stage         string `json:"stage,omitempty"`
	Details       string `json:"details,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// ApplicationStats summarises all applications for dashboards.
type ApplicationStats struct {
	Total             int                     `json:"total"`
	ByBadge           map[pipeline.Badge]int  `json:"byBadge"`
	ByStatus          map[pipeline.Status]int `json:"byStatus"`
	AverageMatchScore float64                 `json:"averageMatchScore"`
}
