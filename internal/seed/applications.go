package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/pkg/domain"
	"github.com/johnwards/niyog/pkg/pipeline"
)

type applicationDef struct {
	jobTitle    string
	company     string
	location    string
	salary      string
	description string
	matchScore  int
	completed   int
	rejected    bool
}

// One application per badge: STALLED, VIEWED, ACTIVE, INTERVIEW, REJECTED.
var defaultApplications = []applicationDef{
	{
		jobTitle: "DevOps Engineer", company: "CloudBase", location: "Seattle, WA",
		salary: "$110k - $150k", matchScore: 82, completed: 1,
		description: "Manage cloud infrastructure and deployment pipelines",
	},
	{
		jobTitle: "Product Manager", company: "InnovateLabs", location: "New York, NY",
		salary: "$130k - $180k", matchScore: 85, completed: 2,
		description: "Lead product strategy and vision for our flagship product",
	},
	{
		jobTitle: "Full Stack Engineer", company: "StartupXYZ", location: "Remote",
		salary: "$100k - $140k", matchScore: 88, completed: 3,
		description: "Work on our AI-powered platform across the stack",
	},
	{
		jobTitle: "Senior React Developer", company: "TechCorp", location: "San Francisco, CA",
		salary: "$120k - $160k", matchScore: 94, completed: 4,
		description: "Build scalable web applications with modern React patterns",
	},
	{
		jobTitle: "Data Scientist", company: "DataFlow", location: "Austin, TX",
		salary: "$125k - $165k", matchScore: 79, completed: 4, rejected: true,
		description: "Build models that forecast demand across our marketplace",
	},
}

// seedEpoch is the applied date of the first demo application.
var seedEpoch = time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

// Applications inserts the demo applications with their timelines and
// activity logs if no applications exist yet.
func Applications(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&count); err != nil {
		return fmt.Errorf("count applications: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, ad := range defaultApplications {
		if err := insertApplication(ctx, tx, ad, seedEpoch.AddDate(0, 0, i)); err != nil {
			return fmt.Errorf("insert application %s at %s: %w", ad.jobTitle, ad.company, err)
		}
	}
	return tx.Commit()
}

func insertApplication(ctx context.Context, tx *sql.Tx, ad applicationDef, appliedAt time.Time) error {
	// Stage i is completed i days after applying.
	at := func(i int) time.Time { return appliedAt.AddDate(0, 0, i) }
	stamp := func(i int) string { return store.FormatTime(at(i)) }

	status := pipeline.Status(pipeline.Stages[ad.completed-1])
	if ad.rejected {
		status = pipeline.StatusRejected
	}
	updated := at(ad.completed - 1)
	if ad.rejected {
		updated = at(ad.completed)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO applications (job_title, company, role, location, salary, description,
			status, match_score, applied_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ad.jobTitle, ad.company, ad.jobTitle, ad.location, ad.salary, ad.description,
		string(status), ad.matchScore, stamp(0), stamp(0), store.FormatTime(updated),
	)
	if err != nil {
		return err
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	id := strconv.FormatInt(rowID, 10)

	for i, st := range pipeline.Stages {
		done := i < ad.completed
		var completedAt any
		if done {
			completedAt = stamp(i)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timeline_entries (application_id, position, stage, completed, completed_at)
			 VALUES (?, ?, ?, ?, ?)`,
			id, i, string(st), done, completedAt,
		); err != nil {
			return fmt.Errorf("insert stage %s: %w", st, err)
		}

		if !done {
			continue
		}
		eventType := domain.EventAdvanced
		if i == 0 {
			eventType = domain.EventCreated
		}
		if _, err := store.InsertEvent(ctx, tx, id, eventType, string(st), "", at(i)); err != nil {
			return err
		}
	}

	if ad.rejected {
		_, err := store.InsertEvent(ctx, tx, id, domain.EventRejected, "", "Position filled internally", updated)
		return err
	}
	return nil
}
