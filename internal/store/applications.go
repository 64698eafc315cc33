package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/johnwards/niyog/pkg/domain"
	"github.com/johnwards/niyog/pkg/pipeline"
)

// ApplicationStore defines operations for job applications and their
// hiring timelines.
type ApplicationStore interface {
	Create(ctx context.Context, in domain.CreateApplicationInput) (*domain.Application, error)
	Get(ctx context.Context, id string) (*domain.Application, error)
	List(ctx context.Context, opts domain.ApplicationListOpts) (*domain.ApplicationPage, error)
	Advance(ctx context.Context, id string) (*domain.Application, error)
	Reject(ctx context.Context, id, reason string) (*domain.Application, error)
	Events(ctx context.Context, id string) ([]domain.ApplicationEvent, error)
	AddEvent(ctx context.Context, id, eventType, stage, details string) (*domain.ApplicationEvent, error)
	HasEvent(ctx context.Context, id, eventType string) (bool, error)
	Stats(ctx context.Context) (*domain.ApplicationStats, error)
}

// SQLiteApplicationStore implements ApplicationStore backed by SQLite.
type SQLiteApplicationStore struct {
	db *sql.DB
}

// NewSQLiteApplicationStore creates a new SQLiteApplicationStore.
func NewSQLiteApplicationStore(db *sql.DB) *SQLiteApplicationStore {
	return &SQLiteApplicationStore{db: db}
}

const applicationColumns = `id, job_title, company, role, location, salary, description,
	status, match_score, applied_at, created_at, updated_at`

// Create inserts an application with a fresh timeline where only the
// applied stage is completed.
func (s *SQLiteApplicationStore) Create(ctx context.Context, in domain.CreateApplicationInput) (*domain.Application, error) {
	ts := time.Now().UTC()
	stamp := FormatTime(ts)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create application: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO applications (job_title, company, role, location, salary, description,
			status, match_score, applied_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.JobTitle, in.Company, in.Role, in.Location, in.Salary, in.Description,
		string(pipeline.StatusApplied), in.MatchScore, stamp, stamp, stamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	rowID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	id := strconv.FormatInt(rowID, 10)

	timeline := pipeline.NewTimeline(ts)
	for i, e := range timeline {
		var completedAt any
		if e.CompletedAt != nil {
			completedAt = FormatTime(*e.CompletedAt)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO timeline_entries (application_id, position, stage, completed, completed_at)
			 VALUES (?, ?, ?, ?, ?)`,
			rowID, i, string(e.Stage), e.Completed, completedAt,
		); err != nil {
			return nil, fmt.Errorf("insert timeline entry %q: %w", e.Stage, err)
		}
	}

	if _, err := insertEvent(ctx, tx, id, domain.EventCreated, string(pipeline.StageApplied), ""); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create application: %w", err)
	}

	return s.Get(ctx, id)
}

// Get returns a single application with its timeline and derived state.
func (s *SQLiteApplicationStore) Get(ctx context.Context, id string) (*domain.Application, error) {
	return getApplication(ctx, s.db, id)
}

// List returns applications ordered by ID, optionally filtered by status,
// using the ID of the last result as the cursor.
func (s *SQLiteApplicationStore) List(ctx context.Context, opts domain.ApplicationListOpts) (*domain.ApplicationPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1 = 1`
	var args []any
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.After != "" {
		query += ` AND id > ?`
		args = append(args, opts.After)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	var apps []*domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	page := &domain.ApplicationPage{Results: []*domain.Application{}}
	if len(apps) > limit {
		page.HasMore = true
		apps = apps[:limit]
		page.After = apps[limit-1].ID
	}

	// Timelines are loaded after the cursor is closed (MaxOpenConns=1).
	for _, a := range apps {
		if err := hydrate(ctx, s.db, a); err != nil {
			return nil, err
		}
	}
	page.Results = append(page.Results, apps...)
	return page, nil
}

// Advance completes the next stage of the application's timeline and moves
// its status to that stage.
func (s *SQLiteApplicationStore) Advance(ctx context.Context, id string) (*domain.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin advance: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	app, err := getApplication(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == pipeline.StatusRejected {
		return nil, fmt.Errorf("advance application %s: %w", id, ErrRejected)
	}

	at := time.Now().UTC()
	next, stage, err := pipeline.Advance(app.Timeline, at)
	if err != nil {
		if errors.Is(err, pipeline.ErrPipelineComplete) {
			return nil, fmt.Errorf("advance application %s: %w: %w", id, ErrConflict, err)
		}
		return nil, fmt.Errorf("advance application %s: %w", id, err)
	}

	stamp := FormatTime(at)
	if _, err := tx.ExecContext(ctx,
		`UPDATE timeline_entries SET completed = TRUE, completed_at = ?
		 WHERE application_id = ? AND position = ?`,
		stamp, id, stage.Index(),
	); err != nil {
		return nil, fmt.Errorf("complete stage %q: %w", stage, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		string(stage), stamp, id,
	); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	if _, err := insertEvent(ctx, tx, id, domain.EventAdvanced, string(stage), ""); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit advance: %w", err)
	}

	app.Timeline = next
	app.Status = pipeline.Status(stage)
	app.UpdatedAt = stamp
	if err := app.Derive(); err != nil {
		return nil, err
	}
	return app, nil
}

// Reject marks the application as rejected. The timeline is left as is.
func (s *SQLiteApplicationStore) Reject(ctx context.Context, id, reason string) (*domain.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reject: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	app, err := getApplication(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == pipeline.StatusRejected {
		return nil, fmt.Errorf("reject application %s: %w", id, ErrRejected)
	}

	stamp := now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		string(pipeline.StatusRejected), stamp, id,
	); err != nil {
		return nil, fmt.Errorf("reject application: %w", err)
	}
	if _, err := insertEvent(ctx, tx, id, domain.EventRejected, "", reason); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reject: %w", err)
	}

	app.Status = pipeline.StatusRejected
	app.UpdatedAt = stamp
	if err := app.Derive(); err != nil {
		return nil, err
	}
	return app, nil
}

// Events returns the activity log of an application, oldest first.
func (s *SQLiteApplicationStore) Events(ctx context.Context, id string) ([]domain.ApplicationEvent, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, application_id, event_type, COALESCE(stage, ''), details, created_at
		 FROM application_events WHERE application_id = ? ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := []domain.ApplicationEvent{}
	for rows.Next() {
		var e domain.ApplicationEvent
		var evID, appID int64
		if err := rows.Scan(&evID, &appID, &e.Type, &e.Stage, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.ID = strconv.FormatInt(evID, 10)
		e.ApplicationID = strconv.FormatInt(appID, 10)
		events = append(events, e)
	}
	return events, rows.Err()
}

// AddEvent appends an entry to the application's activity log.
func (s *SQLiteApplicationStore) AddEvent(ctx context.Context, id, eventType, stage, details string) (*domain.ApplicationEvent, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	return insertEvent(ctx, s.db, id, eventType, stage, details)
}

// HasEvent reports whether the application has at least one event of the
// given type.
func (s *SQLiteApplicationStore) HasEvent(ctx context.Context, id, eventType string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM application_events WHERE application_id = ? AND event_type = ?`,
		id, eventType,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("count events: %w", err)
	}
	return n > 0, nil
}

// Stats aggregates badge and status counts and the average match score.
func (s *SQLiteApplicationStore) Stats(ctx context.Context) (*domain.ApplicationStats, error) {
	stats := &domain.ApplicationStats{
		ByBadge:  map[pipeline.Badge]int{},
		ByStatus: map[pipeline.Status]int{},
	}
	for _, b := range pipeline.Badges {
		stats.ByBadge[b] = 0
	}

	after := ""
	total := 0
	for {
		page, err := s.List(ctx, domain.ApplicationListOpts{Limit: 100, After: after})
		if err != nil {
			return nil, err
		}
		for _, a := range page.Results {
			stats.Total++
			stats.ByStatus[a.Status]++
			stats.ByBadge[a.Pipeline.Badge]++
			total += a.MatchScore
		}
		if !page.HasMore {
			break
		}
		after = page.After
	}

	if stats.Total > 0 {
		stats.AverageMatchScore = float64(total) / float64(stats.Total)
	}
	return stats, nil
}

func (s *SQLiteApplicationStore) exists(ctx context.Context, id string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("check application: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("application %q: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var a domain.Application
	var id int64
	var status string
	if err := row.Scan(&id, &a.JobTitle, &a.Company, &a.Role, &a.Location, &a.Salary, &a.Description,
		&status, &a.MatchScore, &a.AppliedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.ID = strconv.FormatInt(id, 10)
	a.Status = pipeline.Status(status)
	return &a, nil
}

func getApplication(ctx context.Context, q Querier, id string) (*domain.Application, error) {
	a, err := scanApplication(q.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	if err := hydrate(ctx, q, a); err != nil {
		return nil, err
	}
	return a, nil
}

// hydrate loads the timeline and fills the derived fields.
func hydrate(ctx context.Context, q Querier, a *domain.Application) error {
	tl, err := loadTimeline(ctx, q, a.ID)
	if err != nil {
		return err
	}
	if !pipeline.Monotonic(tl) {
		slog.Warn("application timeline has a gap", "application_id", a.ID)
	}
	a.Timeline = tl
	return a.Derive()
}

func loadTimeline(ctx context.Context, q Querier, id string) ([]pipeline.TimelineEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT stage, completed, completed_at FROM timeline_entries
		 WHERE application_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("load timeline: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tl []pipeline.TimelineEntry
	for rows.Next() {
		var e pipeline.TimelineEntry
		var stage string
		var completedAt sql.NullString
		if err := rows.Scan(&stage, &e.Completed, &completedAt); err != nil {
			return nil, fmt.Errorf("scan timeline entry: %w", err)
		}
		e.Stage = pipeline.Stage(stage)
		if completedAt.Valid {
			t, err := parseTime(completedAt.String)
			if err != nil {
				return nil, err
			}
			e.CompletedAt = &t
		}
		tl = append(tl, e)
	}
	return tl, rows.Err()
}

func insertEvent(ctx context.Context, q Querier, id, eventType, stage, details string) (*domain.ApplicationEvent, error) {
	return InsertEvent(ctx, q, id, eventType, stage, details, time.Now())
}

// InsertEvent appends an activity log row stamped at. It runs on q, so it
// can join a caller's transaction.
func InsertEvent(ctx context.Context, q Querier, id, eventType, stage, details string, at time.Time) (*domain.ApplicationEvent, error) {
	ts := FormatTime(at)
	var stageArg any
	if stage != "" {
		stageArg = stage
	}
	result, err := q.ExecContext(ctx,
		`INSERT INTO application_events (application_id, event_type, stage, details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, eventType, stageArg, details, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s event: %w", eventType, err)
	}
	evID, _ := result.LastInsertId()
	return &domain.ApplicationEvent{
		ID:            strconv.FormatInt(evID, 10),
		ApplicationID: id,
		Type:          eventType,
		Stage:         stage,
		Details:       details,
		CreatedAt:     ts,
	}, nil
}
