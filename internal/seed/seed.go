package seed

import (
	"context"
	"database/sql"
	"fmt"
)

// Seed inserts the demo data set into the database. It is idempotent:
// nothing is inserted when applications already exist.
func Seed(ctx context.Context, db *sql.DB) error {
	if err := Applications(ctx, db); err != nil {
		return fmt.Errorf("seed applications: %w", err)
	}
	return nil
}
