package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	submissionmigrations "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/repositories/migrations"
)

// SubmissionTables lists the provenance tables in dependency order.
var SubmissionTables = []string{"leaderboard_entries", "hash_duplicates", "verification_hashes", "game_sessions"}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, submissionmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run submission migrations: %w", err)
	}
	if group.ID == 0 {
		log.Printf("No submission migrations to run")
	} else {
		log.Printf("Ran submission migrations group #%d", group.ID)
	}
	return nil
}

// TruncateTables truncates the specified tables
func TruncateTables(ctx context.Context, db bun.IDB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}

	query := "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " CASCADE"
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanSubmissionTables empties every provenance table.
func CleanSubmissionTables(ctx context.Context, db bun.IDB) error {
	return TruncateTables(ctx, db, SubmissionTables...)
}

// CountRows returns the number of rows in table.
func CountRows(ctx context.Context, db bun.IDB, table string) (int, error) {
	var n int
	if err := db.NewRaw(fmt.Sprintf(`SELECT count(*) FROM "%s"`, table)).Scan(ctx, &n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
