package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteFileName is the database written by the sqlite format.
const SQLiteFileName = "weights.db"

const measurementsSchema = `CREATE TABLE IF NOT EXISTS measurements (
    user_id      TEXT    NOT NULL,
    timestamp_ms INTEGER NOT NULL,
    weight_kg    REAL    NOT NULL,
    fat_pct      REAL    NOT NULL,
    PRIMARY KEY (user_id, timestamp_ms)
)`

const upsertMeasurement = `INSERT INTO measurements (user_id, timestamp_ms, weight_kg, fat_pct)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, timestamp_ms) DO UPDATE SET
    weight_kg = excluded.weight_kg,
    fat_pct   = excluded.fat_pct`

// writeSQLite upserts every row into one database so repeated runs over a
// growing export folder keep a single history. Unlike the per-user formats
// the write is all-or-nothing: it runs in one transaction.
func writeSQLite(table Table, outDir string, report io.Writer) ([]string, error) {
	if err := ensureOutputDir(outDir); err != nil {
		return nil, err
	}
	path := filepath.Join(outDir, SQLiteFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, measurementsSchema); err != nil {
		return nil, fmt.Errorf("create measurements table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertMeasurement)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, user := range table.Users() {
		for _, r := range table.Rows(user) {
			r = r.rounded()
			if _, err := stmt.ExecContext(ctx, user, r.TimestampMS, r.WeightKG, r.FatPct); err != nil {
				_ = tx.Rollback()
				return nil, fmt.Errorf("upsert measurement for user %q: %w", user, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit measurements: %w", err)
	}

	reportWritten(report, path)
	return []string{path}, nil
}
