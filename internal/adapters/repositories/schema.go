package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// placeholder returns the n-th (1-based) bind marker for the driver.
func placeholder(driver string, n int) string {
	if driver == "pgx" {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Initialize the localities schema. The DDL is portable across
// Postgres, SQLite and MySQL.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLocalitiesQuery := `
	CREATE TABLE IF NOT EXISTS localities (
		name VARCHAR(255) NOT NULL PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	if _, err := tx.ExecContext(ctx, createLocalitiesQuery); err != nil {
		return fmt.Errorf("init schema: create localities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

func upsertQuery(driver string) string {
	values := fmt.Sprintf("(%s, %s, %s)", placeholder(driver, 1), placeholder(driver, 2), placeholder(driver, 3))

	if driver == "mysql" {
		return `
		INSERT INTO localities (name, lat, lng)
		VALUES ` + values + `
		ON DUPLICATE KEY UPDATE lat = VALUES(lat), lng = VALUES(lng);
		`
	}

	return `
	INSERT INTO localities (name, lat, lng)
	VALUES ` + values + `
	ON CONFLICT (name) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`
}

// Populate the localities table from a JSON dataset.
// Returns the number of rows written.
func SeedFromJSON(ctx context.Context, db *sql.DB, driver, jsonPath string) (int, error) {
	if db == nil {
		return 0, errors.New("seed localities: DB is nil")
	}

	rows, err := readDataset(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed localities: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed localities: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertQuery(driver))
	if err != nil {
		return 0, fmt.Errorf("seed localities: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range rows {
		if _, err := stmt.ExecContext(ctx, l.Name, l.Lat, l.Lng); err != nil {
			return 0, fmt.Errorf("seed localities: insert name=%q: %w", l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed localities: commit tx: %w", err)
	}

	return len(rows), nil
}
