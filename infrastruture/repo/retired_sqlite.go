package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRetiredRepo stores retired players in a local SQLite database.
type SQLiteRetiredRepo struct {
	db *sql.DB
}

// OpenSQLiteRetiredRepo opens (creating if needed) the database at path.
func OpenSQLiteRetiredRepo(path string) (*SQLiteRetiredRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS retired_players (
			id TEXT PRIMARY KEY,
			player_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			play_time REAL NOT NULL,
			retired_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS retired_players_rank ON retired_players(score DESC, play_time, name);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &SQLiteRetiredRepo{db: db}, nil
}

// SaveRetired inserts all records in one transaction.
func (r *SQLiteRetiredRepo) SaveRetired(ctx context.Context, records []domain.RetiredPlayer) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO retired_players(id,player_id,name,score,play_time,retired_at) VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), int64(rec.ID), rec.Name, int64(rec.Score), rec.PlaySeconds, now); err != nil {
			return fmt.Errorf("insert retired player %d: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Retired returns a page of retired players in ranking order.
func (r *SQLiteRetiredRepo) Retired(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id,name,score,play_time FROM retired_players ORDER BY score DESC, play_time, name LIMIT ? OFFSET ?`,
		maxItems, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RetiredPlayer{}
	for rows.Next() {
		var (
			id, score int64
			rec       domain.RetiredPlayer
		)
		if err := rows.Scan(&id, &rec.Name, &score, &rec.PlaySeconds); err != nil {
			return nil, err
		}
		rec.ID, rec.Score = uint64(id), uint64(score)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *SQLiteRetiredRepo) Close(context.Context) error {
	return r.db.Close()
}
