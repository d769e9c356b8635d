package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"dmmap/internal/geom"
)

// DefaultSQLiteDSN is a private in-memory database; it lives as long as
// the store's single connection.
const DefaultSQLiteDSN = ":memory:"

const schema = `CREATE TABLE IF NOT EXISTS points (
	seq INTEGER PRIMARY KEY,
	id  TEXT NOT NULL,
	lat REAL NOT NULL,
	lng REAL NOT NULL
)`

type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: an in-memory database is per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Put(ctx context.Context, pts []geom.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points`); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (seq, id, lat, lng) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, p := range pts {
		if _, err := stmt.ExecContext(ctx, i, p.ID, p.Lat, p.Lng); err != nil {
			return fmt.Errorf("insert point %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context) ([]geom.Point, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, lat, lng FROM points ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	out := []geom.Point{}
	for rows.Next() {
		var p geom.Point
		if err := rows.Scan(&p.ID, &p.Lat, &p.Lng); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
