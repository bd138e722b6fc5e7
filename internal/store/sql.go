package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          TEXT PRIMARY KEY,
	state       TEXT NOT NULL,
	white_token TEXT NOT NULL,
	black_token TEXT NOT NULL,
	status      TEXT NOT NULL,
	moves       TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
)`

const selectColumns = `SELECT id, state, white_token, black_token, status, moves, created_at, updated_at FROM games`

// SQLStore keeps games in SQLite. Game state is stored as the codec JSON.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens the database at dsn and creates the schema if needed.
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Create inserts a new record.
func (s *SQLStore) Create(ctx context.Context, rec *Record) error {
	state, moves, err := encodeColumns(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, state, white_token, black_token, status, moves, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), state, rec.WhiteToken, rec.BlackToken, rec.Status, moves,
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert game %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads one record.
func (s *SQLStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id.String())
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	return rec, nil
}

// Update overwrites the mutable columns of an existing record.
func (s *SQLStore) Update(ctx context.Context, rec *Record) error {
	state, moves, err := encodeColumns(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET state = ?, status = ?, moves = ?, updated_at = ? WHERE id = ?`,
		state, rec.Status, moves, rec.UpdatedAt.UnixNano(), rec.ID.String())
	if err != nil {
		return fmt.Errorf("update game %s: %w", rec.ID, err)
	}
	return expectOneRow(res, rec.ID)
}

// List returns every record, oldest first.
func (s *SQLStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

// Delete removes a record.
func (s *SQLStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return expectOneRow(res, id)
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func expectOneRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("game %s: %w", id, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func encodeColumns(rec *Record) (state, moves string, err error) {
	sb, err := json.Marshal(rec.State)
	if err != nil {
		return "", "", fmt.Errorf("encode state of game %s: %w", rec.ID, err)
	}
	mv := rec.Moves
	if mv == nil {
		mv = []string{}
	}
	mb, err := json.Marshal(mv)
	if err != nil {
		return "", "", fmt.Errorf("encode moves of game %s: %w", rec.ID, err)
	}
	return string(sb), string(mb), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		id, state, moves string
		created, updated int64
		rec              Record
	)
	if err := sc.Scan(&id, &state, &rec.WhiteToken, &rec.BlackToken, &rec.Status, &moves, &created, &updated); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("game id %q: %w", id, err)
	}
	rec.ID = parsed
	if err := json.Unmarshal([]byte(state), &rec.State); err != nil {
		return nil, fmt.Errorf("decode state of game %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(moves), &rec.Moves); err != nil {
		return nil, fmt.Errorf("decode moves of game %s: %w", id, err)
	}
	rec.CreatedAt = time.Unix(0, created).UTC()
	rec.UpdatedAt = time.Unix(0, updated).UTC()
	return &rec, nil
}
