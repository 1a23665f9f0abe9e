package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"bingohub/internal/app/db"
)

// Execer is satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const insertRecordSQL = `
INSERT INTO match_archive (match_id, room_code, seed, classes, board, progress, started_at, ended_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresSink writes records into the match_archive table.
type PostgresSink struct {
	db Execer
}

// NewPostgresSink creates a sink on top of a migrated pool.
func NewPostgresSink(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

// Save inserts rec. A record already archived under the same match id is left untouched.
func (s *PostgresSink) Save(ctx context.Context, rec Record) error {
	classes, err := json.Marshal(rec.Classes)
	if err != nil {
		return fmt.Errorf("failed to encode classes: %w", err)
	}
	board, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}
	progress, err := json.Marshal(rec.Progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	_, err = s.db.Exec(ctx, insertRecordSQL,
		rec.MatchID.String(),
		rec.RoomCode,
		rec.Seed,
		classes,
		board,
		progress,
		rec.StartedAt,
		rec.EndedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to archive match %s: %w", rec.MatchID, err)
	}
	return nil
}
