/*
Package archive stores the result of every finished match.

A Record is the final state of a match: its board, the per-team progress and the settings it was
played with. Sinks persist records to PostgreSQL, to S3-compatible object storage, or nowhere.
*/
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bingohub/internal/app/bingo"
)

// Record is the archived outcome of one match.
type Record struct {
	RoomCode  string               `json:"roomCode"`
	MatchID   uuid.UUID            `json:"matchId"`
	Seed      int64                `json:"seed"`
	Classes   []string             `json:"classes"`
	Board     *bingo.Board         `json:"board"`
	Progress  []bingo.CheckPerTeam `json:"progress"`
	StartedAt time.Time            `json:"startedAt"`
	EndedAt   time.Time            `json:"endedAt"`
}

// NewRecord describes match by its final board and the progress computed from that board.
func NewRecord(roomCode string, match *bingo.Match, board *bingo.Board, progress []bingo.CheckPerTeam, endedAt time.Time) Record {
	classes := match.Classes
	if classes == nil {
		classes = []string{}
	}
	if progress == nil {
		progress = []bingo.CheckPerTeam{}
	}

	return Record{
		RoomCode:  roomCode,
		MatchID:   match.ID,
		Seed:      match.Settings.RandomSeed,
		Classes:   classes,
		Board:     board,
		Progress:  progress,
		StartedAt: match.StartedAt,
		EndedAt:   endedAt,
	}
}

// Sink persists match records. Saving the same match twice is not an error.
type Sink interface {
	Save(ctx context.Context, rec Record) error
}

// NopSink discards every record.
type NopSink struct{}

// Save implements Sink.
func (NopSink) Save(context.Context, Record) error { return nil }
