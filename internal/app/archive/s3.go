package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"bingohub/internal/app/storage"
)

// S3Sink writes each record as a JSON object.
type S3Sink struct {
	store storage.ObjectStore
}

// NewS3Sink creates a sink on top of an object store.
func NewS3Sink(store storage.ObjectStore) *S3Sink {
	return &S3Sink{store: store}
}

// ObjectKey is the object key a record is stored under.
func ObjectKey(rec Record) string {
	return fmt.Sprintf("matches/%s/%s.json", rec.RoomCode, rec.MatchID)
}

// Save uploads rec unless an object for the same match already exists.
func (s *S3Sink) Save(ctx context.Context, rec Record) error {
	key := ObjectKey(rec)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode match record: %w", err)
	}

	return s.store.Put(ctx, key, "application/json", bytes.NewReader(body))
}
