package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingohub/internal/app/bingo"
)

func newRecord(t *testing.T) Record {
	t.Helper()

	m := bingo.NewMatch(bingo.MatchSettings{RandomSeed: 7}, nil)
	require.True(t, m.ClaimSquare(0, 1))

	progress := []bingo.CheckPerTeam{{Team: 1, Name: "Team 1", Squares: 1}}
	return NewRecord("AbC123", m, m.Board(), progress, m.StartedAt.Add(time.Hour))
}

func TestNewRecord(t *testing.T) {
	rec := newRecord(t)

	assert.Equal(t, "AbC123", rec.RoomCode)
	assert.Equal(t, int64(7), rec.Seed)
	assert.Equal(t, []string{}, rec.Classes)
	require.NotNil(t, rec.Board)
	assert.Equal(t, bingo.OwnedBy(1), rec.Board.Squares[0].Owner)
	assert.Equal(t, time.Hour, rec.EndedAt.Sub(rec.StartedAt))
}

func TestRecordJSON(t *testing.T) {
	data, err := json.Marshal(newRecord(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "AbC123", decoded["roomCode"])
	assert.Len(t, decoded["progress"], 1)
}

func TestNopSink(t *testing.T) {
	assert.NoError(t, NopSink{}.Save(context.Background(), newRecord(t)))
}

type fakeExecer struct {
	sql  string
	args []any
	err  error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestPostgresSinkSave(t *testing.T) {
	rec := newRecord(t)
	exec := &fakeExecer{}

	require.NoError(t, NewPostgresSink(exec).Save(context.Background(), rec))

	assert.Contains(t, exec.sql, "INSERT INTO match_archive")
	require.Len(t, exec.args, 8)
	assert.Equal(t, rec.MatchID.String(), exec.args[0])
	assert.Equal(t, "AbC123", exec.args[1])
	assert.JSONEq(t, `[{"team":1,"name":"Team 1","squares":1,"bingos":0}]`, string(exec.args[5].([]byte)))
}

func TestPostgresSinkDuplicate(t *testing.T) {
	exec := &fakeExecer{err: &pgconn.PgError{Code: "23505"}}
	assert.NoError(t, NewPostgresSink(exec).Save(context.Background(), newRecord(t)))
}

func TestPostgresSinkError(t *testing.T) {
	exec := &fakeExecer{err: errors.New("connection refused")}
	err := NewPostgresSink(exec).Save(context.Background(), newRecord(t))
	assert.ErrorContains(t, err, "connection refused")
}

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
	headErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(_ context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	if m.headErr != nil {
		return false, m.headErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func TestObjectKey(t *testing.T) {
	rec := newRecord(t)
	assert.Equal(t, "matches/AbC123/"+rec.MatchID.String()+".json", ObjectKey(rec))
}

func TestS3SinkSave(t *testing.T) {
	rec := newRecord(t)
	store := newMemoryStore()
	sink := NewS3Sink(store)

	require.NoError(t, sink.Save(context.Background(), rec))

	key := ObjectKey(rec)
	require.Contains(t, store.objects, key)
	assert.Equal(t, "application/json", store.types[key])

	var decoded Record
	require.NoError(t, json.NewDecoder(bytes.NewReader(store.objects[key])).Decode(&decoded))
	assert.Equal(t, rec.MatchID, decoded.MatchID)
	assert.Equal(t, rec.Progress, decoded.Progress)
}

func TestS3SinkSkipsExisting(t *testing.T) {
	rec := newRecord(t)
	store := newMemoryStore()
	store.objects[ObjectKey(rec)] = []byte("old")

	require.NoError(t, NewS3Sink(store).Save(context.Background(), rec))
	assert.Equal(t, []byte("old"), store.objects[ObjectKey(rec)])
}

func TestS3SinkHeadError(t *testing.T) {
	store := newMemoryStore()
	store.headErr = errors.New("forbidden")

	err := NewS3Sink(store).Save(context.Background(), newRecord(t))
	assert.ErrorContains(t, err, "forbidden")
	assert.Empty(t, store.objects)
}
