package eventlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) Now() time.Time { return f.t }

func TestService_WritesEconomyEvents(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeNow{t: time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)}
	svc := NewService(dir, clock.Now)
	bus := event.NewMemoryBus()
	require.NoError(t, svc.Subscribe(bus))

	c := &domain.SpawnedCreature{ID: 5, OwnerID: "owner-a", AssetID: 210, Rarity: 2}
	require.NoError(t, bus.Publish(context.Background(), event.NewCreatureEvent(event.CreatureCollected, c, clock.t)))
	require.NoError(t, bus.Publish(context.Background(), event.NewCreaturesDespawnedEvent(3, clock.t)))
	require.NoError(t, svc.Close())

	segments, err := Segments(dir, SegmentPrefix)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "economy-2026-04-02-09.jsonl.zst", filepath.Base(segments[0]))

	entries, err := ReadSegment(segments[0])
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, string(event.CreatureCollected), entries[0].EventType)
	assert.Equal(t, "owner-a", entries[0].OwnerID)
	assert.Empty(t, entries[1].OwnerID)
	assert.JSONEq(t, `{"count":3,"timestamp":"2026-04-02T09:30:00Z"}`, string(entries[1].Payload))
}

func TestWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeNow{t: time.Date(2026, 4, 2, 9, 59, 0, 0, time.UTC)}
	w := NewWriter(dir, "test", clock.Now)

	require.NoError(t, w.Write(map[string]int{"n": 1}))
	clock.t = clock.t.Add(2 * time.Minute)
	require.NoError(t, w.Write(map[string]int{"n": 2}))
	require.NoError(t, w.Close())

	segments, err := Segments(dir, "test")
	require.NoError(t, err)
	assert.Len(t, segments, 2)
}

func TestWriter_ReopenAppendsFrame(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeNow{t: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)}

	for i := 0; i < 2; i++ {
		w := NewWriter(dir, SegmentPrefix, clock.Now)
		require.NoError(t, w.Write(Entry{EventType: "x", Payload: []byte(`{}`)}))
		require.NoError(t, w.Close())
	}

	segments, err := Segments(dir, SegmentPrefix)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	entries, err := ReadSegment(segments[0])
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCleanupJob_RemovesExpiredSegments(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"economy-2026-04-01-00.jsonl.zst",
		"economy-2026-04-08-10.jsonl.zst",
		"economy-2026-04-10-11.jsonl.zst",
		"unrelated.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	job := NewCleanupJob(NewService(dir, func() time.Time { return now }), 7)
	report, err := job.Sweep(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepAuditCleanup, report.Sweep)
	assert.Equal(t, 1, report.Applied)

	segments, err := Segments(dir, SegmentPrefix)
	require.NoError(t, err)
	assert.Len(t, segments, 2)
	_, err = os.Stat(filepath.Join(dir, "unrelated.txt"))
	assert.NoError(t, err)
}
