package heartbeat

import (
	"context"
	"testing"
	"time"

	"github.com/vanzaam/LibreOOPWeb/internal/docstore"
	pebblestore "github.com/vanzaam/LibreOOPWeb/internal/storage/pebble"
)

func openTestTracker(t *testing.T) *Tracker {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewTracker(docstore.New(db))
}

func TestLivenessNeverPolled(t *testing.T) {
	tr := openTestTracker(t)
	lv, err := tr.Liveness(context.Background())
	if err != nil {
		t.Fatalf("liveness: %v", err)
	}
	if lv.AgeSeconds != -1 || lv.Up {
		t.Fatalf("want age=-1 down, got %+v", lv)
	}
	if lv.LastPoll != nil {
		t.Fatalf("want no last poll, got %v", lv.LastPoll)
	}
}

func TestRecordPollAndLiveness(t *testing.T) {
	tr := openTestTracker(t)
	ctx := context.Background()

	clock := time.UnixMilli(1_000_000_000)
	tr.now = func() time.Time { return clock }

	if err := tr.RecordPoll(ctx); err != nil {
		t.Fatalf("record: %v", err)
	}
	lv, err := tr.Liveness(ctx)
	if err != nil {
		t.Fatalf("liveness: %v", err)
	}
	if lv.AgeSeconds != 0 || !lv.Up {
		t.Fatalf("want fresh up, got %+v", lv)
	}

	// at the 60s boundary the service is still up
	clock = clock.Add(60 * time.Second)
	lv, _ = tr.Liveness(ctx)
	if lv.AgeSeconds != 60 || !lv.Up {
		t.Fatalf("want up at 60s, got %+v", lv)
	}

	// past the boundary it is down
	clock = clock.Add(time.Second)
	lv, _ = tr.Liveness(ctx)
	if lv.AgeSeconds != 61 || lv.Up {
		t.Fatalf("want down at 61s, got %+v", lv)
	}
}

func TestRecordPollUpserts(t *testing.T) {
	tr := openTestTracker(t)
	ctx := context.Background()

	clock := time.UnixMilli(1_000_000_000)
	tr.now = func() time.Time { return clock }

	if err := tr.RecordPoll(ctx); err != nil {
		t.Fatalf("first record: %v", err)
	}
	clock = clock.Add(10 * time.Second)
	if err := tr.RecordPoll(ctx); err != nil {
		t.Fatalf("second record: %v", err)
	}

	last, ok, err := tr.LastPoll(ctx)
	if err != nil || !ok {
		t.Fatalf("lastpoll: %v %v", ok, err)
	}
	if !last.Equal(clock) {
		t.Fatalf("want last=%v got %v", clock, last)
	}
}

func TestLivenessClockSkew(t *testing.T) {
	tr := openTestTracker(t)
	ctx := context.Background()

	clock := time.UnixMilli(1_000_000_000)
	tr.now = func() time.Time { return clock }
	if err := tr.RecordPoll(ctx); err != nil {
		t.Fatalf("record: %v", err)
	}

	// clock moves backwards: negative age counts as down
	clock = clock.Add(-5 * time.Second)
	lv, _ := tr.Liveness(ctx)
	if lv.Up {
		t.Fatalf("negative age must be down: %+v", lv)
	}
}
