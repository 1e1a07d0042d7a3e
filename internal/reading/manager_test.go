package reading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanzaam/LibreOOPWeb/internal/docstore"
	pebblestore "github.com/vanzaam/LibreOOPWeb/internal/storage/pebble"
)

func openTestManager(t *testing.T) *Manager {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewManager(docstore.New(db))
}

func TestCreateSimple(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()

	r, err := m.Create(ctx, "AAAA", Advanced{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.UUID == "" {
		t.Fatalf("want non-empty uuid")
	}
	if r.Status != StatusPending {
		t.Fatalf("want pending, got %q", r.Status)
	}
	if r.Result != "" || r.NewState != "" {
		t.Fatalf("new reading must have no result: %+v", r)
	}
	if r.CreatedAtMs == 0 || r.ModifiedAtMs != r.CreatedAtMs {
		t.Fatalf("timestamps not stamped: %+v", r)
	}

	got, err := m.GetByID(ctx, r.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.B64Contents != "AAAA" {
		t.Fatalf("payload roundtrip: %+v", got)
	}
}

func TestCreateUniqueIDs(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		r, err := m.Create(ctx, "AAAA", Advanced{})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[r.UUID] {
			t.Fatalf("duplicate uuid %s", r.UUID)
		}
		seen[r.UUID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		payload   string
		adv       Advanced
		wantField string
	}{
		{"empty payload", "", Advanced{}, "b64contents"},
		{"whitespace payload", "   ", Advanced{}, "b64contents"},
		{"bad base64", "not-base64!", Advanced{}, "b64contents"},
		{"partial bundle 1", "AAAA", Advanced{OldState: "AAAA"}, "advanced"},
		{"partial bundle 2", "AAAA", Advanced{OldState: "AAAA", SensorStartTimestamp: "1"}, "advanced"},
		{"partial bundle 3", "AAAA", Advanced{OldState: "AAAA", SensorStartTimestamp: "1", SensorScanTimestamp: "2"}, "advanced"},
		{"bad oldState", "AAAA", Advanced{OldState: "!!", SensorStartTimestamp: "1", SensorScanTimestamp: "2", CurrentUtcOffset: "3"}, "oldState"},
		{"bad start ts", "AAAA", Advanced{OldState: "AAAA", SensorStartTimestamp: "x", SensorScanTimestamp: "2", CurrentUtcOffset: "3"}, "sensorStartTimestamp"},
		{"bad scan ts", "AAAA", Advanced{OldState: "AAAA", SensorStartTimestamp: "1", SensorScanTimestamp: "x", CurrentUtcOffset: "3"}, "sensorScanTimestamp"},
		{"bad offset", "AAAA", Advanced{OldState: "AAAA", SensorStartTimestamp: "1", SensorScanTimestamp: "2", CurrentUtcOffset: "x"}, "currentUtcOffset"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Create(ctx, tc.payload, tc.adv)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != tc.wantField {
				t.Fatalf("want field %q, got %q (%v)", tc.wantField, ve.Field, err)
			}
		})
	}
}

func TestCreateFullBundle(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()

	r, err := m.Create(ctx, "AAAA", Advanced{
		OldState:             "c3RhdGU=",
		SensorStartTimestamp: "1000",
		SensorScanTimestamp:  "2000",
		CurrentUtcOffset:     "-3600000",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.OldState != "c3RhdGU=" {
		t.Fatalf("oldState: %+v", r)
	}
	if r.SensorStartTimestamp == nil || *r.SensorStartTimestamp != 1000 {
		t.Fatalf("sensorStartTimestamp: %+v", r)
	}
	if r.SensorScanTimestamp == nil || *r.SensorScanTimestamp != 2000 {
		t.Fatalf("sensorScanTimestamp: %+v", r)
	}
	if r.CurrentUtcOffset == nil || *r.CurrentUtcOffset != -3600000 {
		t.Fatalf("currentUtcOffset: %+v", r)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	m := openTestManager(t)
	if _, err := m.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByIDDoesNotTouchModified(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	r, _ := m.Create(ctx, "AAAA", Advanced{})

	got1, _ := m.GetByID(ctx, r.UUID)
	got2, _ := m.GetByID(ctx, r.UUID)
	if got1.ModifiedAtMs != got2.ModifiedAtMs || got1.ModifiedAtMs != r.ModifiedAtMs {
		t.Fatalf("status polls must not mutate modifiedAtMs")
	}
}

func TestComplete(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	r, _ := m.Create(ctx, "AAAA", Advanced{})

	base := time.UnixMilli(r.CreatedAtMs)
	m.now = func() time.Time { return base.Add(5 * time.Second) }

	modified, err := m.Complete(ctx, r.UUID, "5.2", "xyz")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !modified {
		t.Fatalf("want modified=true")
	}

	got, _ := m.GetByID(ctx, r.UUID)
	if got.Status != StatusComplete || got.Result != "5.2" || got.NewState != "xyz" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.ModifiedAtMs <= got.CreatedAtMs {
		t.Fatalf("modifiedAtMs not advanced: %+v", got)
	}
	if got.B64Contents != "AAAA" {
		t.Fatalf("complete must not clobber payload: %+v", got)
	}
}

func TestCompleteLastWriteWins(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	r, _ := m.Create(ctx, "AAAA", Advanced{})

	if mod, err := m.Complete(ctx, r.UUID, "5.2", "s1"); err != nil || !mod {
		t.Fatalf("first complete: %v %v", mod, err)
	}
	if mod, err := m.Complete(ctx, r.UUID, "6.1", "s2"); err != nil || !mod {
		t.Fatalf("second complete: %v %v", mod, err)
	}
	got, _ := m.GetByID(ctx, r.UUID)
	if got.Result != "6.1" || got.NewState != "s2" {
		t.Fatalf("second write must win: %+v", got)
	}
}

func TestCompleteUnknownID(t *testing.T) {
	m := openTestManager(t)
	modified, err := m.Complete(context.Background(), "ghost", "5.2", "")
	if err != nil {
		t.Fatalf("unknown id must not error: %v", err)
	}
	if modified {
		t.Fatalf("unknown id must report modified=false")
	}
}

func TestCompleteEmptyResult(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	r, _ := m.Create(ctx, "AAAA", Advanced{})
	_, err := m.Complete(ctx, r.UUID, "  ", "xyz")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "result" {
		t.Fatalf("want result validation error, got %v", err)
	}
}

func TestCompleteSubstitutesNewStateSentinel(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	r, _ := m.Create(ctx, "AAAA", Advanced{})
	if _, err := m.Complete(ctx, r.UUID, "5.2", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, _ := m.GetByID(ctx, r.UUID)
	if got.NewState != NoNewState {
		t.Fatalf("want %q, got %q", NoNewState, got.NewState)
	}
}

func TestFetchPending(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		r, err := m.Create(ctx, "AAAA", Advanced{})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, r.UUID)
	}
	// complete two of them
	for _, id := range ids[:2] {
		if _, err := m.Complete(ctx, id, "ok", ""); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}

	pending, err := m.FetchPending(ctx, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("want 3 pending, got %d", len(pending))
	}
	for _, p := range pending {
		if p.Status != StatusPending {
			t.Fatalf("non-pending item returned: %+v", p)
		}
	}

	limited, err := m.FetchPending(ctx, 2)
	if err != nil {
		t.Fatalf("fetch limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit not honored: got %d", len(limited))
	}

	// fetch does not claim: a second call sees the same pending set
	again, _ := m.FetchPending(ctx, 10)
	if len(again) != 3 {
		t.Fatalf("fetch must not claim items: got %d", len(again))
	}
}

func TestPurgeTestReadings(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()

	if _, err := m.Create(ctx, TestPayload, Advanced{}); err != nil {
		t.Fatalf("create test reading: %v", err)
	}
	if _, err := m.Create(ctx, TestPayload, Advanced{}); err != nil {
		t.Fatalf("create test reading: %v", err)
	}
	kept, err := m.Create(ctx, "AAAA", Advanced{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	n, err := m.PurgeTestReadings(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 purged, got %d", n)
	}
	if _, err := m.GetByID(ctx, kept.UUID); err != nil {
		t.Fatalf("purge must not delete real readings: %v", err)
	}
}
