package heartbeat

import (
	"context"
	"errors"
	"time"

	"github.com/vanzaam/LibreOOPWeb/internal/docstore"
)

// CollectionName is the document collection holding the heartbeat record.
const CollectionName = "heartbeat"

// Tag identifies the single process-wide heartbeat record.
const Tag = "lastfetch"

// maxPollAge is the fixed policy threshold: the service is up while the last
// poll is at most this old.
const maxPollAge = 60 * time.Second

type record struct {
	Desc         string `json:"desc"`
	ModifiedAtMs int64  `json:"modifiedAtMs"`
}

// Liveness is the derived up/down signal.
type Liveness struct {
	// AgeSeconds is the elapsed time since the last poll, or -1 when no
	// poll has ever been recorded.
	AgeSeconds int64      `json:"lastPingSecondsAgo"`
	Up         bool       `json:"up"`
	LastPoll   *time.Time `json:"lastPing,omitempty"`
	Now        time.Time  `json:"now"`
}

// Tracker records and reports worker polls.
type Tracker struct {
	col *docstore.Collection
	now func() time.Time
}

// NewTracker creates a Tracker bound to the heartbeat collection.
func NewTracker(store *docstore.Store) *Tracker {
	return &Tracker{
		col: store.Collection(CollectionName),
		now: time.Now,
	}
}

// RecordPoll upserts the heartbeat record's modifiedAtMs to now.
func (t *Tracker) RecordPoll(ctx context.Context) error {
	set := map[string]any{
		"desc":         Tag,
		"modifiedAtMs": t.now().UnixMilli(),
	}
	_, err := t.col.UpdateOne(ctx, Tag, set, true)
	return err
}

// LastPoll returns the last recorded poll time. ok is false when no
// heartbeat has ever been written.
func (t *Tracker) LastPoll(ctx context.Context) (time.Time, bool, error) {
	var rec record
	if err := t.col.FindOne(ctx, Tag, &rec); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return time.UnixMilli(rec.ModifiedAtMs), true, nil
}

// Liveness derives the up/down signal at the tracker's current time.
// Negative ages (clock skew) count as down.
func (t *Tracker) Liveness(ctx context.Context) (Liveness, error) {
	now := t.now()
	last, ok, err := t.LastPoll(ctx)
	if err != nil {
		return Liveness{}, err
	}
	lv := Liveness{AgeSeconds: -1, Now: now}
	if ok {
		lv.AgeSeconds = int64(now.Sub(last) / time.Second)
		lv.LastPoll = &last
	}
	lv.Up = lv.AgeSeconds >= 0 && lv.AgeSeconds <= int64(maxPollAge/time.Second)
	return lv, nil
}
