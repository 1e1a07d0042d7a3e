package queue

import (
	"context"

	"github.com/vanzaam/LibreOOPWeb/internal/reading"
	logpkg "github.com/vanzaam/LibreOOPWeb/pkg/log"
)

// DefaultFetchLimit bounds a fetch when the caller passes no limit.
const DefaultFetchLimit = 10

// pollRecorder is the liveness side channel fired on every fetch.
type pollRecorder interface {
	RecordPoll(ctx context.Context) error
}

// Queue hands pending readings to the worker and accepts results back.
type Queue struct {
	readings *reading.Manager
	hb       pollRecorder
	logger   logpkg.Logger
	limit    int
}

// New creates a Queue. defaultLimit <= 0 falls back to DefaultFetchLimit.
func New(readings *reading.Manager, hb pollRecorder, logger logpkg.Logger, defaultLimit int) *Queue {
	if defaultLimit <= 0 {
		defaultLimit = DefaultFetchLimit
	}
	return &Queue{
		readings: readings,
		hb:       hb,
		logger:   logger.WithComponent("queue"),
		limit:    defaultLimit,
	}
}

// FetchPending returns up to limit pending readings without claiming them.
// Every successful fetch, even an empty one, also updates the heartbeat.
// A heartbeat failure is logged and swallowed so a liveness outage never
// blocks work distribution.
func (q *Queue) FetchPending(ctx context.Context, limit int) ([]reading.Reading, error) {
	if limit <= 0 {
		limit = q.limit
	}
	items, err := q.readings.FetchPending(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := q.hb.RecordPoll(ctx); err != nil {
		q.logger.Warn("heartbeat update failed", logpkg.Err(err))
	}
	return items, nil
}

// MarkProcessed attaches the worker's result to a reading and reports
// whether a matching record was modified.
func (q *Queue) MarkProcessed(ctx context.Context, id, result, newState string) (bool, error) {
	return q.readings.Complete(ctx, id, result, newState)
}
