package readingsvc

import (
	"context"
	"time"

	"github.com/vanzaam/LibreOOPWeb/internal/gate"
	"github.com/vanzaam/LibreOOPWeb/internal/heartbeat"
	"github.com/vanzaam/LibreOOPWeb/internal/queue"
	"github.com/vanzaam/LibreOOPWeb/internal/reading"
	logpkg "github.com/vanzaam/LibreOOPWeb/pkg/log"
)

// Service coordinates the reading lifecycle behind capability checks.
type Service struct {
	readings *reading.Manager
	queue    *queue.Queue
	hb       *heartbeat.Tracker
	gate     *gate.Gate
	logger   logpkg.Logger
}

// New wires the service from its collaborators.
func New(readings *reading.Manager, q *queue.Queue, hb *heartbeat.Tracker, g *gate.Gate, logger logpkg.Logger) *Service {
	return &Service{
		readings: readings,
		queue:    q,
		hb:       hb,
		gate:     g,
		logger:   logger.WithComponent("readings"),
	}
}

// Create stores a new pending reading on behalf of an uploader.
func (s *Service) Create(ctx context.Context, token, payload string, adv reading.Advanced) (*reading.Reading, error) {
	if err := s.gate.RequireUpload(ctx, token); err != nil {
		return nil, err
	}
	r, err := s.readings.Create(ctx, payload, adv)
	if err != nil {
		return nil, err
	}
	s.logger.Info("reading created", logpkg.Str("uuid", r.UUID))
	return r, nil
}

// Status returns the current record for id so the uploader can poll for a
// result.
func (s *Service) Status(ctx context.Context, token, id string) (*reading.Reading, error) {
	if err := s.gate.RequireUpload(ctx, token); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &reading.ValidationError{Field: "uuid", Reason: "must not be empty"}
	}
	return s.readings.GetByID(ctx, id)
}

// FetchPending hands up to limit pending readings to the algorithm worker.
func (s *Service) FetchPending(ctx context.Context, token string, limit int) ([]reading.Reading, error) {
	if err := s.gate.RequireProcess(ctx, token); err != nil {
		return nil, err
	}
	return s.queue.FetchPending(ctx, limit)
}

// UploadResult attaches the worker's computed result to a reading. An
// unknown id reports modified=false without an error.
func (s *Service) UploadResult(ctx context.Context, token, id, result, newState string) (bool, error) {
	if err := s.gate.RequireProcess(ctx, token); err != nil {
		return false, err
	}
	if id == "" {
		return false, &reading.ValidationError{Field: "uuid", Reason: "must not be empty"}
	}
	modified, err := s.queue.MarkProcessed(ctx, id, result, newState)
	if err != nil {
		return false, err
	}
	if !modified {
		s.logger.Warn("result for unknown reading", logpkg.Str("uuid", id))
	}
	return modified, nil
}

// Liveness reports whether the worker has polled recently. Public: the
// uptime signal carries no reading data.
func (s *Service) Liveness(ctx context.Context) (heartbeat.Liveness, error) {
	return s.hb.Liveness(ctx)
}

// PurgeTestData deletes every sentinel test reading and returns the count.
func (s *Service) PurgeTestData(ctx context.Context, token string) (int, error) {
	if err := s.gate.RequireProcess(ctx, token); err != nil {
		return 0, err
	}
	n, err := s.readings.PurgeTestReadings(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("test readings purged", logpkg.Int("count", n))
	return n, nil
}

// ListReadings returns up to limit readings matching the optional CEL
// filter expression. Inspection surface, gated like processing.
func (s *Service) ListReadings(ctx context.Context, token, filterExpr string, limit int) ([]reading.Reading, error) {
	if err := s.gate.RequireProcess(ctx, token); err != nil {
		return nil, err
	}
	filter, err := newCELFilter(filterExpr)
	if err != nil {
		return nil, &reading.ValidationError{Field: "filter", Reason: err.Error()}
	}
	all, err := s.readings.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]reading.Reading, 0, len(all))
	for _, r := range all {
		if !filter.Eval(r, now) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
