package reading

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanzaam/LibreOOPWeb/internal/docstore"
)

// CollectionName is the document collection holding readings.
const CollectionName = "readings"

// Manager implements the reading lifecycle over the document store.
type Manager struct {
	col *docstore.Collection

	// injectable for tests
	now   func() time.Time
	newID func() string
}

// NewManager creates a Manager bound to the readings collection.
func NewManager(store *docstore.Store) *Manager {
	return &Manager{
		col:   store.Collection(CollectionName),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create validates the payload and optional advanced bundle, then persists a
// new pending reading. Validation order: payload presence, payload base64,
// bundle completeness, oldState base64, each timestamp integer; it stops at
// the first failure and never coerces invalid inputs.
func (m *Manager) Create(ctx context.Context, payload string, adv Advanced) (*Reading, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, &ValidationError{Field: "b64contents", Reason: "must not be empty"}
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return nil, &ValidationError{Field: "b64contents", Reason: "not a base64 string"}
	}

	r := &Reading{
		UUID:        m.newID(),
		Status:      StatusPending,
		B64Contents: payload,
	}

	if !adv.empty() {
		if !adv.complete() {
			return nil, &ValidationError{
				Field:  "advanced",
				Reason: "all of oldState, sensorStartTimestamp, sensorScanTimestamp and currentUtcOffset must be supplied together",
			}
		}
		if _, err := base64.StdEncoding.DecodeString(adv.OldState); err != nil {
			return nil, &ValidationError{Field: "oldState", Reason: "not a base64 string"}
		}
		start, err := parseTimestamp("sensorStartTimestamp", adv.SensorStartTimestamp)
		if err != nil {
			return nil, err
		}
		scan, err := parseTimestamp("sensorScanTimestamp", adv.SensorScanTimestamp)
		if err != nil {
			return nil, err
		}
		offset, err := parseTimestamp("currentUtcOffset", adv.CurrentUtcOffset)
		if err != nil {
			return nil, err
		}
		r.OldState = adv.OldState
		r.SensorStartTimestamp = &start
		r.SensorScanTimestamp = &scan
		r.CurrentUtcOffset = &offset
	}

	nowMs := m.now().UnixMilli()
	r.CreatedAtMs = nowMs
	r.ModifiedAtMs = nowMs

	if err := m.col.InsertOne(ctx, r.UUID, r); err != nil {
		return nil, err
	}
	return r, nil
}

func parseTimestamp(field, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: "not an integer"}
	}
	return n, nil
}

// GetByID returns the current record for id, or ErrNotFound. Read-only: it
// never touches modifiedAtMs.
func (m *Manager) GetByID(ctx context.Context, id string) (*Reading, error) {
	var r Reading
	if err := m.col.FindOne(ctx, id, &r); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Complete attaches a result to the reading identified by id and marks it
// complete. An unknown id is not an error; it reports modified=false so the
// caller can surface a non-fatal outcome. Racing completions follow the
// store's last-write-wins semantics.
func (m *Manager) Complete(ctx context.Context, id, result, newState string) (bool, error) {
	if strings.TrimSpace(result) == "" {
		return false, &ValidationError{Field: "result", Reason: "must not be empty"}
	}
	if newState == "" {
		newState = NoNewState
	}
	set := map[string]any{
		"status":       StatusComplete,
		"result":       result,
		"newState":     newState,
		"modifiedAtMs": m.now().UnixMilli(),
	}
	return m.col.UpdateOne(ctx, id, set, false)
}

// FetchPending returns up to limit pending readings in store-native order.
// It does not claim or mutate the returned items.
func (m *Manager) FetchPending(ctx context.Context, limit int) ([]Reading, error) {
	docs, err := m.col.FindMany(ctx, docstore.Filter{Field: "status", Equals: StatusPending}, limit)
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs)
}

// List returns up to limit readings regardless of status, in store-native
// order. Used by the maintenance/inspection surface.
func (m *Manager) List(ctx context.Context, limit int) ([]Reading, error) {
	docs, err := m.col.FindMany(ctx, docstore.Filter{}, limit)
	if err != nil {
		return nil, err
	}
	return decodeDocs(docs)
}

// PurgeTestReadings deletes every reading whose payload equals the sentinel
// test blob and returns the count. Maintenance only.
func (m *Manager) PurgeTestReadings(ctx context.Context) (int, error) {
	return m.col.DeleteMany(ctx, docstore.Filter{Field: "b64contents", Equals: TestPayload})
}

func decodeDocs(docs []docstore.Doc) ([]Reading, error) {
	readings := make([]Reading, 0, len(docs))
	for _, d := range docs {
		var r Reading
		if err := json.Unmarshal(d.Data, &r); err != nil {
			return nil, fmt.Errorf("reading: decode %s: %w", d.ID, err)
		}
		readings = append(readings, r)
	}
	return readings, nil
}
