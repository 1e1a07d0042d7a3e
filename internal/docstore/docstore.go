package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/vanzaam/LibreOOPWeb/internal/storage/pebble"
)

var (
	// ErrNoDocument is returned when no document matches a lookup.
	ErrNoDocument = errors.New("docstore: no matching document")
	// ErrTimeout is returned when the backing store could not be reached
	// within the caller's deadline.
	ErrTimeout = errors.New("docstore: store timeout")
)

// Store provides access to named document collections over one shared DB.
type Store struct {
	db *pebblestore.DB
}

// New creates a Store over the given database handle.
func New(db *pebblestore.DB) *Store {
	return &Store{db: db}
}

// Collection returns a handle to a named collection.
func (s *Store) Collection(name string) *Collection {
	return &Collection{db: s.db, name: name}
}

// Collection is a named set of JSON documents keyed by opaque identifiers.
type Collection struct {
	db   *pebblestore.DB
	name string
}

// Doc is one stored document together with its identifier.
type Doc struct {
	ID   string
	Data json.RawMessage
}

// Filter matches documents whose top-level Field equals the given string.
// The zero Filter matches every document.
type Filter struct {
	Field  string
	Equals string
}

func (f Filter) matches(data []byte) bool {
	if f.Field == "" {
		return true
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return false
	}
	v, ok := obj[f.Field]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == f.Equals
}

// docKey builds the storage key for a document.
// Format: col/{collection}/doc/{id}
func docKey(collection, id string) []byte {
	return []byte("col/" + collection + "/doc/" + id)
}

// docPrefix returns the scan prefix for a collection.
func docPrefix(collection string) []byte {
	return []byte("col/" + collection + "/doc/")
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	}
	return nil
}

// InsertOne stores doc under id. The document is JSON-encoded as-is; the
// adapter does not inspect it.
func (c *Collection) InsertOne(ctx context.Context, id string, doc any) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}
	if err := c.db.Set(ctx, docKey(c.name, id), data); err != nil {
		return fmt.Errorf("docstore: insert %s/%s: %w", c.name, id, err)
	}
	return nil
}

// FindOne decodes the document stored under id into out.
// Returns ErrNoDocument when the id has no record.
func (c *Collection) FindOne(ctx context.Context, id string, out any) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	data, err := c.db.Get(docKey(c.name, id))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return ErrNoDocument
		}
		return fmt.Errorf("docstore: find %s/%s: %w", c.name, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("docstore: decode %s/%s: %w", c.name, id, err)
	}
	return nil
}

// FindMany returns up to limit documents matching the filter, in store-native
// key order. limit <= 0 means no limit.
func (c *Collection) FindMany(ctx context.Context, f Filter, limit int) ([]Doc, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	prefix := docPrefix(c.name)
	hi := append(append([]byte{}, prefix...), 0xFF)
	iter, err := c.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: hi})
	if err != nil {
		return nil, fmt.Errorf("docstore: scan %s: %w", c.name, err)
	}
	defer iter.Close()

	var docs []Doc
	for ok := iter.First(); ok; ok = iter.Next() {
		if limit > 0 && len(docs) >= limit {
			break
		}
		val := iter.Value()
		if !f.matches(val) {
			continue
		}
		key := iter.Key()
		docs = append(docs, Doc{
			ID:   string(key[len(prefix):]),
			Data: append(json.RawMessage(nil), val...),
		})
	}
	return docs, nil
}

// UpdateOne applies the field set to the document stored under id and reports
// whether an existing record was modified. With upsert, a missing document is
// created from the field set instead; that insert still reports false so that
// callers can distinguish update from first write.
func (c *Collection) UpdateOne(ctx context.Context, id string, set map[string]any, upsert bool) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	key := docKey(c.name, id)
	data, err := c.db.Get(key)
	if err != nil {
		if !errors.Is(err, pebblestore.ErrNotFound) {
			return false, fmt.Errorf("docstore: update %s/%s: %w", c.name, id, err)
		}
		if !upsert {
			return false, nil
		}
		fresh, merr := json.Marshal(set)
		if merr != nil {
			return false, fmt.Errorf("docstore: encode upsert: %w", merr)
		}
		if err := c.db.Set(ctx, key, fresh); err != nil {
			return false, fmt.Errorf("docstore: upsert %s/%s: %w", c.name, id, err)
		}
		return false, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return false, fmt.Errorf("docstore: decode %s/%s: %w", c.name, id, err)
	}
	for k, v := range set {
		obj[k] = v
	}
	updated, err := json.Marshal(obj)
	if err != nil {
		return false, fmt.Errorf("docstore: encode %s/%s: %w", c.name, id, err)
	}
	if err := c.db.Set(ctx, key, updated); err != nil {
		return false, fmt.Errorf("docstore: write %s/%s: %w", c.name, id, err)
	}
	return true, nil
}

// DeleteMany removes every document matching the filter and returns the count.
func (c *Collection) DeleteMany(ctx context.Context, f Filter) (int, error) {
	docs, err := c.FindMany(ctx, f, 0)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, d := range docs {
		if err := c.db.Delete(ctx, docKey(c.name, d.ID)); err != nil {
			return deleted, fmt.Errorf("docstore: delete %s/%s: %w", c.name, d.ID, err)
		}
		deleted++
	}
	return deleted, nil
}
