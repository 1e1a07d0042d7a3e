package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/vanzaam/LibreOOPWeb/internal/config"
	"github.com/vanzaam/LibreOOPWeb/internal/docstore"
	pebblestore "github.com/vanzaam/LibreOOPWeb/internal/storage/pebble"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Runtime owns the storage engine and the document store built on it.
type Runtime struct {
	db     *pebblestore.DB
	store  *docstore.Store
	config cfgpkg.Config
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
	})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		db:     db,
		store:  docstore.New(db),
		config: opts.Config,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check against the storage engine.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// Store returns the document store.
func (r *Runtime) Store() *docstore.Store { return r.store }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// FsyncModeFromString maps a config fsync value to the storage mode.
// Unknown values fall back to FsyncModeAlways.
func FsyncModeFromString(v string) pebblestore.FsyncMode {
	switch v {
	case "interval":
		return pebblestore.FsyncModeInterval
	case "off":
		return pebblestore.FsyncModeNever
	default:
		return pebblestore.FsyncModeAlways
	}
}
