// Package pebblestore wraps the Pebble key-value store used as the
// persistence engine beneath the document-store adapter.
//
// The wrapper owns the fsync policy (always, interval group-commit, or
// never) and exposes batch commits plus a small metrics hook surface.
// One DB is opened per process and shared by reference.
package pebblestore
