// Package runtime wires storage, the document store, and configuration for
// a single-node instance. Higher layers build their facades on top of the
// runtime's Store.
package runtime
