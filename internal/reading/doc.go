// Package reading owns the glucose-reading entity: its state machine
// (pending -> complete), input validation, identifier generation, and
// result-attachment semantics.
//
// A reading is created by an uploader with a base64 sensor blob and an
// optional advanced-parameter bundle, fetched by the offline algorithm
// worker while pending, and completed exactly once by an identifier-targeted
// update. Readings are retained indefinitely; the only deletion path is the
// maintenance purge of well-known test fixtures.
package reading
