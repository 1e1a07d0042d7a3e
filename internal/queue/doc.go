// Package queue exposes the pending-readings work queue consumed by the
// offline algorithm worker.
//
// Fetching is deliberately claim-free: pending items are returned without
// being marked or removed, so repeated polls before completion see
// overlapping results. That gives at-least-once delivery to a single
// cooperating consumer class. Every fetch also records a heartbeat as a
// best-effort liveness side channel.
package queue
