// Package heartbeat tracks the offline worker's last successful poll and
// derives the service's up/down signal from its age.
//
// A single logical record lives in the heartbeat collection under a fixed
// tag; it is upserted on every poll. The service counts as up while the
// last poll is at most 60 seconds old.
package heartbeat
