// Package readingsvc is the orchestration layer between the HTTP boundary
// and the domain packages. It enforces capability checks before any store
// access and keeps transport concerns out of the domain.
package readingsvc
