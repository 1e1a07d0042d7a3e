// Package log provides the structured logging system shared by all
// LibreOOPWeb components.
//
// Loggers are constructed explicitly and passed by dependency injection;
// there is no package-level default. Components tag their logs with
// WithComponent and attach structured fields via the Field helpers.
package log
