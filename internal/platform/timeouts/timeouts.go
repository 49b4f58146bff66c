// Package timeouts defines shared timeout constants used across the engine.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// Collaborator caps the time allowed for a single external sub-check call
// (certifications, approvals, attendance, handover, tasks, expenses).
// A sub-check that exceeds this budget degrades on its own; the remaining
// sub-checks still run.
const Collaborator = 2 * time.Second

// WeatherFetch caps the wait for the marine weather provider when
// auto-filling a risk assessment. Manual entry does not wait on this.
const WeatherFetch = 3 * time.Second

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
