// Package readiness evaluates the pre-departure gate.
//
// The evaluator is pure: the service layer gathers a snapshot of stored
// checklist, attendance, certification, approval, and risk state, and
// Evaluate derives the can-start decision from it. Every sub-check runs
// independently so callers always receive the full ordered list of
// outstanding items, never just the first failure.
package readiness
