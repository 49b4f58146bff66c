// Package risk scores departure conditions for a trip.
//
// Scoring is a pure function over environmental and readiness inputs; the
// caller persists the resulting assessment snapshot. A score above the
// block threshold forces the readiness gate closed regardless of every
// other sub-check.
package risk
