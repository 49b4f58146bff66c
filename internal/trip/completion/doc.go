// Package completion evaluates the end-of-trip gate.
//
// Required sub-checks block completion; soft sub-checks surface as warnings
// only. A sub-check that does not apply to the trip type is excluded from
// both the decision and the progress denominator rather than counted as
// failing.
package completion
